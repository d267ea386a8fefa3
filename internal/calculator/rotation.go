// Package calculator holds pure rotation arithmetic, kept free of engine
// state so it can be tested exhaustively on its own.
package calculator

// Turn is one upcoming rotation slot.
type Turn struct {
	// Period is the zero-based period index of the slot.
	Period uint64 `json:"period"`

	// Recipient is the member projected to receive the payout, or empty
	// when no queue member would be eligible.
	Recipient string `json:"recipient"`

	// WouldSkip reports that the slot's nominal recipient is currently
	// ineligible and the rotation would advance past them.
	WouldSkip bool `json:"would_skip"`
}

// UpcomingRecipients projects the next n rotation turns starting at
// fromPeriod, given the current skip counter and an eligibility test.
//
// The projection mirrors the payout rule exactly: the nominal recipient for
// a period sits at queue index (period - skipped) % len(queue); a skip
// permanently shifts every later period's index. It is a forecast against
// today's eligibility, so future punishments or reinstatements will change
// it.
//
// The skip counter only grows when a period is paid, so any period below it
// is already settled. If fromPeriod sits below the counter the projection
// starts at the counter instead, keeping the index subtraction in range.
func UpcomingRecipients(queue []string, skipped, fromPeriod uint64, n int, eligible func(string) bool) []Turn {
	if len(queue) == 0 || n <= 0 {
		return nil
	}
	if fromPeriod < skipped {
		fromPeriod = skipped
	}

	turns := make([]Turn, 0, n)
	size := uint64(len(queue))
	for p := fromPeriod; p < fromPeriod+uint64(n); p++ {
		nominal := (p - skipped) % size
		turn := Turn{Period: p, Recipient: queue[nominal]}

		if !eligible(turn.Recipient) {
			turn.WouldSkip = true
			turn.Recipient = ""
			for i := uint64(1); i < size; i++ {
				candidate := queue[(nominal+i)%size]
				if eligible(candidate) {
					turn.Recipient = candidate
					break
				}
			}
			// The real payout would bump the skip counter here.
			skipped++
		}
		turns = append(turns, turn)
	}
	return turns
}
