package models

// PayoutRecord is the settled payout for one period. At most one exists per
// period; once written the period is immutably paid.
type PayoutRecord struct {
	// Period is the zero-based period index this payout settles.
	Period uint64 `json:"period"`

	// Recipient is the user identity that received the pool.
	Recipient string `json:"recipient"`

	// Amount is the payout, in minor units.
	Amount int64 `json:"amount"`

	// Timestamp is the Unix timestamp the payout was processed.
	Timestamp int64 `json:"timestamp"`

	// WasSkipped reports that the period's nominal queue recipient was
	// ineligible and the rotation advanced past them.
	WasSkipped bool `json:"was_skipped"`
}
