package engine

import (
	"context"

	"github.com/mkamau/chamapool/internal/models"
)

// SetPayoutQueue fixes the rotation order. Creator only, settable exactly
// once; the queue must cover the membership exactly, one entry per member.
func (g *Group) SetPayoutQueue(ctx context.Context, caller string, queue []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if caller != g.creator {
		return ErrNotCreator
	}
	if g.queueSet {
		return ErrQueueAlreadySet
	}
	if len(queue) == 0 || len(queue) != g.memberCount {
		return ErrQueueSize
	}
	seen := make(map[string]bool, len(queue))
	for _, id := range queue {
		if _, ok := g.members[id]; !ok {
			return ErrUnknownMember
		}
		if seen[id] {
			return ErrInvalidTarget
		}
		seen[id] = true
	}

	g.payoutQueue = append([]string(nil), queue...)
	g.queueSet = true
	return nil
}

// ProcessRotationPayout pays the current period's pooled contributions to the
// member whose turn it is. Admin only; one payout per period, ever.
//
// The payout is gated on full compliance: every queue member who is currently
// eligible (active, unpunished) must have contributed this period. The
// nominal recipient sits at queue index (period - skippedPayouts); if they
// are ineligible the period is marked skipped, the skip counter shifts the
// rotation for all future periods, and the first eligible member forward of
// them receives instead. Members who already received a payout in an earlier
// period are not excluded: only inactivity and punishment skip a turn.
func (g *Group) ProcessRotationPayout(ctx context.Context, caller string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if !g.admins[caller] {
		return ErrNotAdmin
	}
	now := g.clock.Now()
	if now.Before(g.rules.StartDate) {
		return ErrGroupNotStarted
	}
	if !g.queueSet {
		return ErrQueueNotSet
	}

	period := g.periodAt(now)
	if _, ok := g.payouts[period]; ok {
		return ErrPeriodAlreadyPaid
	}

	for _, id := range g.payoutQueue {
		if g.isEligible(id) && g.contributions[period][id] == 0 {
			return ErrMemberNotContributed
		}
	}

	n := uint64(len(g.payoutQueue))
	nominal := (period - g.skippedPayouts) % n
	recipient := g.payoutQueue[nominal]
	wasSkipped := false

	if !g.isEligible(recipient) {
		wasSkipped = true
		recipient = ""
		for i := uint64(1); i < n; i++ {
			candidate := g.payoutQueue[(nominal+i)%n]
			if g.isEligible(candidate) {
				recipient = candidate
				break
			}
		}
		if recipient == "" {
			return ErrNoEligibleRecipient
		}
	}

	amount := g.rules.ContributionAmount * int64(g.activeMemberCount)
	record := &models.PayoutRecord{
		Period:     period,
		Recipient:  recipient,
		Amount:     amount,
		Timestamp:  now.Unix(),
		WasSkipped: wasSkipped,
	}

	g.payouts[period] = record
	g.payoutHistory[recipient] = append(g.payoutHistory[recipient], *record)
	if wasSkipped {
		g.skippedPayouts++
	}
	g.totalFunds -= amount

	if err := g.transferOut(ctx, recipient, amount); err != nil {
		g.totalFunds += amount
		if wasSkipped {
			g.skippedPayouts--
		}
		history := g.payoutHistory[recipient]
		g.payoutHistory[recipient] = history[:len(history)-1]
		delete(g.payouts, period)
		return err
	}

	g.emit(ctx, models.Event{
		Type:       models.EventPayoutProcessed,
		Subject:    recipient,
		Amount:     amount,
		Period:     period,
		WasSkipped: wasSkipped,
	})
	return nil
}

// EmergencyWithdraw drains the remaining pool to the creator and retires the
// group. Admin only, and only when the group was created with emergency
// withdrawal enabled.
func (g *Group) EmergencyWithdraw(ctx context.Context, caller string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if !g.admins[caller] {
		return ErrNotAdmin
	}
	if !g.rules.EmergencyWithdrawAllowed {
		return ErrEmergencyDisabled
	}

	amount := g.totalFunds
	g.totalFunds = 0
	g.retired = true

	if err := g.transferOut(ctx, g.creator, amount); err != nil {
		g.totalFunds = amount
		g.retired = false
		return err
	}

	g.emit(ctx, models.Event{Type: models.EventEmergencyWithdraw, Subject: g.creator, Amount: amount})
	return nil
}
