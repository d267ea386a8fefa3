package engine

import (
	"context"

	"github.com/mkamau/chamapool/internal/models"
)

// Contribute pays the caller's contribution for the current period. The
// amount must exactly equal the group's contribution amount, the period's
// window (plus grace) must still be open, and a period accepts at most one
// contribution per member.
//
// Before accepting the payment, any elapsed periods the caller silently
// skipped are settled: each one increments their missed count and runs the
// punishment step, so a member can be fined or banned by the very call in
// which the gap is discovered.
func (g *Group) Contribute(ctx context.Context, caller string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	now := g.clock.Now()
	if now.Before(g.rules.StartDate) {
		return ErrGroupNotStarted
	}
	if now.After(g.rules.EndDate) {
		return ErrGroupEnded
	}
	m, ok := g.members[caller]
	if !ok || !m.IsActive {
		return ErrNotMember
	}

	g.settleMissed(ctx, caller)
	if !m.IsActive {
		// The walk above just banned them.
		return ErrNotMember
	}

	period := g.periodAt(now)
	if g.contributions[period][caller] != 0 {
		return ErrAlreadyContributed
	}
	if now.After(g.deadline(period)) {
		return ErrWindowClosed
	}
	if amount != g.rules.ContributionAmount {
		return ErrWrongAmount
	}

	if err := g.treasury.Deposit(ctx, g.id, caller, g.rules.Asset, amount); err != nil {
		return err
	}

	if g.contributions[period] == nil {
		g.contributions[period] = make(map[string]int64)
	}
	g.contributions[period][caller] = now.Unix()
	m.TotalContributed += amount
	g.totalFunds += amount

	g.emit(ctx, models.Event{
		Type:    models.EventContributionMade,
		Subject: caller,
		Amount:  amount,
		Period:  period,
	})
	return nil
}

// CheckMissedContributions runs the lazy missed-period walk for one member
// without requiring them to contribute. Admin only.
func (g *Group) CheckMissedContributions(ctx context.Context, caller, user string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if !g.admins[caller] {
		return ErrNotAdmin
	}
	m, ok := g.members[user]
	if !ok {
		return ErrUnknownMember
	}
	if !m.IsActive {
		return nil
	}
	g.settleMissed(ctx, user)
	return nil
}

// settleMissed walks forward from the member's first unchecked period and
// penalizes every elapsed period with no contribution on record. The walk
// covers any number of consecutively skipped periods, not just the previous
// one, and stops at the first period whose deadline is still in the future.
func (g *Group) settleMissed(ctx context.Context, user string) {
	m := g.members[user]
	now := g.clock.Now()
	current := g.periodAt(now)

	period := g.nextCheck[user]
	for period < current && now.After(g.deadline(period)) {
		if g.contributions[period][user] == 0 {
			m.MissedContributions++
			g.emit(ctx, models.Event{
				Type:    models.EventMissedContribution,
				Subject: user,
				Period:  period,
			})
			if m.MissedContributions >= MaxMissedContributions {
				g.autoPunish(ctx, user)
			}
		}
		period++
		if !m.IsActive {
			// Banned mid-walk; later periods are no longer owed.
			break
		}
	}
	g.nextCheck[user] = period
}
