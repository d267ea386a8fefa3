package engine

import (
	"context"

	"github.com/mkamau/chamapool/internal/models"
)

// autoPunish applies the group's configured punishment mode to a member who
// crossed the missed-contribution threshold. Under fine mode the member's
// consecutive-fine counter climbs with each trigger, and hitting the
// escalation threshold turns the applied action into a ban regardless of the
// configured mode. Any non-fine action resets the counter.
func (g *Group) autoPunish(ctx context.Context, user string) {
	m := g.members[user]

	switch g.rules.PunishmentMode {
	case models.PunishmentModeNone:
		return
	case models.PunishmentModeWarning:
		m.ConsecutiveFines = 0
		g.issue(ctx, user, models.PunishmentWarning, "missed contributions", 0)
	case models.PunishmentModeFine:
		m.ConsecutiveFines++
		if m.ConsecutiveFines >= FineEscalationThreshold {
			g.issue(ctx, user, models.PunishmentBan, "repeated fines escalated to ban", 0)
			g.deactivate(m)
			return
		}
		g.issue(ctx, user, models.PunishmentFine, "missed contributions", g.rules.FineAmount)
	case models.PunishmentModeBan:
		m.ConsecutiveFines = 0
		g.issue(ctx, user, models.PunishmentBan, "missed contributions", 0)
		g.deactivate(m)
	}
}

// issue overwrites the member's punishment record and journals it.
func (g *Group) issue(ctx context.Context, user string, action models.PunishmentAction, reason string, fine int64) {
	g.punishments[user] = &models.Punishment{
		Action:     action,
		Reason:     reason,
		IsActive:   true,
		IssuedAt:   g.clock.Now().Unix(),
		FineAmount: fine,
	}
	g.emit(ctx, models.Event{Type: models.EventMemberPunished, Subject: user, Amount: fine})
}

// PunishMember issues an explicit punishment, overwriting any existing record
// for the member. A ban deactivates them immediately. Admin only.
func (g *Group) PunishMember(ctx context.Context, caller, user string, action models.PunishmentAction, reason string) error {
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

	switch action {
	case models.PunishmentWarning:
		m.ConsecutiveFines = 0
		g.issue(ctx, user, action, reason, 0)
	case models.PunishmentFine:
		g.issue(ctx, user, action, reason, g.rules.FineAmount)
	case models.PunishmentBan:
		m.ConsecutiveFines = 0
		g.issue(ctx, user, action, reason, 0)
		g.deactivate(m)
	default:
		return ErrInvalidPunishment
	}
	return nil
}

// PayFine settles the caller's active fine. The payment must exactly equal
// the fine amount; on success the punishment clears, the consecutive-fine
// counter resets, and the fine feeds the group pool.
func (g *Group) PayFine(ctx context.Context, caller string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	m, ok := g.members[caller]
	if !ok {
		return ErrUnknownMember
	}
	p, ok := g.punishments[caller]
	if !ok || !p.IsActive || p.Action != models.PunishmentFine {
		return ErrNoActivePunishment
	}
	if amount != p.FineAmount {
		return ErrWrongAmount
	}

	if err := g.treasury.Deposit(ctx, g.id, caller, g.rules.Asset, amount); err != nil {
		return err
	}

	p.IsActive = false
	m.ConsecutiveFines = 0
	g.totalFunds += amount

	g.emit(ctx, models.Event{Type: models.EventFineCollected, Subject: caller, Amount: amount})
	return nil
}

// CancelPunishment lifts the member's active punishment. Reversing a ban
// reactivates the member and wipes their missed and fine counters. Admin
// only; governance reaches the same path through proposal execution.
func (g *Group) CancelPunishment(ctx context.Context, caller, user string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if !g.admins[caller] {
		return ErrNotAdmin
	}
	return g.cancelPunishment(ctx, user)
}

func (g *Group) cancelPunishment(ctx context.Context, user string) error {
	m, ok := g.members[user]
	if !ok {
		return ErrUnknownMember
	}
	p, ok := g.punishments[user]
	if !ok || !p.IsActive {
		return ErrNoActivePunishment
	}

	p.IsActive = false
	if p.Action == models.PunishmentBan {
		g.reactivate(m)
		m.MissedContributions = 0
		m.ConsecutiveFines = 0
		// Periods served under the ban are not owed retroactively.
		g.nextCheck[user] = g.periodAt(g.clock.Now())
	}

	g.emit(ctx, models.Event{Type: models.EventPunishmentCancelled, Subject: user})
	return nil
}
