package engine

import (
	"context"

	"github.com/mkamau/chamapool/internal/models"
)

// Join admits the caller, or records a pending join request when the group
// requires admin approval. A caller with an active punishment from a prior
// stint cannot rejoin until it is cleared.
func (g *Group) Join(ctx context.Context, caller string) error {
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
	if m, ok := g.members[caller]; ok && m.IsActive {
		return ErrAlreadyMember
	}
	if g.hasActivePunishment(caller) {
		return ErrActivePunishment
	}
	if g.memberCount >= g.rules.MaxMembers {
		return ErrGroupFull
	}

	if g.rules.ApprovalRequired {
		if g.joinRequests[caller] {
			return ErrAlreadyRequested
		}
		g.joinRequests[caller] = true
		g.emit(ctx, models.Event{Type: models.EventJoinRequested, Subject: caller})
		return nil
	}

	g.admit(ctx, caller, now.Unix())
	return nil
}

// ApproveJoin admits a user with a pending join request. Admin only.
func (g *Group) ApproveJoin(ctx context.Context, caller, user string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if !g.admins[caller] {
		return ErrNotAdmin
	}
	if !g.joinRequests[user] {
		return ErrNoJoinRequest
	}
	if g.memberCount >= g.rules.MaxMembers {
		return ErrGroupFull
	}

	delete(g.joinRequests, user)
	g.admit(ctx, user, g.clock.Now().Unix())
	g.emit(ctx, models.Event{Type: models.EventJoinApproved, Subject: user})
	return nil
}

// admit creates or revives the member record. Rejoining members keep their
// historical record but restart with zeroed counters.
func (g *Group) admit(ctx context.Context, user string, joinedAt int64) {
	m, ok := g.members[user]
	if !ok {
		m = &models.Member{ID: user}
		g.members[user] = m
		g.memberCount++
	}
	m.IsActive = true
	m.JoinedAt = joinedAt
	m.MissedContributions = 0
	m.ConsecutiveFines = 0
	g.activeMemberCount++
	// Accountability for contributions starts at the period of admission.
	g.nextCheck[user] = g.periodAt(g.clock.Now())
	g.emit(ctx, models.Event{Type: models.EventMemberJoined, Subject: user})
}

// Leave removes the caller from active membership and refunds them. A member
// who has ever received a payout gets nothing back; otherwise the refund is
// their total contributions less accrued fine liability, floored at zero.
//
// The member is deactivated before the refund transfer is issued, so a
// re-entrant call observes the caller as already gone.
func (g *Group) Leave(ctx context.Context, caller string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	m, ok := g.members[caller]
	if !ok || !m.IsActive {
		return ErrNotMember
	}
	if g.hasActivePunishment(caller) {
		return ErrActivePunishment
	}

	var refund int64
	if len(g.payoutHistory[caller]) == 0 {
		refund = m.TotalContributed - int64(m.MissedContributions)*g.rules.FineAmount
		if refund < 0 {
			refund = 0
		}
	}

	g.deactivate(m)
	g.totalFunds -= refund

	if err := g.transferOut(ctx, caller, refund); err != nil {
		g.totalFunds += refund
		g.reactivate(m)
		return err
	}

	g.emit(ctx, models.Event{Type: models.EventMemberLeft, Subject: caller, Amount: refund})
	return nil
}

// AddAdmin grants user admin rights. Creator only.
func (g *Group) AddAdmin(ctx context.Context, caller, user string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if caller != g.creator {
		return ErrNotCreator
	}
	if user == "" {
		return ErrInvalidTarget
	}
	g.admins[user] = true
	g.emit(ctx, models.Event{Type: models.EventAdminAdded, Subject: user})
	return nil
}

// RemoveAdmin revokes user's admin rights. Creator only; the creator's own
// admin rights can never be revoked.
func (g *Group) RemoveAdmin(ctx context.Context, caller, user string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if caller != g.creator {
		return ErrNotCreator
	}
	if user == g.creator {
		return ErrCannotRemoveCreator
	}
	delete(g.admins, user)
	g.emit(ctx, models.Event{Type: models.EventAdminRemoved, Subject: user})
	return nil
}

// TransferCreator reassigns the creator role. The new creator gains admin
// rights; the old creator keeps theirs.
func (g *Group) TransferCreator(ctx context.Context, caller, newCreator string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if caller != g.creator {
		return ErrNotCreator
	}
	if newCreator == "" || newCreator == g.creator {
		return ErrInvalidTarget
	}
	g.creator = newCreator
	g.admins[newCreator] = true
	g.emit(ctx, models.Event{Type: models.EventCreatorTransferred, Subject: newCreator})
	return nil
}

// Pause blocks all mutating entry points. Admin only.
func (g *Group) Pause(ctx context.Context, caller string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.admins[caller] {
		return ErrNotAdmin
	}
	if g.retired {
		return ErrGroupNotActive
	}
	g.paused = true
	g.emit(ctx, models.Event{Type: models.EventGroupPaused, Subject: caller})
	return nil
}

// Unpause re-enables mutating entry points. Admin only.
func (g *Group) Unpause(ctx context.Context, caller string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.admins[caller] {
		return ErrNotAdmin
	}
	if g.retired {
		return ErrGroupNotActive
	}
	g.paused = false
	g.emit(ctx, models.Event{Type: models.EventGroupUnpaused, Subject: caller})
	return nil
}
