package engine

import "github.com/mkamau/chamapool/internal/models"

// Read-only queries. Each takes the group mutex so readers never observe a
// half-applied operation, and each returns copies so callers cannot mutate
// engine-owned state.

// CurrentPeriod returns the zero-based period index for the current time.
func (g *Group) CurrentPeriod() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.periodAt(g.clock.Now())
}

// NextUnpaidPeriod returns the first period with no payout on record. That
// is the current period, or the one after it when the current period's
// payout has already been processed.
func (g *Group) NextUnpaidPeriod() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.periodAt(g.clock.Now())
	if _, ok := g.payouts[p]; ok {
		p++
	}
	return p
}

// ContributionAt returns the Unix timestamp of the member's contribution in
// the given period, or 0 if they have not contributed.
func (g *Group) ContributionAt(member string, period uint64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.contributions[period][member]
}

// MemberDetails returns the member's record.
func (g *Group) MemberDetails(member string) (models.Member, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.members[member]
	if !ok {
		return models.Member{}, false
	}
	return *m, true
}

// PunishmentDetails returns the member's punishment record, live or spent.
func (g *Group) PunishmentDetails(member string) (models.Punishment, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.punishments[member]
	if !ok {
		return models.Punishment{}, false
	}
	return *p, true
}

// ProposalDetails returns the proposal with the given id.
func (g *Group) ProposalDetails(id uint64) (models.Proposal, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.proposals[id]
	if !ok {
		return models.Proposal{}, false
	}
	return *p, true
}

// HasVoted reports whether the member has cast a ballot on the proposal.
func (g *Group) HasVoted(id uint64, member string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.voted[id][member]
}

// PayoutInfo returns the payout record for a period, if the period is paid.
func (g *Group) PayoutInfo(period uint64) (models.PayoutRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.payouts[period]
	if !ok {
		return models.PayoutRecord{}, false
	}
	return *p, true
}

// PayoutHistory returns every payout the member has received.
func (g *Group) PayoutHistory(member string) []models.PayoutRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.PayoutRecord(nil), g.payoutHistory[member]...)
}

// SkippedPayouts returns the monotonic rotation-shift counter.
func (g *Group) SkippedPayouts() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.skippedPayouts
}

// MemberCount returns how many members have ever joined.
func (g *Group) MemberCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.memberCount
}

// ActiveMemberCount returns how many members may currently act.
func (g *Group) ActiveMemberCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.activeMemberCount
}

// PoolBalance returns the group's custody balance in minor units.
func (g *Group) PoolBalance() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.totalFunds
}

// IsContributionWindowOpen reports whether a contribution for the current
// period would be accepted right now, window and grace included.
func (g *Group) IsContributionWindowOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.clock.Now()
	if !g.withinDates(now) {
		return false
	}
	return !now.After(g.deadline(g.periodAt(now)))
}

// PayoutQueue returns the rotation order, or nil if not yet set.
func (g *Group) PayoutQueue() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.payoutQueue...)
}

// IsEligibleForPayout reports whether the member could receive a payout
// right now: active with no punishment in force.
func (g *Group) IsEligibleForPayout(member string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isEligible(member)
}

// IsAdmin reports whether the user holds admin rights.
func (g *Group) IsAdmin(user string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.admins[user]
}

// Creator returns the current creator identity.
func (g *Group) Creator() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.creator
}

// IsPaused reports whether mutating entry points are currently blocked.
func (g *Group) IsPaused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}
