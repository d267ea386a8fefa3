package engine

import (
	"context"
	"time"

	"github.com/mkamau/chamapool/internal/models"
)

// CreateProposal opens a governance proposal. Any active member may propose.
// Voting stays open for ProposalDuration from creation. Returns the new
// proposal's id.
func (g *Group) CreateProposal(ctx context.Context, caller string, typ models.ProposalType, target string, value int64, description string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return 0, err
	}
	m, ok := g.members[caller]
	if !ok || !m.IsActive {
		return 0, ErrNotMember
	}
	if !typ.Valid() {
		return 0, ErrInvalidProposalType
	}
	if target == "" {
		return 0, ErrInvalidTarget
	}
	// Punishment and kick proposals only make sense against a member;
	// admin roles can be held by non-members, so those targets are free.
	if typ == models.ProposalCancelPunishment || typ == models.ProposalKickMember {
		if _, ok := g.members[target]; !ok {
			return 0, ErrInvalidTarget
		}
	}

	g.nextProposalID++
	id := g.nextProposalID
	g.proposals[id] = &models.Proposal{
		ID:          id,
		Type:        typ,
		Target:      target,
		Value:       value,
		Description: description,
		CreatedAt:   g.clock.Now().Unix(),
	}
	g.voted[id] = make(map[string]bool)

	g.emit(ctx, models.Event{Type: models.EventProposalCreated, Subject: caller, Period: id})
	return id, nil
}

// VoteOnProposal casts the caller's ballot. One vote per member per proposal,
// only while the voting window is open and the proposal unexecuted.
func (g *Group) VoteOnProposal(ctx context.Context, caller string, id uint64, support bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	m, ok := g.members[caller]
	if !ok || !m.IsActive {
		return ErrNotMember
	}
	p, ok := g.proposals[id]
	if !ok {
		return ErrUnknownProposal
	}
	if p.Executed {
		return ErrAlreadyExecuted
	}
	if g.clock.Now().After(votingDeadline(p)) {
		return ErrVotingClosed
	}
	if g.voted[id][caller] {
		return ErrAlreadyVoted
	}

	g.voted[id][caller] = true
	if support {
		p.VotesFor++
	} else {
		p.VotesAgainst++
	}
	return nil
}

// ExecuteProposal settles a proposal after its voting window closes. Admin
// only. Execution needs quorum (a ceiling so small groups can never pass with
// zero votes) and a strict majority in favor, and happens at most once.
func (g *Group) ExecuteProposal(ctx context.Context, caller string, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardMutable(); err != nil {
		return err
	}
	if !g.admins[caller] {
		return ErrNotAdmin
	}
	p, ok := g.proposals[id]
	if !ok {
		return ErrUnknownProposal
	}
	if p.Executed {
		return ErrAlreadyExecuted
	}
	if !g.clock.Now().After(votingDeadline(p)) {
		return ErrVotingOpen
	}

	required := (g.activeMemberCount*QuorumPercent + 99) / 100
	if p.VotesFor+p.VotesAgainst < required {
		return ErrInsufficientVotes
	}
	if p.VotesFor <= p.VotesAgainst {
		return ErrProposalRejected
	}

	if err := g.applyProposal(ctx, p); err != nil {
		return err
	}
	p.Executed = true

	g.emit(ctx, models.Event{Type: models.EventProposalExecuted, Subject: p.Target, Period: id})
	return nil
}

// applyProposal dispatches on the proposal type. A failure here leaves the
// proposal unexecuted.
func (g *Group) applyProposal(ctx context.Context, p *models.Proposal) error {
	switch p.Type {
	case models.ProposalCancelPunishment:
		return g.cancelPunishment(ctx, p.Target)

	case models.ProposalAddAdmin:
		g.admins[p.Target] = true
		g.emit(ctx, models.Event{Type: models.EventAdminAdded, Subject: p.Target})
		return nil

	case models.ProposalRemoveAdmin:
		if p.Target == g.creator {
			return ErrCannotRemoveCreator
		}
		delete(g.admins, p.Target)
		g.emit(ctx, models.Event{Type: models.EventAdminRemoved, Subject: p.Target})
		return nil

	case models.ProposalKickMember:
		m, ok := g.members[p.Target]
		if !ok {
			return ErrUnknownMember
		}
		g.deactivate(m)
		g.emit(ctx, models.Event{Type: models.EventMemberLeft, Subject: p.Target})
		return nil
	}
	return ErrInvalidProposalType
}

func votingDeadline(p *models.Proposal) time.Time {
	return time.Unix(p.CreatedAt, 0).Add(ProposalDuration)
}
