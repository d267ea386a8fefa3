package engine

import "errors"

// Engine errors. Every operation fails with one of these (possibly wrapped
// with context); none of them leaves the group in an invalid state.
var (
	// Authorization.
	ErrNotAdmin   = errors.New("caller is not an admin")
	ErrNotCreator = errors.New("caller is not the group creator")
	ErrNotMember  = errors.New("caller is not an active member")

	// Preconditions.
	ErrGroupNotActive     = errors.New("group is not active")
	ErrGroupPaused        = errors.New("group is paused")
	ErrGroupNotStarted    = errors.New("group has not started")
	ErrGroupEnded         = errors.New("group has ended")
	ErrWindowClosed       = errors.New("contribution window is closed")
	ErrAlreadyContributed = errors.New("already contributed this period")
	ErrAlreadyMember      = errors.New("already a member")
	ErrAlreadyRequested   = errors.New("join request already pending")
	ErrNoJoinRequest      = errors.New("no pending join request")
	ErrActivePunishment   = errors.New("member has an active punishment")
	ErrNoActivePunishment = errors.New("member has no active punishment")
	ErrVotingClosed       = errors.New("voting window has closed")
	ErrVotingOpen         = errors.New("voting window is still open")
	ErrAlreadyVoted       = errors.New("already voted on this proposal")
	ErrEmergencyDisabled  = errors.New("emergency withdrawal not allowed")

	// Value mismatch.
	ErrWrongAmount = errors.New("payment amount does not match required amount")

	// Capacity.
	ErrGroupFull       = errors.New("group is full")
	ErrQueueNotSet     = errors.New("payout queue has not been set")
	ErrQueueAlreadySet = errors.New("payout queue already set")
	ErrQueueSize       = errors.New("payout queue length must equal member count")

	// Integrity.
	ErrUnknownMember        = errors.New("unknown member")
	ErrUnknownProposal      = errors.New("unknown proposal")
	ErrInvalidProposalType  = errors.New("invalid proposal type")
	ErrInvalidPunishment    = errors.New("invalid punishment action")
	ErrInvalidTarget        = errors.New("invalid target")
	ErrAlreadyExecuted      = errors.New("proposal already executed")
	ErrInsufficientVotes    = errors.New("insufficient participation")
	ErrProposalRejected     = errors.New("proposal rejected")
	ErrCannotRemoveCreator  = errors.New("creator cannot be removed as admin")
	ErrPeriodAlreadyPaid    = errors.New("period already has a payout")
	ErrMemberNotContributed = errors.New("member has not contributed yet")
	ErrNoEligibleRecipient  = errors.New("no eligible recipients")
	ErrReentrantTransfer    = errors.New("reentrant transfer blocked")
)
