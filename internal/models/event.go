package models

// EventType names one observable state change in a group.
type EventType string

const (
	EventMemberJoined        EventType = "member_joined"
	EventMemberLeft          EventType = "member_left"
	EventJoinRequested       EventType = "join_requested"
	EventJoinApproved        EventType = "join_approved"
	EventContributionMade    EventType = "contribution_made"
	EventMissedContribution  EventType = "missed_contribution"
	EventMemberPunished      EventType = "member_punished"
	EventPunishmentCancelled EventType = "punishment_cancelled"
	EventFineCollected       EventType = "fine_collected"
	EventPayoutProcessed     EventType = "payout_processed"
	EventEmergencyWithdraw   EventType = "emergency_withdraw"
	EventAdminAdded          EventType = "admin_added"
	EventAdminRemoved        EventType = "admin_removed"
	EventCreatorTransferred  EventType = "creator_transferred"
	EventProposalCreated     EventType = "proposal_created"
	EventProposalExecuted    EventType = "proposal_executed"
	EventGroupPaused         EventType = "group_paused"
	EventGroupUnpaused       EventType = "group_unpaused"
)

// Event is one journaled state change, consumed by external indexers.
type Event struct {
	// ID is the unique identifier for the event (UUID format). Assigned
	// by the journal, not the engine.
	ID string `json:"id"`

	// GroupID is the group the event occurred in.
	GroupID string `json:"group_id"`

	// Type names the state change.
	Type EventType `json:"type"`

	// Subject is the user identity the event is about, when applicable.
	Subject string `json:"subject"`

	// Amount carries the monetary value involved, in minor units, or 0.
	Amount int64 `json:"amount"`

	// Period is the period index the event relates to, when applicable.
	Period uint64 `json:"period"`

	// WasSkipped marks a payout event whose nominal recipient was passed
	// over.
	WasSkipped bool `json:"was_skipped"`

	// Timestamp is the Unix timestamp the event occurred.
	Timestamp int64 `json:"timestamp"`
}
