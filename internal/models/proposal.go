package models

// ProposalType selects the action a governance proposal executes.
type ProposalType string

const (
	// ProposalCancelPunishment clears the target's active punishment.
	ProposalCancelPunishment ProposalType = "cancel_punishment"

	// ProposalAddAdmin grants the target admin rights.
	ProposalAddAdmin ProposalType = "add_admin"

	// ProposalRemoveAdmin revokes the target's admin rights. Always
	// rejected when the target is the group creator.
	ProposalRemoveAdmin ProposalType = "remove_admin"

	// ProposalKickMember deactivates the target member.
	ProposalKickMember ProposalType = "kick_member"
)

// Valid reports whether t is one of the defined proposal types.
func (t ProposalType) Valid() bool {
	switch t {
	case ProposalCancelPunishment, ProposalAddAdmin, ProposalRemoveAdmin, ProposalKickMember:
		return true
	}
	return false
}

// Proposal is a governance proposal raised by an active member. Proposals are
// never deleted; Executed marks them permanently settled.
type Proposal struct {
	// ID is a 1-based counter unique within the group.
	ID uint64 `json:"id"`

	// Type selects the action taken on successful execution.
	Type ProposalType `json:"type"`

	// Target is the user identity the action applies to.
	Target string `json:"target"`

	// Value carries an optional numeric argument for the action.
	Value int64 `json:"value"`

	// Description is free text shown to voters.
	Description string `json:"description"`

	// VotesFor and VotesAgainst tally the ballots cast so far.
	VotesFor     int `json:"votes_for"`
	VotesAgainst int `json:"votes_against"`

	// CreatedAt is the Unix timestamp of creation. Voting stays open for
	// the engine's proposal duration from this instant.
	CreatedAt int64 `json:"created_at"`

	// Executed reports whether the proposal has been settled. Execution
	// happens at most once.
	Executed bool `json:"executed"`
}
