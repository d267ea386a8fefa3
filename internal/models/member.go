package models

// Member is one participant's record inside a single group.
//
// Members are never physically deleted: once a user has joined, the record
// survives bans, kicks and voluntary exits so the group's history stays
// complete. IsActive is the only lifecycle flag.
type Member struct {
	// ID is the user identity this record belongs to.
	ID string `json:"id"`

	// IsActive reports whether the member may currently act and receive
	// payouts. Flips to false on ban, kick or leave; a reversed ban
	// flips it back.
	IsActive bool `json:"is_active"`

	// JoinedAt is the Unix timestamp of admission.
	JoinedAt int64 `json:"joined_at"`

	// TotalContributed is the cumulative amount, in minor units, the
	// member has paid into the pool.
	TotalContributed int64 `json:"total_contributed"`

	// MissedContributions counts periods the member failed to pay into.
	MissedContributions int `json:"missed_contributions"`

	// ConsecutiveFines counts back-to-back Fine punishments. Reaching the
	// escalation threshold converts the next fine into a ban.
	ConsecutiveFines int `json:"consecutive_fines"`
}
