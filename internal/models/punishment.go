package models

// PunishmentAction is the severity of a disciplinary record.
type PunishmentAction string

const (
	PunishmentNone    PunishmentAction = "none"
	PunishmentWarning PunishmentAction = "warning"
	PunishmentFine    PunishmentAction = "fine"
	PunishmentBan     PunishmentAction = "ban"
)

// Punishment is the live disciplinary record for one member. A member has at
// most one: issuing a new punishment overwrites the previous record.
type Punishment struct {
	// Action is the severity applied. A member with an active Fine is not
	// payout-eligible until the fine is paid or cancelled.
	Action PunishmentAction `json:"action"`

	// Reason is free text explaining the punishment.
	Reason string `json:"reason"`

	// IsActive reports whether the punishment is still in force.
	IsActive bool `json:"is_active"`

	// IssuedAt is the Unix timestamp the punishment was issued.
	IssuedAt int64 `json:"issued_at"`

	// FineAmount is the amount, in minor units, owed when Action is Fine.
	FineAmount int64 `json:"fine_amount"`
}
