package models

import "time"

// PunishmentMode selects how a group disciplines missed contributions.
type PunishmentMode string

const (
	// PunishmentModeNone disables automatic punishment entirely.
	PunishmentModeNone PunishmentMode = "none"

	// PunishmentModeWarning records a warning without financial consequence.
	PunishmentModeWarning PunishmentMode = "warning"

	// PunishmentModeFine charges the group fine amount. Three consecutive
	// fines escalate to a ban regardless of the configured mode.
	PunishmentModeFine PunishmentMode = "fine"

	// PunishmentModeBan deactivates the member immediately.
	PunishmentModeBan PunishmentMode = "ban"
)

// Valid reports whether m is one of the defined punishment modes.
func (m PunishmentMode) Valid() bool {
	switch m {
	case PunishmentModeNone, PunishmentModeWarning, PunishmentModeFine, PunishmentModeBan:
		return true
	}
	return false
}

// GroupRules holds the immutable parameters a group is constructed with.
// The registry validates these bounds at creation time; the engine trusts
// them and never revalidates.
type GroupRules struct {
	// Name is the display name of the group (1-50 characters).
	Name string `json:"name"`

	// ContributionAmount is the exact amount, in minor units, each member
	// must pay into the pool every period.
	ContributionAmount int64 `json:"contribution_amount"`

	// ContributionFrequency is a human-readable label (e.g. "weekly").
	// It does not drive period math; PeriodDuration in the engine does.
	ContributionFrequency string `json:"contribution_frequency"`

	// MaxMembers caps how many members may ever join.
	MaxMembers int `json:"max_members"`

	// StartDate is when period 0 begins.
	StartDate time.Time `json:"start_date"`

	// EndDate is when the group stops accepting activity. Always after
	// StartDate; the registry enforces EndDate <= StartDate + 1 year.
	EndDate time.Time `json:"end_date"`

	// PunishmentMode selects the automatic discipline applied when a
	// member exceeds the missed-contribution threshold.
	PunishmentMode PunishmentMode `json:"punishment_mode"`

	// ApprovalRequired gates joining behind an admin approval step.
	ApprovalRequired bool `json:"approval_required"`

	// EmergencyWithdrawAllowed permits an admin to drain the pool to the
	// creator and retire the group.
	EmergencyWithdrawAllowed bool `json:"emergency_withdraw_allowed"`

	// FineAmount is the charge, in minor units, for a Fine punishment.
	// The registry defaults it to ContributionAmount/10 when unset.
	FineAmount int64 `json:"fine_amount"`

	// Asset identifies the token the group is denominated in. Empty means
	// the native asset. A group uses exactly one asset for its lifetime.
	Asset string `json:"asset"`

	// ContributionWindow is the sub-interval after each period start
	// during which contributions are accepted.
	ContributionWindow time.Duration `json:"contribution_window"`

	// GracePeriod extends the contribution window.
	GracePeriod time.Duration `json:"grace_period"`
}
