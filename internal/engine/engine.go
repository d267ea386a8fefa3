// Package engine implements the chama group state machine.
//
// One Group value is one rotating-savings group: members, contributions,
// punishments, proposals and the payout rotation all live in a single
// consistency domain guarded by one mutex. Every exported method is an atomic
// operation: it either fully applies or returns an error leaving prior state
// untouched. There is no background processing; missed contributions are
// detected lazily when a member next contributes or an admin asks for a check.
//
// The engine does not move money itself. All custody changes go through the
// injected Treasury, and outbound transfers are issued only after the
// operation's bookkeeping is final, with explicit compensation if the
// transfer fails.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/mkamau/chamapool/internal/models"
)

const (
	// PeriodDuration is the length of one accounting period.
	PeriodDuration = 7 * 24 * time.Hour

	// ProposalDuration is how long voting stays open on a proposal.
	ProposalDuration = 3 * 24 * time.Hour

	// QuorumPercent is the minimum share of active members whose votes
	// must be cast before a proposal can execute.
	QuorumPercent = 50

	// MaxMissedContributions is the missed-period count at which
	// automatic punishment kicks in.
	MaxMissedContributions = 3

	// FineEscalationThreshold is the consecutive-fine count at which a
	// fine-mode group escalates to a ban.
	FineEscalationThreshold = 3
)

// Clock supplies the current wall-clock time for all period calculations.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Treasury is the value-transfer primitive the engine delegates custody
// changes to. Both calls are atomic: they fully succeed or return an error
// having moved nothing.
type Treasury interface {
	// Deposit pulls amount of asset from the payer into group custody.
	Deposit(ctx context.Context, groupID, from, asset string, amount int64) error

	// Withdraw pushes amount of asset from group custody to the recipient.
	Withdraw(ctx context.Context, groupID, to, asset string, amount int64) error
}

// Recorder receives every observable event the engine emits. Implementations
// must not call back into the engine.
type Recorder interface {
	Record(ctx context.Context, event models.Event)
}

// nopRecorder discards events.
type nopRecorder struct{}

func (nopRecorder) Record(context.Context, models.Event) {}

// Config collects everything needed to construct a Group. The registry
// validates Rules before construction; the engine trusts them as-is.
type Config struct {
	ID       string
	Rules    models.GroupRules
	Creator  string
	Clock    Clock
	Treasury Treasury
	Recorder Recorder
}

// Group is one chama instance. All fields are private: the only way to read
// or mutate group state is through the exported operations, each of which
// takes the group mutex for its full duration.
type Group struct {
	mu sync.Mutex

	id       string
	rules    models.GroupRules
	clock    Clock
	treasury Treasury
	recorder Recorder

	creator string
	admins  map[string]bool
	paused  bool
	retired bool

	members           map[string]*models.Member
	memberCount       int
	activeMemberCount int
	joinRequests      map[string]bool

	// contributions maps period -> member -> contribution Unix timestamp.
	// A missing entry means not contributed; entries are written once.
	contributions map[uint64]map[string]int64

	// nextCheck maps member -> first period not yet inspected for a
	// missed contribution. Members are only accountable for periods from
	// their admission onward.
	nextCheck map[string]uint64

	punishments map[string]*models.Punishment

	proposals      map[uint64]*models.Proposal
	nextProposalID uint64
	voted          map[uint64]map[string]bool

	payoutQueue    []string
	queueSet       bool
	payouts        map[uint64]*models.PayoutRecord
	payoutHistory  map[string][]models.PayoutRecord
	skippedPayouts uint64

	totalFunds   int64
	transferring bool
}

// New constructs a Group from cfg. The creator starts as the only admin but
// is not automatically a member; they join like anyone else.
func New(cfg Config) *Group {
	g := &Group{
		id:            cfg.ID,
		rules:         cfg.Rules,
		clock:         cfg.Clock,
		treasury:      cfg.Treasury,
		recorder:      cfg.Recorder,
		creator:       cfg.Creator,
		admins:        map[string]bool{cfg.Creator: true},
		members:       make(map[string]*models.Member),
		joinRequests:  make(map[string]bool),
		contributions: make(map[uint64]map[string]int64),
		nextCheck:     make(map[string]uint64),
		punishments:   make(map[string]*models.Punishment),
		proposals:     make(map[uint64]*models.Proposal),
		voted:         make(map[uint64]map[string]bool),
		payouts:       make(map[uint64]*models.PayoutRecord),
		payoutHistory: make(map[string][]models.PayoutRecord),
	}
	if g.clock == nil {
		g.clock = SystemClock{}
	}
	if g.recorder == nil {
		g.recorder = nopRecorder{}
	}
	return g
}

// ID returns the group's identifier.
func (g *Group) ID() string { return g.id }

// Rules returns the immutable construction parameters.
func (g *Group) Rules() models.GroupRules { return g.rules }

// periodAt converts a point in time to a period index, clamped to 0 before
// the group's start date.
func (g *Group) periodAt(now time.Time) uint64 {
	if !now.After(g.rules.StartDate) {
		return 0
	}
	return uint64(now.Sub(g.rules.StartDate) / PeriodDuration)
}

// periodStart is the instant period p begins.
func (g *Group) periodStart(p uint64) time.Time {
	return g.rules.StartDate.Add(time.Duration(p) * PeriodDuration)
}

// deadline is the last instant a contribution for period p is accepted.
func (g *Group) deadline(p uint64) time.Time {
	return g.periodStart(p).Add(g.rules.ContributionWindow + g.rules.GracePeriod)
}

// withinDates reports whether now falls inside [StartDate, EndDate].
func (g *Group) withinDates(now time.Time) bool {
	return !now.Before(g.rules.StartDate) && !now.After(g.rules.EndDate)
}

// guardMutable rejects all mutating entry points while the group is paused
// or retired by an emergency withdrawal.
func (g *Group) guardMutable() error {
	if g.retired {
		return ErrGroupNotActive
	}
	if g.paused {
		return ErrGroupPaused
	}
	return nil
}

// isEligible reports whether a member may receive a payout: active and with
// no punishment currently in force.
func (g *Group) isEligible(id string) bool {
	m, ok := g.members[id]
	if !ok || !m.IsActive {
		return false
	}
	if p, ok := g.punishments[id]; ok && p.IsActive {
		return false
	}
	return true
}

// hasActivePunishment reports whether id has a punishment in force.
func (g *Group) hasActivePunishment(id string) bool {
	p, ok := g.punishments[id]
	return ok && p.IsActive
}

// deactivate flips an active member to inactive and maintains the count.
func (g *Group) deactivate(m *models.Member) {
	if m.IsActive {
		m.IsActive = false
		g.activeMemberCount--
	}
}

// reactivate flips an inactive member back and maintains the count.
func (g *Group) reactivate(m *models.Member) {
	if !m.IsActive {
		m.IsActive = true
		g.activeMemberCount++
	}
}

// transferOut issues an outbound transfer from group custody. It must be the
// last step of any operation: all bookkeeping is committed before the call,
// and the guard rejects any attempt to re-enter the engine mid-transfer.
func (g *Group) transferOut(ctx context.Context, to string, amount int64) error {
	if g.transferring {
		return ErrReentrantTransfer
	}
	if amount == 0 {
		return nil
	}
	g.transferring = true
	defer func() { g.transferring = false }()
	return g.treasury.Withdraw(ctx, g.id, to, g.rules.Asset, amount)
}

// emit journals an observable event, stamping group and time.
func (g *Group) emit(ctx context.Context, event models.Event) {
	event.GroupID = g.id
	event.Timestamp = g.clock.Now().Unix()
	g.recorder.Record(ctx, event)
}
