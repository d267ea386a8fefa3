// Package registry instantiates groups and enforces creation-time parameter
// bounds. The engine trusts parameters the registry has validated and never
// re-checks them.
package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkamau/chamapool/internal/engine"
	"github.com/mkamau/chamapool/internal/models"
)

// Creation bounds.
const (
	MaxNameLength       = 50
	MinContribution     = 100         // one unit of major currency
	MaxContribution     = 100_000_000 // guard against typo amounts
	MinMembers          = 2
	MaxMembersBound     = 100
	MaxGroupsPerCreator = 5
	MaxLifetime         = 365 * 24 * time.Hour
)

var (
	ErrRegistryPaused   = errors.New("registry is paused")
	ErrNotOwner         = errors.New("caller is not the registry owner")
	ErrInvalidName      = errors.New("group name must be 1-50 characters")
	ErrInvalidAmount    = errors.New("contribution amount out of bounds")
	ErrInvalidMemberCap = errors.New("max members out of bounds")
	ErrInvalidDates     = errors.New("group dates are invalid")
	ErrTooManyGroups    = errors.New("creator has too many groups")
	ErrInvalidMode      = errors.New("invalid punishment mode")
	ErrUnknownGroup     = errors.New("unknown group")
)

// Registry creates and indexes group engines.
type Registry struct {
	mu        sync.Mutex
	owner     string
	paused    bool
	clock     engine.Clock
	treasury  engine.Treasury
	recorder  engine.Recorder
	groups    map[string]*engine.Group
	byCreator map[string][]string
}

// New constructs a registry. The owner controls the global pause.
func New(owner string, clock engine.Clock, treasury engine.Treasury, recorder engine.Recorder) *Registry {
	if clock == nil {
		clock = engine.SystemClock{}
	}
	return &Registry{
		owner:     owner,
		clock:     clock,
		treasury:  treasury,
		recorder:  recorder,
		groups:    make(map[string]*engine.Group),
		byCreator: make(map[string][]string),
	}
}

// CreateGroup validates rules, fills defaults, and instantiates a group with
// the caller as creator. Returns the new group.
func (r *Registry) CreateGroup(ctx context.Context, creator string, rules models.GroupRules) (*engine.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paused {
		return nil, ErrRegistryPaused
	}
	if len(r.byCreator[creator]) >= MaxGroupsPerCreator {
		return nil, ErrTooManyGroups
	}
	if err := r.validate(rules); err != nil {
		return nil, err
	}

	if rules.FineAmount == 0 {
		rules.FineAmount = rules.ContributionAmount / 10
	}
	if rules.ContributionWindow == 0 {
		rules.ContributionWindow = engine.PeriodDuration / 2
	}
	if rules.GracePeriod == 0 {
		rules.GracePeriod = 24 * time.Hour
	}

	id := uuid.New().String()
	g := engine.New(engine.Config{
		ID:       id,
		Rules:    rules,
		Creator:  creator,
		Clock:    r.clock,
		Treasury: r.treasury,
		Recorder: r.recorder,
	})
	r.groups[id] = g
	r.byCreator[creator] = append(r.byCreator[creator], id)
	return g, nil
}

func (r *Registry) validate(rules models.GroupRules) error {
	if rules.Name == "" || len(rules.Name) > MaxNameLength {
		return ErrInvalidName
	}
	if rules.ContributionAmount < MinContribution || rules.ContributionAmount > MaxContribution {
		return ErrInvalidAmount
	}
	if rules.MaxMembers < MinMembers || rules.MaxMembers > MaxMembersBound {
		return ErrInvalidMemberCap
	}
	if !rules.PunishmentMode.Valid() {
		return ErrInvalidMode
	}
	now := r.clock.Now()
	if !rules.StartDate.After(now) {
		return ErrInvalidDates
	}
	if !rules.EndDate.After(rules.StartDate) || rules.EndDate.After(now.Add(MaxLifetime)) {
		return ErrInvalidDates
	}
	return nil
}

// Group returns a group by id.
func (r *Registry) Group(id string) (*engine.Group, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	return g, ok
}

// GroupsByCreator returns the ids of the groups a creator has made.
func (r *Registry) GroupsByCreator(creator string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.byCreator[creator]...)
}

// Pause blocks group creation globally. Owner only.
func (r *Registry) Pause(caller string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.owner {
		return ErrNotOwner
	}
	r.paused = true
	return nil
}

// Unpause re-enables group creation. Owner only.
func (r *Registry) Unpause(caller string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.owner {
		return ErrNotOwner
	}
	r.paused = false
	return nil
}
