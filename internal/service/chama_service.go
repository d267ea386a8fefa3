package service

import (
	"context"
	"log/slog"

	"github.com/mkamau/chamapool/internal/engine"
	"github.com/mkamau/chamapool/internal/metrics"
	"github.com/mkamau/chamapool/internal/models"
	"github.com/mkamau/chamapool/internal/registry"
	"github.com/mkamau/chamapool/internal/storage"
)

// ChamaService fronts the registry and the group engines for the HTTP layer.
// It owns cross-cutting concerns (logging, business metrics, event listing)
// so handlers stay thin and the engine stays transport-free.
type ChamaService struct {
	registry *registry.Registry
	store    storage.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewChamaService creates a ChamaService.
func NewChamaService(reg *registry.Registry, store storage.Store, m *metrics.Metrics, logger *slog.Logger) *ChamaService {
	return &ChamaService{
		registry: reg,
		store:    store,
		metrics:  m,
		logger:   logger,
	}
}

// GroupSummary is the read model returned for a single group.
type GroupSummary struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Creator           string            `json:"creator"`
	Rules             models.GroupRules `json:"rules"`
	MemberCount       int               `json:"member_count"`
	ActiveMemberCount int               `json:"active_member_count"`
	PoolBalance       int64             `json:"pool_balance"`
	CurrentPeriod     uint64            `json:"current_period"`
	WindowOpen        bool              `json:"window_open"`
	Paused            bool              `json:"paused"`
	SkippedPayouts    uint64            `json:"skipped_payouts"`
}

// CreateGroup validates rules through the registry and instantiates a group.
func (s *ChamaService) CreateGroup(ctx context.Context, creator string, rules models.GroupRules) (*engine.Group, error) {
	g, err := s.registry.CreateGroup(ctx, creator, rules)
	if err != nil {
		s.logger.Warn("group creation rejected", "creator", creator, "error", err)
		return nil, err
	}
	s.metrics.GroupsCreatedTotal.Inc()
	s.logger.Info("group created", "group_id", g.ID(), "name", rules.Name, "creator", creator)
	return g, nil
}

// Group resolves a group id to its engine.
func (s *ChamaService) Group(id string) (*engine.Group, error) {
	g, ok := s.registry.Group(id)
	if !ok {
		return nil, registry.ErrUnknownGroup
	}
	return g, nil
}

// Summary builds the read model for one group.
func (s *ChamaService) Summary(id string) (GroupSummary, error) {
	g, err := s.Group(id)
	if err != nil {
		return GroupSummary{}, err
	}
	rules := g.Rules()
	return GroupSummary{
		ID:                g.ID(),
		Name:              rules.Name,
		Creator:           g.Creator(),
		Rules:             rules,
		MemberCount:       g.MemberCount(),
		ActiveMemberCount: g.ActiveMemberCount(),
		PoolBalance:       g.PoolBalance(),
		CurrentPeriod:     g.CurrentPeriod(),
		WindowOpen:        g.IsContributionWindowOpen(),
		Paused:            g.IsPaused(),
		SkippedPayouts:    g.SkippedPayouts(),
	}, nil
}

// Contribute pays the caller's contribution for the current period.
func (s *ChamaService) Contribute(ctx context.Context, groupID, caller string, amount int64) error {
	g, err := s.Group(groupID)
	if err != nil {
		return err
	}
	if err := g.Contribute(ctx, caller, amount); err != nil {
		s.logger.Warn("contribution rejected", "group_id", groupID, "user_id", caller, "error", err)
		return err
	}
	s.metrics.ContributionsTotal.Inc()
	s.logger.Info("contribution accepted", "group_id", groupID, "user_id", caller, "amount", amount)
	return nil
}

// PayFine settles the caller's active fine.
func (s *ChamaService) PayFine(ctx context.Context, groupID, caller string, amount int64) error {
	g, err := s.Group(groupID)
	if err != nil {
		return err
	}
	if err := g.PayFine(ctx, caller, amount); err != nil {
		s.logger.Warn("fine payment rejected", "group_id", groupID, "user_id", caller, "error", err)
		return err
	}
	s.metrics.FinesCollectedTotal.Inc()
	s.logger.Info("fine collected", "group_id", groupID, "user_id", caller, "amount", amount)
	return nil
}

// PunishMember issues an explicit punishment.
func (s *ChamaService) PunishMember(ctx context.Context, groupID, caller, user string, action models.PunishmentAction, reason string) error {
	g, err := s.Group(groupID)
	if err != nil {
		return err
	}
	if err := g.PunishMember(ctx, caller, user, action, reason); err != nil {
		return err
	}
	s.metrics.PunishmentsTotal.Inc()
	s.logger.Info("member punished", "group_id", groupID, "user_id", user, "action", action, "by", caller)
	return nil
}

// CreateProposal opens a governance proposal and returns its id.
func (s *ChamaService) CreateProposal(ctx context.Context, groupID, caller string, typ models.ProposalType, target string, value int64, description string) (uint64, error) {
	g, err := s.Group(groupID)
	if err != nil {
		return 0, err
	}
	id, err := g.CreateProposal(ctx, caller, typ, target, value, description)
	if err != nil {
		return 0, err
	}
	s.metrics.ProposalsTotal.Inc()
	s.logger.Info("proposal created", "group_id", groupID, "proposal_id", id, "type", typ, "by", caller)
	return id, nil
}

// ProcessRotationPayout settles the current period's payout.
func (s *ChamaService) ProcessRotationPayout(ctx context.Context, groupID, caller string) (models.PayoutRecord, error) {
	g, err := s.Group(groupID)
	if err != nil {
		return models.PayoutRecord{}, err
	}
	period := g.CurrentPeriod()
	if err := g.ProcessRotationPayout(ctx, caller); err != nil {
		s.logger.Warn("payout rejected", "group_id", groupID, "period", period, "error", err)
		return models.PayoutRecord{}, err
	}
	record, _ := g.PayoutInfo(period)
	s.metrics.PayoutsTotal.Inc()
	if record.WasSkipped {
		s.metrics.PayoutSkippedTotal.Inc()
	}
	s.logger.Info("payout processed",
		"group_id", groupID,
		"period", record.Period,
		"recipient", record.Recipient,
		"amount", record.Amount,
		"was_skipped", record.WasSkipped,
	)
	return record, nil
}

// Events returns a group's journal for external indexers.
func (s *ChamaService) Events(ctx context.Context, groupID string, limit int) ([]models.Event, error) {
	if _, err := s.Group(groupID); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, groupID, limit)
}

// Registry exposes the registry for owner-level controls.
func (s *ChamaService) Registry() *registry.Registry {
	return s.registry
}
