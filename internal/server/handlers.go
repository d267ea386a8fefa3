package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mkamau/chamapool/internal/calculator"
	"github.com/mkamau/chamapool/internal/engine"
	"github.com/mkamau/chamapool/internal/middleware"
	"github.com/mkamau/chamapool/internal/models"
	"github.com/mkamau/chamapool/internal/service"
)

// Handlers exposes HTTP handlers for the REST API.
type Handlers struct {
	chama *service.ChamaService
	auth  *service.AuthService
}

// NewHandlers constructs a Handlers instance.
func NewHandlers(chama *service.ChamaService, authSvc *service.AuthService) *Handlers {
	return &Handlers{chama: chama, auth: authSvc}
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Group lifecycle ---

type createGroupRequest struct {
	Name                     string `json:"name"`
	ContributionAmount       int64  `json:"contribution_amount"`
	ContributionFrequency    string `json:"contribution_frequency"`
	MaxMembers               int    `json:"max_members"`
	StartDate                int64  `json:"start_date"`
	EndDate                  int64  `json:"end_date"`
	PunishmentMode           string `json:"punishment_mode"`
	ApprovalRequired         bool   `json:"approval_required"`
	EmergencyWithdrawAllowed bool   `json:"emergency_withdraw_allowed"`
	FineAmount               int64  `json:"fine_amount"`
	Asset                    string `json:"asset"`
	ContributionWindowSecs   int64  `json:"contribution_window_secs"`
	GracePeriodSecs          int64  `json:"grace_period_secs"`
}

func (h *Handlers) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rules := models.GroupRules{
		Name:                     req.Name,
		ContributionAmount:       req.ContributionAmount,
		ContributionFrequency:    req.ContributionFrequency,
		MaxMembers:               req.MaxMembers,
		StartDate:                time.Unix(req.StartDate, 0),
		EndDate:                  time.Unix(req.EndDate, 0),
		PunishmentMode:           models.PunishmentMode(req.PunishmentMode),
		ApprovalRequired:         req.ApprovalRequired,
		EmergencyWithdrawAllowed: req.EmergencyWithdrawAllowed,
		FineAmount:               req.FineAmount,
		Asset:                    req.Asset,
		ContributionWindow:       time.Duration(req.ContributionWindowSecs) * time.Second,
		GracePeriod:              time.Duration(req.GracePeriodSecs) * time.Second,
	}

	g, err := h.chama.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), rules)
	if err != nil {
		fail(w, err)
		return
	}
	summary, err := h.chama.Summary(g.ID())
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, summary)
}

func (h *Handlers) handleGroupSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.chama.Summary(r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handlers) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	events, err := h.chama.Events(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		fail(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handlers) handleSchedule(w http.ResponseWriter, r *http.Request) {
	g, err := h.chama.Group(r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	n := 8
	if raw := r.URL.Query().Get("periods"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 64 {
			writeError(w, http.StatusBadRequest, "invalid periods")
			return
		}
		n = parsed
	}
	turns := calculator.UpcomingRecipients(
		g.PayoutQueue(),
		g.SkippedPayouts(),
		g.NextUnpaidPeriod(),
		n,
		g.IsEligibleForPayout,
	)
	if turns == nil {
		turns = []calculator.Turn{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"schedule": turns})
}

// --- Membership ---

func (h *Handlers) handleJoin(w http.ResponseWriter, r *http.Request) {
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.Join(r.Context(), caller)
	})
}

func (h *Handlers) handleApproveJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.ApproveJoin(r.Context(), caller, req.User)
	})
}

func (h *Handlers) handleLeave(w http.ResponseWriter, r *http.Request) {
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.Leave(r.Context(), caller)
	})
}

func (h *Handlers) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.AddAdmin(r.Context(), caller, req.User)
	})
}

func (h *Handlers) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.RemoveAdmin(r.Context(), caller, user)
	})
}

func (h *Handlers) handleTransferCreator(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.TransferCreator(r.Context(), caller, req.User)
	})
}

func (h *Handlers) handlePause(w http.ResponseWriter, r *http.Request) {
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.Pause(r.Context(), caller)
	})
}

func (h *Handlers) handleUnpause(w http.ResponseWriter, r *http.Request) {
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.Unpause(r.Context(), caller)
	})
}

// --- Contributions ---

func (h *Handlers) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	caller := middleware.GetUserID(r.Context())
	if err := h.chama.Contribute(r.Context(), r.PathValue("id"), caller, req.Amount); err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "contributed"})
}

func (h *Handlers) handleMissedCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.CheckMissedContributions(r.Context(), caller, req.User)
	})
}

func (h *Handlers) handleContributionAt(w http.ResponseWriter, r *http.Request) {
	g, err := h.chama.Group(r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	period, err := strconv.ParseUint(r.PathValue("period"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period")
		return
	}
	ts := g.ContributionAt(r.PathValue("user"), period)
	respondJSON(w, http.StatusOK, map[string]any{
		"period":      period,
		"user":        r.PathValue("user"),
		"contributed": ts != 0,
		"timestamp":   ts,
	})
}

// --- Punishments ---

func (h *Handlers) handlePunish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User   string `json:"user"`
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	caller := middleware.GetUserID(r.Context())
	err := h.chama.PunishMember(r.Context(), r.PathValue("id"), caller, req.User,
		models.PunishmentAction(req.Action), req.Reason)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "punished"})
}

func (h *Handlers) handleCancelPunishment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.CancelPunishment(r.Context(), caller, req.User)
	})
}

func (h *Handlers) handlePayFine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	caller := middleware.GetUserID(r.Context())
	if err := h.chama.PayFine(r.Context(), r.PathValue("id"), caller, req.Amount); err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "fine paid"})
}

func (h *Handlers) handleMemberDetails(w http.ResponseWriter, r *http.Request) {
	g, err := h.chama.Group(r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	user := r.PathValue("user")
	member, ok := g.MemberDetails(user)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown member")
		return
	}
	resp := map[string]any{"member": member}
	if punishment, ok := g.PunishmentDetails(user); ok {
		resp["punishment"] = punishment
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handlePayoutHistory(w http.ResponseWriter, r *http.Request) {
	g, err := h.chama.Group(r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	history := g.PayoutHistory(r.PathValue("user"))
	if history == nil {
		history = []models.PayoutRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"payouts": history})
}

// --- Governance ---

func (h *Handlers) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        string `json:"type"`
		Target      string `json:"target"`
		Value       int64  `json:"value"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	caller := middleware.GetUserID(r.Context())
	id, err := h.chama.CreateProposal(r.Context(), r.PathValue("id"), caller,
		models.ProposalType(req.Type), req.Target, req.Value, req.Description)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]uint64{"proposal_id": id})
}

func (h *Handlers) handleProposalDetails(w http.ResponseWriter, r *http.Request) {
	g, err := h.chama.Group(r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	pid, err := strconv.ParseUint(r.PathValue("pid"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	proposal, ok := g.ProposalDetails(pid)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown proposal")
		return
	}
	resp := map[string]any{"proposal": proposal}
	if voter := r.URL.Query().Get("voter"); voter != "" {
		resp["has_voted"] = g.HasVoted(pid, voter)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleVote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Support bool `json:"support"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	pid, err := strconv.ParseUint(r.PathValue("pid"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.VoteOnProposal(r.Context(), caller, pid, req.Support)
	})
}

func (h *Handlers) handleExecuteProposal(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.ParseUint(r.PathValue("pid"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.ExecuteProposal(r.Context(), caller, pid)
	})
}

// --- Payouts ---

func (h *Handlers) handleSetQueue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Members []string `json:"members"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.SetPayoutQueue(r.Context(), caller, req.Members)
	})
}

func (h *Handlers) handlePayout(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUserID(r.Context())
	record, err := h.chama.ProcessRotationPayout(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"payout": record})
}

func (h *Handlers) handlePayoutInfo(w http.ResponseWriter, r *http.Request) {
	g, err := h.chama.Group(r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	period, err := strconv.ParseUint(r.PathValue("period"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period")
		return
	}
	record, ok := g.PayoutInfo(period)
	if !ok {
		writeError(w, http.StatusNotFound, "period has no payout")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"payout": record})
}

func (h *Handlers) handleEmergencyWithdraw(w http.ResponseWriter, r *http.Request) {
	h.groupOp(w, r, func(g groupOps, caller string) error {
		return g.EmergencyWithdraw(r.Context(), caller)
	})
}

// --- Registry controls ---

func (h *Handlers) handleRegistryPause(w http.ResponseWriter, r *http.Request) {
	if err := h.chama.Registry().Pause(middleware.GetUserID(r.Context())); err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (h *Handlers) handleRegistryUnpause(w http.ResponseWriter, r *http.Request) {
	if err := h.chama.Registry().Unpause(middleware.GetUserID(r.Context())); err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "unpaused"})
}

// groupOps aliases the engine type so handler closures stay short.
type groupOps = *engine.Group

// groupOp resolves the group and runs fn as the authenticated caller,
// answering with a uniform ok/error body.
func (h *Handlers) groupOp(w http.ResponseWriter, r *http.Request, fn func(g groupOps, caller string) error) {
	g, err := h.chama.Group(r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	if err := fn(g, middleware.GetUserID(r.Context())); err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
