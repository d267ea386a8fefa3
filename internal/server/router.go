package server

import (
	"net/http"

	"github.com/mkamau/chamapool/internal/auth"
	"github.com/mkamau/chamapool/internal/metrics"
	"github.com/mkamau/chamapool/internal/middleware"
)

// NewRouter wires the HTTP routes exposed by the backend API.
//
// Everything under /groups and /registry requires a valid session token; the
// authenticated user's ID is the caller identity every engine operation runs
// as.
func NewRouter(h *Handlers, jwtManager *auth.JWTManager, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", m.Handler())

	mux.HandleFunc("POST /signup", h.handleSignup)
	mux.HandleFunc("POST /login", h.handleLogin)

	api := http.NewServeMux()
	api.HandleFunc("POST /groups", h.handleCreateGroup)
	api.HandleFunc("GET /groups/{id}", h.handleGroupSummary)
	api.HandleFunc("GET /groups/{id}/events", h.handleEvents)
	api.HandleFunc("GET /groups/{id}/schedule", h.handleSchedule)

	api.HandleFunc("POST /groups/{id}/join", h.handleJoin)
	api.HandleFunc("POST /groups/{id}/approve", h.handleApproveJoin)
	api.HandleFunc("POST /groups/{id}/leave", h.handleLeave)
	api.HandleFunc("POST /groups/{id}/admins", h.handleAddAdmin)
	api.HandleFunc("DELETE /groups/{id}/admins/{user}", h.handleRemoveAdmin)
	api.HandleFunc("POST /groups/{id}/creator", h.handleTransferCreator)
	api.HandleFunc("POST /groups/{id}/pause", h.handlePause)
	api.HandleFunc("POST /groups/{id}/unpause", h.handleUnpause)

	api.HandleFunc("POST /groups/{id}/contribute", h.handleContribute)
	api.HandleFunc("POST /groups/{id}/missed-check", h.handleMissedCheck)
	api.HandleFunc("GET /groups/{id}/contributions/{period}/{user}", h.handleContributionAt)

	api.HandleFunc("POST /groups/{id}/punish", h.handlePunish)
	api.HandleFunc("POST /groups/{id}/punishments/cancel", h.handleCancelPunishment)
	api.HandleFunc("POST /groups/{id}/fine", h.handlePayFine)
	api.HandleFunc("GET /groups/{id}/members/{user}", h.handleMemberDetails)
	api.HandleFunc("GET /groups/{id}/members/{user}/payouts", h.handlePayoutHistory)

	api.HandleFunc("POST /groups/{id}/proposals", h.handleCreateProposal)
	api.HandleFunc("GET /groups/{id}/proposals/{pid}", h.handleProposalDetails)
	api.HandleFunc("POST /groups/{id}/proposals/{pid}/vote", h.handleVote)
	api.HandleFunc("POST /groups/{id}/proposals/{pid}/execute", h.handleExecuteProposal)

	api.HandleFunc("POST /groups/{id}/queue", h.handleSetQueue)
	api.HandleFunc("POST /groups/{id}/payout", h.handlePayout)
	api.HandleFunc("GET /groups/{id}/payouts/{period}", h.handlePayoutInfo)
	api.HandleFunc("POST /groups/{id}/emergency-withdraw", h.handleEmergencyWithdraw)

	api.HandleFunc("POST /registry/pause", h.handleRegistryPause)
	api.HandleFunc("POST /registry/unpause", h.handleRegistryUnpause)

	mux.Handle("/", middleware.RequireAuth(jwtManager, api))

	return m.Instrument("api", middleware.Logging(mux))
}
