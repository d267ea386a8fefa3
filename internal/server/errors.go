package server

import (
	"errors"
	"net/http"

	"github.com/mkamau/chamapool/internal/auth"
	"github.com/mkamau/chamapool/internal/engine"
	"github.com/mkamau/chamapool/internal/registry"
	"github.com/mkamau/chamapool/internal/service"
	"github.com/mkamau/chamapool/internal/treasury"
)

// statusFor maps domain errors onto HTTP status codes. Unknown errors are
// internal: the engine's own failures are never 500s, so anything unmapped
// is a bug or an infrastructure fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, engine.ErrNotAdmin),
		errors.Is(err, engine.ErrNotCreator),
		errors.Is(err, engine.ErrNotMember),
		errors.Is(err, registry.ErrNotOwner):
		return http.StatusForbidden

	case errors.Is(err, registry.ErrUnknownGroup),
		errors.Is(err, engine.ErrUnknownMember),
		errors.Is(err, engine.ErrUnknownProposal):
		return http.StatusNotFound

	case errors.Is(err, engine.ErrWrongAmount),
		errors.Is(err, engine.ErrInvalidProposalType),
		errors.Is(err, engine.ErrInvalidPunishment),
		errors.Is(err, engine.ErrInvalidTarget),
		errors.Is(err, engine.ErrQueueSize),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, registry.ErrInvalidName),
		errors.Is(err, registry.ErrInvalidAmount),
		errors.Is(err, registry.ErrInvalidMemberCap),
		errors.Is(err, registry.ErrInvalidDates),
		errors.Is(err, registry.ErrInvalidMode):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, registry.ErrTooManyGroups),
		errors.Is(err, registry.ErrRegistryPaused),
		errors.Is(err, treasury.ErrInsufficientFunds),
		errors.Is(err, engine.ErrGroupNotActive),
		errors.Is(err, engine.ErrGroupPaused),
		errors.Is(err, engine.ErrGroupNotStarted),
		errors.Is(err, engine.ErrGroupEnded),
		errors.Is(err, engine.ErrWindowClosed),
		errors.Is(err, engine.ErrAlreadyContributed),
		errors.Is(err, engine.ErrAlreadyMember),
		errors.Is(err, engine.ErrAlreadyRequested),
		errors.Is(err, engine.ErrNoJoinRequest),
		errors.Is(err, engine.ErrActivePunishment),
		errors.Is(err, engine.ErrNoActivePunishment),
		errors.Is(err, engine.ErrVotingClosed),
		errors.Is(err, engine.ErrVotingOpen),
		errors.Is(err, engine.ErrAlreadyVoted),
		errors.Is(err, engine.ErrAlreadyExecuted),
		errors.Is(err, engine.ErrInsufficientVotes),
		errors.Is(err, engine.ErrProposalRejected),
		errors.Is(err, engine.ErrCannotRemoveCreator),
		errors.Is(err, engine.ErrPeriodAlreadyPaid),
		errors.Is(err, engine.ErrMemberNotContributed),
		errors.Is(err, engine.ErrNoEligibleRecipient),
		errors.Is(err, engine.ErrGroupFull),
		errors.Is(err, engine.ErrQueueNotSet),
		errors.Is(err, engine.ErrQueueAlreadySet),
		errors.Is(err, engine.ErrEmergencyDisabled):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes the error with its mapped status.
func fail(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}
