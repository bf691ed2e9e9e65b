package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cofocus/focusd/internal/auth"
	"github.com/cofocus/focusd/internal/domain/goal"
	"github.com/cofocus/focusd/internal/domain/reflection"
	"github.com/cofocus/focusd/internal/domain/session"
	"github.com/cofocus/focusd/internal/domain/unlock"
)

// APIError is the JSON error body returned to clients.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

type mapped struct {
	status int
	code   string
}

// errorTable maps domain errors to HTTP responses. Validation errors are 400,
// authorization errors 401/403, missing entities 404, and conflicts the
// caller should resolve by refreshing state are 409.
var errorTable = []struct {
	err error
	mapped
}{
	{unlock.ErrNoReason, mapped{http.StatusBadRequest, "NO_REASON_PROVIDED"}},
	{unlock.ErrInvalidDecision, mapped{http.StatusBadRequest, "INVALID_DECISION"}},
	{unlock.ErrNotParticipant, mapped{http.StatusForbidden, "NOT_A_PARTICIPANT"}},
	{unlock.ErrSelfVote, mapped{http.StatusForbidden, "SELF_VOTE"}},
	{unlock.ErrAlreadyPending, mapped{http.StatusConflict, "REQUEST_ALREADY_PENDING"}},
	{unlock.ErrRequestResolved, mapped{http.StatusConflict, "REQUEST_ALREADY_RESOLVED"}},
	{unlock.ErrAlreadyVoted, mapped{http.StatusConflict, "ALREADY_VOTED"}},
	{unlock.ErrRequestNotFound, mapped{http.StatusNotFound, "REQUEST_NOT_FOUND"}},
	{session.ErrSessionNotFound, mapped{http.StatusNotFound, "SESSION_NOT_FOUND"}},
	{session.ErrNotHost, mapped{http.StatusForbidden, "NOT_HOST"}},
	{session.ErrNotParticipant, mapped{http.StatusForbidden, "NOT_A_PARTICIPANT"}},
	{session.ErrInvalidState, mapped{http.StatusConflict, "INVALID_SESSION_STATE"}},
	{session.ErrSessionEnded, mapped{http.StatusConflict, "SESSION_ENDED"}},
	{session.ErrInvalidInput, mapped{http.StatusBadRequest, "INVALID_INPUT"}},
	{goal.ErrGoalNotFound, mapped{http.StatusNotFound, "GOAL_NOT_FOUND"}},
	{goal.ErrNotOwner, mapped{http.StatusForbidden, "NOT_GOAL_OWNER"}},
	{goal.ErrInvalidInput, mapped{http.StatusBadRequest, "INVALID_INPUT"}},
	{reflection.ErrInvalidInput, mapped{http.StatusBadRequest, "INVALID_INPUT"}},
	{auth.ErrEmailTaken, mapped{http.StatusConflict, "EMAIL_TAKEN"}},
	{auth.ErrInvalidCredentials, mapped{http.StatusUnauthorized, "INVALID_CREDENTIALS"}},
	{auth.ErrUnauthorized, mapped{http.StatusUnauthorized, "UNAUTHORIZED"}},
	{auth.ErrInvalidInput, mapped{http.StatusBadRequest, "INVALID_INPUT"}},
	{auth.ErrUserNotFound, mapped{http.StatusNotFound, "USER_NOT_FOUND"}},
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	for _, entry := range errorTable {
		if errors.Is(err, entry.err) {
			writeError(w, entry.status, entry.code, entry.err.Error())
			return
		}
	}
	s.logger.Error("internal error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: APIError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Default().Error("encoding response", "error", err)
		}
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
