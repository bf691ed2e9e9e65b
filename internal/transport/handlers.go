package transport

import (
	"net/http"

	"github.com/cofocus/focusd/internal/domain/session"
	"github.com/cofocus/focusd/internal/domain/unlock"
	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	user, err := s.services.Auth.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	user, token, err := s.services.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req session.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	sess, err := s.services.Sessions.Create(r.Context(), userID, req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListPublicSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.services.Sessions.ListPublic(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleListHostedSessions(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	sessions, err := s.services.Sessions.ListHosted(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.services.Sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	sess, err := s.services.Sessions.Start(r.Context(), chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	sess, err := s.services.Sessions.End(r.Context(), chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleJoinSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	if err := s.services.Sessions.Join(r.Context(), chi.URLParam(r, "sessionID"), userID); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type joinByCodeRequest struct {
	InviteCode string `json:"invite_code"`
}

func (s *Server) handleJoinByInviteCode(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req joinByCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	sess, err := s.services.Sessions.JoinByInviteCode(r.Context(), req.InviteCode, userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleLeaveSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	if err := s.services.Sessions.Leave(r.Context(), chi.URLParam(r, "sessionID"), userID); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setReadyRequest struct {
	Ready bool `json:"is_ready"`
}

func (s *Server) handleSetReady(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req setReadyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	if err := s.services.Sessions.SetReady(r.Context(), chi.URLParam(r, "sessionID"), userID, req.Ready); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.services.Sessions.Participants(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, participants)
}

type saveGoalsRequest struct {
	Goals []string `json:"goals"`
}

func (s *Server) handleSaveGoals(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req saveGoalsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	goals, err := s.services.Goals.Save(r.Context(), chi.URLParam(r, "sessionID"), userID, req.Goals)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	// ?user_id= narrows to one participant; default is the whole session.
	goals, err := s.services.Goals.List(r.Context(), chi.URLParam(r, "sessionID"), r.URL.Query().Get("user_id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

type toggleGoalRequest struct {
	Completed bool `json:"is_completed"`
}

func (s *Server) handleToggleGoal(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req toggleGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	g, err := s.services.Goals.ToggleCompletion(r.Context(), chi.URLParam(r, "goalID"), userID, req.Completed)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type saveReflectionRequest struct {
	Text       string `json:"reflection_text"`
	EarlyExit  bool   `json:"early_exit"`
	ExitReason string `json:"exit_reason"`
}

func (s *Server) handleSaveReflection(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req saveReflectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	refl, err := s.services.Reflections.Save(
		r.Context(), chi.URLParam(r, "sessionID"), userID, req.Text, req.EarlyExit, req.ExitReason,
	)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, refl)
}

func (s *Server) handleListReflections(w http.ResponseWriter, r *http.Request) {
	reflections, err := s.services.Reflections.List(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reflections)
}

type requestExitRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleRequestExit(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req requestExitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	exitReq, err := s.services.Unlock.RequestExit(r.Context(), chi.URLParam(r, "sessionID"), userID, req.Reason)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exitReq)
}

func (s *Server) handleListPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.services.Unlock.PendingRequests(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	detail, err := s.services.Unlock.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type voteRequest struct {
	Decision unlock.Decision `json:"decision"`
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed request body")
		return
	}

	result, err := s.services.Unlock.Vote(r.Context(), chi.URLParam(r, "requestID"), userID, req.Decision)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
