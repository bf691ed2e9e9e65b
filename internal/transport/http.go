package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates the HTTP router. Auth endpoints and the health check are
// open; everything else requires a bearer token.
func NewRouter(services Services, events Subscriber, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{services: services, events: events, logger: logger}

	r := chi.NewRouter()

	r.Get("/health", srv.handleHealth)
	r.Post("/v1/auth/register", srv.handleRegister)
	r.Post("/v1/auth/login", srv.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(services.Auth))

		r.Route("/v1/sessions", func(r chi.Router) {
			r.Post("/", srv.handleCreateSession)
			r.Get("/", srv.handleListPublicSessions)
			r.Get("/hosted", srv.handleListHostedSessions)
			r.Post("/join", srv.handleJoinByInviteCode)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", srv.handleGetSession)
				r.Post("/start", srv.handleStartSession)
				r.Post("/end", srv.handleEndSession)
				r.Post("/join", srv.handleJoinSession)
				r.Post("/leave", srv.handleLeaveSession)
				r.Post("/ready", srv.handleSetReady)
				r.Get("/participants", srv.handleListParticipants)
				r.Put("/goals", srv.handleSaveGoals)
				r.Get("/goals", srv.handleListGoals)
				r.Post("/reflections", srv.handleSaveReflection)
				r.Get("/reflections", srv.handleListReflections)
				r.Post("/unlock-requests", srv.handleRequestExit)
				r.Get("/unlock-requests", srv.handleListPendingRequests)
				r.Get("/events", srv.handleSessionEvents)
			})
		})

		r.Post("/v1/goals/{goalID}/toggle", srv.handleToggleGoal)
		r.Get("/v1/unlock-requests/{requestID}", srv.handleGetRequest)
		r.Post("/v1/unlock-requests/{requestID}/votes", srv.handleVote)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
