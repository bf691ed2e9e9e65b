package transport

import (
	"context"
	"log/slog"

	"github.com/cofocus/focusd/internal/auth"
	"github.com/cofocus/focusd/internal/domain/goal"
	"github.com/cofocus/focusd/internal/domain/reflection"
	"github.com/cofocus/focusd/internal/domain/session"
	"github.com/cofocus/focusd/internal/domain/unlock"
	"github.com/cofocus/focusd/internal/event"
)

// AuthService defines account operations needed by the HTTP layer.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*auth.User, error)
	Login(ctx context.Context, email, password string) (*auth.User, string, error)
	ResolveUser(ctx context.Context, token string) (string, error)
}

// SessionService defines session operations needed by the HTTP layer.
type SessionService interface {
	Create(ctx context.Context, hostID string, req session.CreateRequest) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	ListPublic(ctx context.Context) ([]session.Session, error)
	ListHosted(ctx context.Context, hostID string) ([]session.Session, error)
	Start(ctx context.Context, sessionID, callerID string) (*session.Session, error)
	End(ctx context.Context, sessionID, callerID string) (*session.Session, error)
	Join(ctx context.Context, sessionID, userID string) error
	JoinByInviteCode(ctx context.Context, code, userID string) (*session.Session, error)
	Leave(ctx context.Context, sessionID, userID string) error
	SetReady(ctx context.Context, sessionID, userID string, ready bool) error
	Participants(ctx context.Context, sessionID string) ([]session.Participant, error)
}

// UnlockService defines consensus operations needed by the HTTP layer.
type UnlockService interface {
	RequestExit(ctx context.Context, sessionID, requesterID, reason string) (*unlock.ExitRequest, error)
	Vote(ctx context.Context, requestID, voterID string, decision unlock.Decision) (*unlock.VoteResult, error)
	GetRequest(ctx context.Context, requestID string) (*unlock.RequestDetail, error)
	PendingRequests(ctx context.Context, sessionID string) ([]unlock.RequestDetail, error)
}

// GoalService defines goal operations needed by the HTTP layer.
type GoalService interface {
	Save(ctx context.Context, sessionID, userID string, texts []string) ([]goal.Goal, error)
	List(ctx context.Context, sessionID, userID string) ([]goal.Goal, error)
	ToggleCompletion(ctx context.Context, goalID, userID string, completed bool) (*goal.Goal, error)
}

// ReflectionService defines reflection operations needed by the HTTP layer.
type ReflectionService interface {
	Save(ctx context.Context, sessionID, userID, text string, earlyExit bool, exitReason string) (*reflection.Reflection, error)
	List(ctx context.Context, sessionID string) ([]reflection.Reflection, error)
}

// Subscriber attaches to the session channel for the SSE feed.
type Subscriber interface {
	Subscribe(topic string) (<-chan event.Event, func())
}

// Services contains all domain services needed by the HTTP layer.
type Services struct {
	Auth        AuthService
	Sessions    SessionService
	Unlock      UnlockService
	Goals       GoalService
	Reflections ReflectionService
}

// Server wires HTTP handlers over the domain services.
type Server struct {
	services Services
	events   Subscriber
	logger   *slog.Logger
}
