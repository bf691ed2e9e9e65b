package session

import (
	"context"

	"github.com/cofocus/focusd/internal/event"
)

// SessionRepository provides persistence for sessions.
type SessionRepository interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	GetByInviteCode(ctx context.Context, code string) (*Session, error)
	Update(ctx context.Context, sess *Session) error
	ListPublic(ctx context.Context) ([]Session, error)
	ListHosted(ctx context.Context, hostID string) ([]Session, error)
}

// ParticipantRepository provides persistence for session membership.
type ParticipantRepository interface {
	Upsert(ctx context.Context, p *Participant) error
	Remove(ctx context.Context, sessionID, userID string) error
	SetReady(ctx context.Context, sessionID, userID string, ready bool) error
	List(ctx context.Context, sessionID string) ([]Participant, error)
	Count(ctx context.Context, sessionID string) (int, error)
	Exists(ctx context.Context, sessionID, userID string) (bool, error)
}

// EventPublisher broadcasts on the session channel, best-effort.
type EventPublisher interface {
	Publish(topic string, evt event.Event) error
}
