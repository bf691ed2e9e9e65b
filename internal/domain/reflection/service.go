package reflection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReflectionRepository provides persistence for reflections.
type ReflectionRepository interface {
	Create(ctx context.Context, r *Reflection) error
	ListBySession(ctx context.Context, sessionID string) ([]Reflection, error)
}

// Service handles reflection operations.
type Service struct {
	reflections ReflectionRepository
	logger      *slog.Logger
}

// NewService creates a new reflection service.
func NewService(reflections ReflectionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reflections: reflections, logger: logger}
}

// Save stores a reflection. EarlyExit marks reflections written on the way
// out of an approved unlock request, with the request's reason attached.
func (s *Service) Save(ctx context.Context, sessionID, userID, text string, earlyExit bool, exitReason string) (*Reflection, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}

	r := &Reflection{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		UserID:     userID,
		Text:       text,
		EarlyExit:  earlyExit,
		ExitReason: exitReason,
		CreatedAt:  time.Now(),
	}
	if err := s.reflections.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("saving reflection: %w", err)
	}
	return r, nil
}

// List returns the session's reflections, newest first.
func (s *Service) List(ctx context.Context, sessionID string) ([]Reflection, error) {
	return s.reflections.ListBySession(ctx, sessionID)
}
