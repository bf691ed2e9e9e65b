package goal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cofocus/focusd/internal/repository"
	"github.com/google/uuid"
)

// Service handles focus goal operations.
type Service struct {
	goals  GoalRepository
	logger *slog.Logger
}

// NewService creates a new goal service.
func NewService(goals GoalRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{goals: goals, logger: logger}
}

// Save replaces the user's goal list for the session. Blank entries are
// dropped; an all-blank list clears the goals.
func (s *Service) Save(ctx context.Context, sessionID, userID string, texts []string) ([]Goal, error) {
	now := time.Now()
	goals := make([]Goal, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		goals = append(goals, Goal{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			UserID:    userID,
			Text:      text,
			CreatedAt: now,
		})
	}

	if err := s.goals.ReplaceForUser(ctx, sessionID, userID, goals); err != nil {
		return nil, fmt.Errorf("saving goals: %w", err)
	}
	return goals, nil
}

// List returns goals for the session, optionally filtered to one user.
func (s *Service) List(ctx context.Context, sessionID, userID string) ([]Goal, error) {
	return s.goals.List(ctx, sessionID, userID)
}

// ToggleCompletion marks a goal complete or incomplete. Owner only.
func (s *Service) ToggleCompletion(ctx context.Context, goalID, userID string, completed bool) (*Goal, error) {
	g, err := s.goals.Get(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("loading goal: %w", err)
	}
	if g.UserID != userID {
		return nil, ErrNotOwner
	}

	if err := s.goals.SetCompleted(ctx, goalID, completed); err != nil {
		return nil, fmt.Errorf("updating goal: %w", err)
	}
	g.Completed = completed
	return g, nil
}
