package goal

import "context"

// GoalRepository provides persistence for focus goals.
type GoalRepository interface {
	// ReplaceForUser swaps the user's goal list for the session in one
	// transaction.
	ReplaceForUser(ctx context.Context, sessionID, userID string, goals []Goal) error
	Get(ctx context.Context, id string) (*Goal, error)
	// List returns goals for the session; userID "" means all participants.
	List(ctx context.Context, sessionID, userID string) ([]Goal, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
}
