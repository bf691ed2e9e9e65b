package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cofocus/focusd/internal/domain/goal"
	"github.com/cofocus/focusd/internal/repository"
)

// GoalRepository implements focus goal persistence for SQLite.
type GoalRepository struct {
	db *DB
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// ReplaceForUser swaps the user's goal list for the session in one transaction
func (r *GoalRepository) ReplaceForUser(ctx context.Context, sessionID, userID string, goals []goal.Goal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM focus_goals WHERE session_id = ? AND user_id = ?`,
		sessionID, userID,
	); err != nil {
		return fmt.Errorf("failed to clear goals: %w", err)
	}

	insert := `
		INSERT INTO focus_goals (id, session_id, user_id, goal_text, is_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, g := range goals {
		if _, err := tx.ExecContext(ctx, insert,
			g.ID, g.SessionID, g.UserID, g.Text, g.Completed, g.CreatedAt,
		); err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to insert goal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit goals: %w", err)
	}
	return nil
}

// Get retrieves a goal by ID
func (r *GoalRepository) Get(ctx context.Context, id string) (*goal.Goal, error) {
	query := `
		SELECT id, session_id, user_id, goal_text, is_completed, created_at
		FROM focus_goals
		WHERE id = ?
	`

	var g goal.Goal
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.SessionID, &g.UserID, &g.Text, &g.Completed, &g.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return &g, nil
}

// List returns goals for the session; userID "" means all participants
func (r *GoalRepository) List(ctx context.Context, sessionID, userID string) ([]goal.Goal, error) {
	query := `
		SELECT id, session_id, user_id, goal_text, is_completed, created_at
		FROM focus_goals
		WHERE session_id = ?
	`
	args := []any{sessionID}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []goal.Goal
	for rows.Next() {
		var g goal.Goal
		if err := rows.Scan(&g.ID, &g.SessionID, &g.UserID, &g.Text, &g.Completed, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// SetCompleted updates a goal's completion flag
func (r *GoalRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE focus_goals SET is_completed = ? WHERE id = ?`, completed, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
