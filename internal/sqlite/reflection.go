package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cofocus/focusd/internal/domain/reflection"
	"github.com/cofocus/focusd/internal/repository"
)

// ReflectionRepository implements reflection persistence for SQLite.
type ReflectionRepository struct {
	db *DB
}

// NewReflectionRepository creates a new ReflectionRepository
func NewReflectionRepository(db *DB) *ReflectionRepository {
	return &ReflectionRepository{db: db}
}

// Create persists a reflection
func (r *ReflectionRepository) Create(ctx context.Context, refl *reflection.Reflection) error {
	query := `
		INSERT INTO reflections (id, session_id, user_id, reflection_text, early_exit, exit_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var exitReason any
	if refl.ExitReason != "" {
		exitReason = refl.ExitReason
	}

	_, err := r.db.ExecContext(ctx, query,
		refl.ID, refl.SessionID, refl.UserID, refl.Text, refl.EarlyExit, exitReason, refl.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create reflection: %w", err)
	}

	return nil
}

// ListBySession returns the session's reflections with author names, newest first
func (r *ReflectionRepository) ListBySession(ctx context.Context, sessionID string) ([]reflection.Reflection, error) {
	query := `
		SELECT r.id, r.session_id, r.user_id, u.display_name,
		       r.reflection_text, r.early_exit, r.exit_reason, r.created_at
		FROM reflections r
		JOIN users u ON u.id = r.user_id
		WHERE r.session_id = ?
		ORDER BY r.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reflections: %w", err)
	}
	defer rows.Close()

	var reflections []reflection.Reflection
	for rows.Next() {
		var refl reflection.Reflection
		var exitReason sql.NullString
		if err := rows.Scan(
			&refl.ID, &refl.SessionID, &refl.UserID, &refl.AuthorName,
			&refl.Text, &refl.EarlyExit, &exitReason, &refl.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reflection: %w", err)
		}
		if exitReason.Valid {
			refl.ExitReason = exitReason.String
		}
		reflections = append(reflections, refl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reflections: %w", err)
	}

	return reflections, nil
}
