package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cofocus/focusd/internal/domain/session"
	"github.com/cofocus/focusd/internal/repository"
)

// ParticipantRepository implements session membership persistence for SQLite.
type ParticipantRepository struct {
	db *DB
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Upsert adds the user to the session; rejoining refreshes the join time and
// resets readiness.
func (r *ParticipantRepository) Upsert(ctx context.Context, p *session.Participant) error {
	query := `
		INSERT INTO session_participants (session_id, user_id, is_ready, joined_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, user_id)
		DO UPDATE SET is_ready = excluded.is_ready, joined_at = excluded.joined_at
	`

	_, err := r.db.ExecContext(ctx, query, p.SessionID, p.UserID, p.Ready, p.JoinedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to join session: %w", err)
	}

	return nil
}

// Remove deletes the membership row
func (r *ParticipantRepository) Remove(ctx context.Context, sessionID, userID string) error {
	query := `DELETE FROM session_participants WHERE session_id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to leave session: %w", err)
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

// SetReady updates the lobby ready flag
func (r *ParticipantRepository) SetReady(ctx context.Context, sessionID, userID string, ready bool) error {
	query := `UPDATE session_participants SET is_ready = ? WHERE session_id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, ready, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to update readiness: %w", err)
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

// List returns the session's participants with display names, in join order
func (r *ParticipantRepository) List(ctx context.Context, sessionID string) ([]session.Participant, error) {
	query := `
		SELECT sp.session_id, sp.user_id, u.display_name, sp.is_ready, sp.joined_at
		FROM session_participants sp
		JOIN users u ON u.id = sp.user_id
		WHERE sp.session_id = ?
		ORDER BY sp.joined_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []session.Participant
	for rows.Next() {
		var p session.Participant
		var joinedAt time.Time
		if err := rows.Scan(&p.SessionID, &p.UserID, &p.DisplayName, &p.Ready, &joinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.JoinedAt = joinedAt
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}

// Count returns how many users are joined to the session
func (r *ParticipantRepository) Count(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_participants WHERE session_id = ?`, sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

// Exists reports whether the user is joined to the session
func (r *ParticipantRepository) Exists(ctx context.Context, sessionID, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_participants WHERE session_id = ? AND user_id = ?`,
		sessionID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}
