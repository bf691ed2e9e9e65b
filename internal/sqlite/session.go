package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cofocus/focusd/internal/domain/session"
	"github.com/cofocus/focusd/internal/repository"
)

// SessionRepository implements session persistence for SQLite.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, host_id, name, is_public, mode, work_minutes,
	short_break_minutes, long_break_minutes, status, invite_code,
	created_at, started_at, ended_at
`

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (
			id, host_id, name, is_public, mode, work_minutes,
			short_break_minutes, long_break_minutes, status, invite_code,
			created_at, started_at, ended_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.HostID,
		sess.Name,
		sess.Public,
		sess.Mode,
		sess.WorkMinutes,
		sess.ShortBreakMinutes,
		sess.LongBreakMinutes,
		sess.Status,
		sess.InviteCode,
		sess.CreatedAt,
		sess.StartedAt,
		sess.EndedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	return scanSession(r.db.QueryRowContext(ctx, query, id))
}

// GetByInviteCode retrieves a session by invite code
func (r *SessionRepository) GetByInviteCode(ctx context.Context, code string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE invite_code = ?`
	return scanSession(r.db.QueryRowContext(ctx, query, code))
}

// Update updates a session's mutable fields
func (r *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	query := `
		UPDATE sessions
		SET name = ?, is_public = ?, status = ?, started_at = ?, ended_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		sess.Name,
		sess.Public,
		sess.Status,
		sess.StartedAt,
		sess.EndedAt,
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
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

// ListPublic returns joinable public sessions, newest first
func (r *SessionRepository) ListPublic(ctx context.Context) ([]session.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE is_public = 1 AND status IN ('pending', 'in_progress')
		ORDER BY created_at DESC
	`
	return r.list(ctx, query)
}

// ListHosted returns sessions hosted by a user, newest first
func (r *SessionRepository) ListHosted(ctx context.Context, hostID string) ([]session.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE host_id = ?
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, hostID)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]session.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row *sql.Row) (*session.Session, error) {
	sess, err := scanSessionRow(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return sess, err
}

func scanSessionRow(row rowScanner) (*session.Session, error) {
	var sess session.Session
	var shortBreak, longBreak sql.NullInt64
	var startedAt, endedAt sql.NullTime
	err := row.Scan(
		&sess.ID,
		&sess.HostID,
		&sess.Name,
		&sess.Public,
		&sess.Mode,
		&sess.WorkMinutes,
		&shortBreak,
		&longBreak,
		&sess.Status,
		&sess.InviteCode,
		&sess.CreatedAt,
		&startedAt,
		&endedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	if shortBreak.Valid {
		v := int(shortBreak.Int64)
		sess.ShortBreakMinutes = &v
	}
	if longBreak.Valid {
		v := int(longBreak.Int64)
		sess.LongBreakMinutes = &v
	}
	if startedAt.Valid {
		sess.StartedAt = &startedAt.Time
	}
	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}

	return &sess, nil
}
