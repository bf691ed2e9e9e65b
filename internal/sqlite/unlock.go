package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cofocus/focusd/internal/domain/unlock"
	"github.com/cofocus/focusd/internal/repository"
)

// UnlockRepository implements exit request and vote persistence for SQLite.
type UnlockRepository struct {
	db *DB
}

// NewUnlockRepository creates a new UnlockRepository
func NewUnlockRepository(db *DB) *UnlockRepository {
	return &UnlockRepository{db: db}
}

// Create persists a new exit request
func (r *UnlockRepository) Create(ctx context.Context, req *unlock.ExitRequest) error {
	query := `
		INSERT INTO unlock_requests (
			id, session_id, requester_id, reason,
			approvals_needed, approvals_received, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.SessionID,
		req.RequesterID,
		req.Reason,
		req.ApprovalsNeeded,
		req.ApprovalsReceived,
		req.Status,
		req.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create exit request: %w", err)
	}

	return nil
}

// Get retrieves an exit request by ID
func (r *UnlockRepository) Get(ctx context.Context, id string) (*unlock.ExitRequest, error) {
	query := `
		SELECT id, session_id, requester_id, reason,
		       approvals_needed, approvals_received, status, created_at, resolved_at
		FROM unlock_requests
		WHERE id = ?
	`
	return r.scanRequest(r.db.QueryRowContext(ctx, query, id))
}

// GetDetail retrieves an exit request with requester name and votes
func (r *UnlockRepository) GetDetail(ctx context.Context, id string) (*unlock.RequestDetail, error) {
	query := `
		SELECT r.id, r.session_id, r.requester_id, r.reason,
		       r.approvals_needed, r.approvals_received, r.status, r.created_at, r.resolved_at,
		       u.display_name
		FROM unlock_requests r
		JOIN users u ON u.id = r.requester_id
		WHERE r.id = ?
	`

	var detail unlock.RequestDetail
	var resolvedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&detail.ID,
		&detail.SessionID,
		&detail.RequesterID,
		&detail.Reason,
		&detail.ApprovalsNeeded,
		&detail.ApprovalsReceived,
		&detail.Status,
		&detail.CreatedAt,
		&resolvedAt,
		&detail.RequesterName,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exit request: %w", err)
	}
	if resolvedAt.Valid {
		detail.ResolvedAt = &resolvedAt.Time
	}

	votes, err := r.votesForRequest(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.Votes = votes

	return &detail, nil
}

// GetPendingByRequester returns the requester's open request in the session
func (r *UnlockRepository) GetPendingByRequester(ctx context.Context, sessionID, requesterID string) (*unlock.ExitRequest, error) {
	query := `
		SELECT id, session_id, requester_id, reason,
		       approvals_needed, approvals_received, status, created_at, resolved_at
		FROM unlock_requests
		WHERE session_id = ? AND requester_id = ? AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanRequest(r.db.QueryRowContext(ctx, query, sessionID, requesterID))
}

// ListPending returns open requests in a session, newest first
func (r *UnlockRepository) ListPending(ctx context.Context, sessionID string) ([]unlock.RequestDetail, error) {
	query := `
		SELECT r.id, r.session_id, r.requester_id, r.reason,
		       r.approvals_needed, r.approvals_received, r.status, r.created_at, r.resolved_at,
		       u.display_name
		FROM unlock_requests r
		JOIN users u ON u.id = r.requester_id
		WHERE r.session_id = ? AND r.status = 'pending'
		ORDER BY r.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exit requests: %w", err)
	}
	defer rows.Close()

	var details []unlock.RequestDetail
	for rows.Next() {
		var detail unlock.RequestDetail
		var resolvedAt sql.NullTime
		if err := rows.Scan(
			&detail.ID,
			&detail.SessionID,
			&detail.RequesterID,
			&detail.Reason,
			&detail.ApprovalsNeeded,
			&detail.ApprovalsReceived,
			&detail.Status,
			&detail.CreatedAt,
			&resolvedAt,
			&detail.RequesterName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan exit request: %w", err)
		}
		if resolvedAt.Valid {
			detail.ResolvedAt = &resolvedAt.Time
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exit requests: %w", err)
	}

	for i := range details {
		votes, err := r.votesForRequest(ctx, details[i].ID)
		if err != nil {
			return nil, err
		}
		details[i].Votes = votes
	}

	return details, nil
}

// RecordVote inserts the vote and recounts all votes for the request in one
// transaction. The returned counts therefore include every vote committed
// before this one, which is what makes the caller's transition evaluation
// safe under concurrent voting.
func (r *UnlockRepository) RecordVote(ctx context.Context, v *unlock.Vote) (int, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO unlock_votes (request_id, voter_id, vote, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insert, v.RequestID, v.VoterID, v.Decision, v.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return 0, 0, repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return 0, 0, repository.ErrForeignKeyViolation
		}
		return 0, 0, fmt.Errorf("failed to insert vote: %w", err)
	}

	count := `
		SELECT
			COUNT(CASE WHEN vote = 'approve' THEN 1 END),
			COUNT(CASE WHEN vote = 'reject' THEN 1 END)
		FROM unlock_votes
		WHERE request_id = ?
	`
	var approveCount, rejectCount int
	if err := tx.QueryRowContext(ctx, count, v.RequestID).Scan(&approveCount, &rejectCount); err != nil {
		return 0, 0, fmt.Errorf("failed to count votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit vote: %w", err)
	}

	return approveCount, rejectCount, nil
}

// Resolve transitions a request out of pending. The WHERE clause on status
// guarantees at most one caller ever observes won=true per request.
func (r *UnlockRepository) Resolve(ctx context.Context, id string, status unlock.Status, approvalsReceived int, resolvedAt time.Time) (bool, error) {
	query := `
		UPDATE unlock_requests
		SET status = ?, approvals_received = ?, resolved_at = ?
		WHERE id = ? AND status = 'pending'
	`

	result, err := r.db.ExecContext(ctx, query, status, approvalsReceived, resolvedAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to resolve exit request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *UnlockRepository) scanRequest(row *sql.Row) (*unlock.ExitRequest, error) {
	var req unlock.ExitRequest
	var resolvedAt sql.NullTime
	err := row.Scan(
		&req.ID,
		&req.SessionID,
		&req.RequesterID,
		&req.Reason,
		&req.ApprovalsNeeded,
		&req.ApprovalsReceived,
		&req.Status,
		&req.CreatedAt,
		&resolvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exit request: %w", err)
	}
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}
	return &req, nil
}

func (r *UnlockRepository) votesForRequest(ctx context.Context, requestID string) ([]unlock.Vote, error) {
	query := `
		SELECT request_id, voter_id, vote, created_at
		FROM unlock_votes
		WHERE request_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}
	defer rows.Close()

	var votes []unlock.Vote
	for rows.Next() {
		var v unlock.Vote
		if err := rows.Scan(&v.RequestID, &v.VoterID, &v.Decision, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}

	return votes, nil
}
