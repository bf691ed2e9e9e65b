package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cofocus/focusd/internal/auth"
	"github.com/cofocus/focusd/internal/repository"
)

// UserRepository implements user account persistence for SQLite.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user account
func (r *UserRepository) Create(ctx context.Context, u *auth.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.DisplayName, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*auth.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*auth.User, error) {
	query := fmt.Sprintf(
		`SELECT id, email, password_hash, display_name, created_at FROM users WHERE %s = ?`,
		column,
	)

	var u auth.User
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// TokenRepository implements bearer token persistence for SQLite. Only sha256
// hashes of tokens are stored.
type TokenRepository struct {
	db *DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Store persists a token hash for a user
func (r *TokenRepository) Store(ctx context.Context, tokenHash, userID string) error {
	query := `INSERT INTO auth_tokens (token_hash, user_id) VALUES (?, ?)`

	_, err := r.db.ExecContext(ctx, query, tokenHash, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to store token: %w", err)
	}

	return nil
}

// Lookup resolves a token hash to a user ID
func (r *TokenRepository) Lookup(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM auth_tokens WHERE token_hash = ?`, tokenHash,
	).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up token: %w", err)
	}

	return userID, nil
}
