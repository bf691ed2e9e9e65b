package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/cofocus/focusd/internal/auth"
	"github.com/cofocus/focusd/internal/domain/session"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a migrated in-memory database. The pool is pinned to a
// single connection so every query sees the same in-memory store.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db
}

func seedUser(t *testing.T, db *DB, id, name string) {
	t.Helper()
	repo := NewUserRepository(db)
	require.NoError(t, repo.Create(context.Background(), &auth.User{
		ID:           id,
		Email:        id + "@example.com",
		DisplayName:  name,
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	}))
}

func seedSession(t *testing.T, db *DB, id, hostID string) {
	t.Helper()
	repo := NewSessionRepository(db)
	require.NoError(t, repo.Create(context.Background(), &session.Session{
		ID:          id,
		HostID:      hostID,
		Name:        "test session",
		Mode:        session.ModeUninterrupted,
		WorkMinutes: 25,
		Status:      session.StatusInProgress,
		InviteCode:  "CODE" + id,
		CreatedAt:   time.Now(),
	}))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

func TestForeignKeysEnforced(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(
		`INSERT INTO session_participants (session_id, user_id) VALUES (?, ?)`,
		"no-such-session", "no-such-user",
	)
	require.Error(t, err)
	require.True(t, isForeignKeyViolation(err))
}
