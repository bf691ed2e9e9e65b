package mocks

import (
	"context"
	"time"

	"github.com/cofocus/focusd/internal/domain/goal"
	"github.com/cofocus/focusd/internal/domain/session"
	"github.com/cofocus/focusd/internal/domain/unlock"
	"github.com/stretchr/testify/mock"
)

// UnlockRepository is a mock for unlock.RequestRepository.
type UnlockRepository struct {
	mock.Mock
}

func (m *UnlockRepository) Create(ctx context.Context, req *unlock.ExitRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *UnlockRepository) Get(ctx context.Context, id string) (*unlock.ExitRequest, error) {
	args := m.Called(ctx, id)
	if req, ok := args.Get(0).(*unlock.ExitRequest); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UnlockRepository) GetDetail(ctx context.Context, id string) (*unlock.RequestDetail, error) {
	args := m.Called(ctx, id)
	if detail, ok := args.Get(0).(*unlock.RequestDetail); ok {
		return detail, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UnlockRepository) GetPendingByRequester(ctx context.Context, sessionID, requesterID string) (*unlock.ExitRequest, error) {
	args := m.Called(ctx, sessionID, requesterID)
	if req, ok := args.Get(0).(*unlock.ExitRequest); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UnlockRepository) ListPending(ctx context.Context, sessionID string) ([]unlock.RequestDetail, error) {
	args := m.Called(ctx, sessionID)
	if list, ok := args.Get(0).([]unlock.RequestDetail); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UnlockRepository) RecordVote(ctx context.Context, v *unlock.Vote) (int, int, error) {
	args := m.Called(ctx, v)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *UnlockRepository) Resolve(ctx context.Context, id string, status unlock.Status, approvalsReceived int, resolvedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, status, approvalsReceived, resolvedAt)
	return args.Bool(0), args.Error(1)
}

// MembershipDirectory is a mock for unlock.MembershipDirectory.
type MembershipDirectory struct {
	mock.Mock
}

func (m *MembershipDirectory) CurrentParticipantCount(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *MembershipDirectory) IsParticipant(ctx context.Context, sessionID, userID string) (bool, error) {
	args := m.Called(ctx, sessionID, userID)
	return args.Bool(0), args.Error(1)
}

// ProfileDirectory is a mock for unlock.ProfileDirectory.
type ProfileDirectory struct {
	mock.Mock
}

func (m *ProfileDirectory) DisplayName(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// SessionRepository is a mock for session.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) GetByInviteCode(ctx context.Context, code string) (*session.Session, error) {
	args := m.Called(ctx, code)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) ListPublic(ctx context.Context) ([]session.Session, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) ListHosted(ctx context.Context, hostID string) ([]session.Session, error) {
	args := m.Called(ctx, hostID)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ParticipantRepository is a mock for session.ParticipantRepository.
type ParticipantRepository struct {
	mock.Mock
}

func (m *ParticipantRepository) Upsert(ctx context.Context, p *session.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ParticipantRepository) Remove(ctx context.Context, sessionID, userID string) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func (m *ParticipantRepository) SetReady(ctx context.Context, sessionID, userID string, ready bool) error {
	args := m.Called(ctx, sessionID, userID, ready)
	return args.Error(0)
}

func (m *ParticipantRepository) List(ctx context.Context, sessionID string) ([]session.Participant, error) {
	args := m.Called(ctx, sessionID)
	if list, ok := args.Get(0).([]session.Participant); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) Count(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *ParticipantRepository) Exists(ctx context.Context, sessionID, userID string) (bool, error) {
	args := m.Called(ctx, sessionID, userID)
	return args.Bool(0), args.Error(1)
}

// GoalRepository is a mock for goal.GoalRepository.
type GoalRepository struct {
	mock.Mock
}

func (m *GoalRepository) ReplaceForUser(ctx context.Context, sessionID, userID string, goals []goal.Goal) error {
	args := m.Called(ctx, sessionID, userID, goals)
	return args.Error(0)
}

func (m *GoalRepository) Get(ctx context.Context, id string) (*goal.Goal, error) {
	args := m.Called(ctx, id)
	if g, ok := args.Get(0).(*goal.Goal); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GoalRepository) List(ctx context.Context, sessionID, userID string) ([]goal.Goal, error) {
	args := m.Called(ctx, sessionID, userID)
	if list, ok := args.Get(0).([]goal.Goal); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GoalRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	args := m.Called(ctx, id, completed)
	return args.Error(0)
}
