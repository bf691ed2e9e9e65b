package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cofocus/focusd/internal/domain/session"
	"github.com/cofocus/focusd/internal/event"
	"github.com/cofocus/focusd/internal/repository"
	"github.com/cofocus/focusd/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(topic string, evt event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, evt := range p.events {
		names[i] = evt.Name
	}
	return names
}

type fixture struct {
	sessions     *mocks.SessionRepository
	participants *mocks.ParticipantRepository
	publisher    *recordingPublisher
	svc          *session.Service
}

func newFixture() *fixture {
	f := &fixture{
		sessions:     &mocks.SessionRepository{},
		participants: &mocks.ParticipantRepository{},
		publisher:    &recordingPublisher{},
	}
	f.svc = session.NewService(f.sessions, f.participants, f.publisher, nil)
	return f
}

func TestCreate_HostAutoJoined(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("Create", ctx, mock.Anything).Return(nil)
	f.participants.On("Upsert", ctx, mock.MatchedBy(func(p *session.Participant) bool {
		return p.UserID == "host"
	})).Return(nil)

	sess, err := f.svc.Create(ctx, "host", session.CreateRequest{
		Name:        "deep work",
		WorkMinutes: 50,
	})
	require.NoError(t, err)
	require.Equal(t, session.StatusPending, sess.Status)
	require.Equal(t, session.ModeUninterrupted, sess.Mode)
	require.Len(t, sess.InviteCode, 6)
	f.participants.AssertExpectations(t)
}

func TestCreate_InvalidInput(t *testing.T) {
	f := newFixture()

	cases := []session.CreateRequest{
		{Name: "", WorkMinutes: 25},
		{Name: "x", WorkMinutes: 0},
		{Name: "x", WorkMinutes: 25, Mode: session.Mode("freestyle")},
	}
	for _, req := range cases {
		_, err := f.svc.Create(context.Background(), "host", req)
		require.ErrorIs(t, err, session.ErrInvalidInput)
	}
}

func TestStart_HostOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:     "s1",
		HostID: "host",
		Status: session.StatusPending,
	}, nil)

	_, err := f.svc.Start(ctx, "s1", "guest")
	require.ErrorIs(t, err, session.ErrNotHost)
}

func TestStart_TransitionsAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:     "s1",
		HostID: "host",
		Status: session.StatusPending,
	}, nil)
	f.sessions.On("Update", ctx, mock.MatchedBy(func(s *session.Session) bool {
		return s.Status == session.StatusInProgress && s.StartedAt != nil
	})).Return(nil)

	sess, err := f.svc.Start(ctx, "s1", "host")
	require.NoError(t, err)
	require.Equal(t, session.StatusInProgress, sess.Status)
	require.Equal(t, []string{session.EventSessionStart}, f.publisher.names())
}

func TestStart_AlreadyStarted(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	started := time.Now()
	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:        "s1",
		HostID:    "host",
		Status:    session.StatusInProgress,
		StartedAt: &started,
	}, nil)

	_, err := f.svc.Start(ctx, "s1", "host")
	require.ErrorIs(t, err, session.ErrInvalidState)
}

func TestEnd_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	ended := time.Now()
	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:      "s1",
		HostID:  "host",
		Status:  session.StatusEnded,
		EndedAt: &ended,
	}, nil)

	sess, err := f.svc.End(ctx, "s1", "host")
	require.NoError(t, err)
	require.Equal(t, session.StatusEnded, sess.Status)
	f.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestJoin_RejectsEndedSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:     "s1",
		Status: session.StatusEnded,
	}, nil)

	err := f.svc.Join(ctx, "s1", "guest")
	require.ErrorIs(t, err, session.ErrSessionEnded)
}

func TestJoin_Broadcasts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:     "s1",
		Status: session.StatusPending,
	}, nil)
	f.participants.On("Upsert", ctx, mock.Anything).Return(nil)

	require.NoError(t, f.svc.Join(ctx, "s1", "guest"))
	require.Equal(t, []string{session.EventParticipantChange}, f.publisher.names())
}

func TestLeave_GuestKeepsSessionAlive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:     "s1",
		HostID: "host",
		Status: session.StatusInProgress,
	}, nil)
	f.participants.On("Remove", ctx, "s1", "guest").Return(nil)
	f.participants.On("Count", ctx, "s1").Return(2, nil)

	require.NoError(t, f.svc.Leave(ctx, "s1", "guest"))
	f.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLeave_HostEndsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:     "s1",
		HostID: "host",
		Status: session.StatusInProgress,
	}, nil)
	f.participants.On("Remove", ctx, "s1", "host").Return(nil)
	f.participants.On("Count", ctx, "s1").Return(2, nil)
	f.sessions.On("Update", ctx, mock.MatchedBy(func(s *session.Session) bool {
		return s.Status == session.StatusEnded
	})).Return(nil)

	require.NoError(t, f.svc.Leave(ctx, "s1", "host"))
	f.sessions.AssertExpectations(t)
}

func TestLeave_LastParticipantEndsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:     "s1",
		HostID: "host",
		Status: session.StatusInProgress,
	}, nil)
	f.participants.On("Remove", ctx, "s1", "guest").Return(nil)
	f.participants.On("Count", ctx, "s1").Return(0, nil)
	f.sessions.On("Update", ctx, mock.MatchedBy(func(s *session.Session) bool {
		return s.Status == session.StatusEnded
	})).Return(nil)

	require.NoError(t, f.svc.Leave(ctx, "s1", "guest"))
	f.sessions.AssertExpectations(t)
}

func TestLeave_NotParticipant(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:     "s1",
		HostID: "host",
		Status: session.StatusInProgress,
	}, nil)
	f.participants.On("Remove", ctx, "s1", "stranger").Return(repository.ErrNotFound)

	err := f.svc.Leave(ctx, "s1", "stranger")
	require.ErrorIs(t, err, session.ErrNotParticipant)
}

func TestJoinByInviteCode_NormalizesCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.sessions.On("GetByInviteCode", ctx, "ABC234").Return(&session.Session{
		ID:     "s1",
		Status: session.StatusPending,
	}, nil)
	f.sessions.On("Get", ctx, "s1").Return(&session.Session{
		ID:     "s1",
		Status: session.StatusPending,
	}, nil)
	f.participants.On("Upsert", ctx, mock.Anything).Return(nil)

	sess, err := f.svc.JoinByInviteCode(ctx, " abc234 ", "guest")
	require.NoError(t, err)
	require.Equal(t, "s1", sess.ID)
}

func TestSetReady_NotParticipant(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.participants.On("SetReady", ctx, "s1", "stranger", true).Return(repository.ErrNotFound)

	err := f.svc.SetReady(ctx, "s1", "stranger", true)
	require.ErrorIs(t, err, session.ErrNotParticipant)
}
