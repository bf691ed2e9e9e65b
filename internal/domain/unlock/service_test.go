package unlock_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cofocus/focusd/internal/domain/unlock"
	"github.com/cofocus/focusd/internal/event"
	"github.com/cofocus/focusd/internal/repository"
	"github.com/cofocus/focusd/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// capturingPublisher records published events; with fail set it simulates a
// dead channel.
type capturingPublisher struct {
	mu     sync.Mutex
	fail   bool
	topics []string
	events []event.Event
}

func (p *capturingPublisher) Publish(topic string, evt event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("channel unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, evt)
	return nil
}

func (p *capturingPublisher) published() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Event(nil), p.events...)
}

type fixture struct {
	requests   *mocks.UnlockRepository
	membership *mocks.MembershipDirectory
	profiles   *mocks.ProfileDirectory
	publisher  *capturingPublisher
	svc        *unlock.Service
}

func newFixture() *fixture {
	f := &fixture{
		requests:   &mocks.UnlockRepository{},
		membership: &mocks.MembershipDirectory{},
		profiles:   &mocks.ProfileDirectory{},
		publisher:  &capturingPublisher{},
	}
	f.svc = unlock.NewService(f.requests, f.membership, f.profiles, f.publisher, nil)
	return f
}

func TestRequestExit_CreatesPendingRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.membership.On("IsParticipant", ctx, "s1", "alice").Return(true, nil)
	f.membership.On("CurrentParticipantCount", ctx, "s1").Return(3, nil)
	f.requests.On("GetPendingByRequester", ctx, "s1", "alice").Return(nil, repository.ErrNotFound)
	f.requests.On("Create", ctx, mock.Anything).Return(nil)
	f.profiles.On("DisplayName", ctx, "alice").Return("Alice", nil)

	req, err := f.svc.RequestExit(ctx, "s1", "alice", "family call")
	require.NoError(t, err)
	require.Equal(t, unlock.StatusPending, req.Status)
	require.Equal(t, 2, req.ApprovalsNeeded, "quorum is participant count minus the requester")
	require.Equal(t, 0, req.ApprovalsReceived)
	require.NotEmpty(t, req.ID)

	events := f.publisher.published()
	require.Len(t, events, 1)
	require.Equal(t, unlock.EventRequestCreated, events[0].Name)
	payload := events[0].Payload.(unlock.RequestCreatedEvent)
	require.Equal(t, req.ID, payload.RequestID)
	require.Equal(t, "Alice", payload.RequesterName)
	require.Equal(t, "family call", payload.Reason)
}

func TestRequestExit_BlankReason(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RequestExit(context.Background(), "s1", "alice", "   ")
	require.ErrorIs(t, err, unlock.ErrNoReason)
	f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRequestExit_NotParticipant(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.membership.On("IsParticipant", ctx, "s1", "mallory").Return(false, nil)

	_, err := f.svc.RequestExit(ctx, "s1", "mallory", "leaving")
	require.ErrorIs(t, err, unlock.ErrNotParticipant)
}

// Solo auto-approval: one participant means nobody to ask. No row, no votes,
// no broadcast.
func TestRequestExit_SoloAutoApproval(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.membership.On("IsParticipant", ctx, "s1", "alice").Return(true, nil)
	f.membership.On("CurrentParticipantCount", ctx, "s1").Return(1, nil)

	req, err := f.svc.RequestExit(ctx, "s1", "alice", "done early")
	require.NoError(t, err)
	require.Equal(t, unlock.StatusApproved, req.Status)
	require.Equal(t, 0, req.ApprovalsNeeded)
	require.Empty(t, req.ID)
	require.NotNil(t, req.ResolvedAt)

	f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	require.Empty(t, f.publisher.published())
}

func TestRequestExit_AlreadyPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.membership.On("IsParticipant", ctx, "s1", "alice").Return(true, nil)
	f.membership.On("CurrentParticipantCount", ctx, "s1").Return(3, nil)
	f.requests.On("GetPendingByRequester", ctx, "s1", "alice").
		Return(&unlock.ExitRequest{ID: "r1", Status: unlock.StatusPending}, nil)

	_, err := f.svc.RequestExit(ctx, "s1", "alice", "again")
	require.ErrorIs(t, err, unlock.ErrAlreadyPending)
}

func pendingRequest(approvalsNeeded int) *unlock.ExitRequest {
	return &unlock.ExitRequest{
		ID:              "r1",
		SessionID:       "s1",
		RequesterID:     "alice",
		Reason:          "family call",
		ApprovalsNeeded: approvalsNeeded,
		Status:          unlock.StatusPending,
	}
}

func TestVote_PendingUntilQuorum(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.requests.On("Get", ctx, "r1").Return(pendingRequest(2), nil)
	f.membership.On("IsParticipant", ctx, "s1", "bob").Return(true, nil)
	f.requests.On("RecordVote", ctx, mock.Anything).Return(1, 0, nil)

	result, err := f.svc.Vote(ctx, "r1", "bob", unlock.DecisionApprove)
	require.NoError(t, err)
	require.Equal(t, unlock.StatusPending, result.Status)
	require.Equal(t, 1, result.ApproveCount)

	f.requests.AssertNotCalled(t, "Resolve",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	require.Empty(t, f.publisher.published())
}

func TestVote_QuorumApproves(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.requests.On("Get", ctx, "r1").Return(pendingRequest(2), nil)
	f.membership.On("IsParticipant", ctx, "s1", "carol").Return(true, nil)
	f.requests.On("RecordVote", ctx, mock.Anything).Return(2, 0, nil)
	f.requests.On("Resolve", ctx, "r1", unlock.StatusApproved, 2, mock.Anything).Return(true, nil)

	result, err := f.svc.Vote(ctx, "r1", "carol", unlock.DecisionApprove)
	require.NoError(t, err)
	require.Equal(t, unlock.StatusApproved, result.Status)
	require.Equal(t, 2, result.ApproveCount)

	events := f.publisher.published()
	require.Len(t, events, 1)
	require.Equal(t, unlock.EventRequestResolved, events[0].Name)
	payload := events[0].Payload.(unlock.RequestResolvedEvent)
	require.Equal(t, unlock.StatusApproved, payload.Status)
	require.Equal(t, "alice", payload.RequesterID)
}

// A single rejection kills the request no matter how many approvals it has:
// unanimity, not majority.
func TestVote_VetoSupremacy(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.requests.On("Get", ctx, "r1").Return(pendingRequest(3), nil)
	f.membership.On("IsParticipant", ctx, "s1", "dave").Return(true, nil)
	f.requests.On("RecordVote", ctx, mock.Anything).Return(2, 1, nil)
	f.requests.On("Resolve", ctx, "r1", unlock.StatusRejected, 2, mock.Anything).Return(true, nil)

	result, err := f.svc.Vote(ctx, "r1", "dave", unlock.DecisionReject)
	require.NoError(t, err)
	require.Equal(t, unlock.StatusRejected, result.Status)
	require.Equal(t, 2, result.ApproveCount)
	require.Equal(t, 1, result.RejectCount)

	events := f.publisher.published()
	require.Len(t, events, 1)
	require.Equal(t, unlock.StatusRejected, events[0].Payload.(unlock.RequestResolvedEvent).Status)
}

func TestVote_SelfVoteRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.requests.On("Get", ctx, "r1").Return(pendingRequest(2), nil)

	_, err := f.svc.Vote(ctx, "r1", "alice", unlock.DecisionApprove)
	require.ErrorIs(t, err, unlock.ErrSelfVote)
}

func TestVote_AlreadyResolved(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	resolved := pendingRequest(2)
	resolved.Status = unlock.StatusRejected
	f.requests.On("Get", ctx, "r1").Return(resolved, nil)

	_, err := f.svc.Vote(ctx, "r1", "bob", unlock.DecisionApprove)
	require.ErrorIs(t, err, unlock.ErrRequestResolved)
	f.requests.AssertNotCalled(t, "RecordVote", mock.Anything, mock.Anything)
}

func TestVote_DuplicateVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.requests.On("Get", ctx, "r1").Return(pendingRequest(2), nil)
	f.membership.On("IsParticipant", ctx, "s1", "bob").Return(true, nil)
	f.requests.On("RecordVote", ctx, mock.Anything).Return(0, 0, repository.ErrDuplicate)

	_, err := f.svc.Vote(ctx, "r1", "bob", unlock.DecisionApprove)
	require.ErrorIs(t, err, unlock.ErrAlreadyVoted)
}

func TestVote_InvalidDecision(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Vote(context.Background(), "r1", "bob", unlock.Decision("abstain"))
	require.ErrorIs(t, err, unlock.ErrInvalidDecision)
}

// The losing side of a resolution race reports the winner's status and never
// re-publishes the resolution.
func TestVote_ConcurrentResolutionLoserDoesNotRepublish(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.requests.On("Get", ctx, "r1").Return(pendingRequest(2), nil).Once()
	f.membership.On("IsParticipant", ctx, "s1", "carol").Return(true, nil)
	f.requests.On("RecordVote", ctx, mock.Anything).Return(2, 0, nil)
	f.requests.On("Resolve", ctx, "r1", unlock.StatusApproved, 2, mock.Anything).Return(false, nil)

	alreadyResolved := pendingRequest(2)
	alreadyResolved.Status = unlock.StatusApproved
	alreadyResolved.ApprovalsReceived = 2
	f.requests.On("Get", ctx, "r1").Return(alreadyResolved, nil)

	result, err := f.svc.Vote(ctx, "r1", "carol", unlock.DecisionApprove)
	require.NoError(t, err)
	require.Equal(t, unlock.StatusApproved, result.Status)
	require.Empty(t, f.publisher.published(), "losing writer must not broadcast")
}

// Broadcast failure never fails the vote: the durable write is authoritative
// and clients converge by polling.
func TestVote_BroadcastFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.publisher.fail = true

	f.requests.On("Get", ctx, "r1").Return(pendingRequest(1), nil)
	f.membership.On("IsParticipant", ctx, "s1", "bob").Return(true, nil)
	f.requests.On("RecordVote", ctx, mock.Anything).Return(1, 0, nil)
	f.requests.On("Resolve", ctx, "r1", unlock.StatusApproved, 1, mock.Anything).Return(true, nil)

	result, err := f.svc.Vote(ctx, "r1", "bob", unlock.DecisionApprove)
	require.NoError(t, err)
	require.Equal(t, unlock.StatusApproved, result.Status)
}

func TestRequestExit_BroadcastFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.publisher.fail = true

	f.membership.On("IsParticipant", ctx, "s1", "alice").Return(true, nil)
	f.membership.On("CurrentParticipantCount", ctx, "s1").Return(2, nil)
	f.requests.On("GetPendingByRequester", ctx, "s1", "alice").Return(nil, repository.ErrNotFound)
	f.requests.On("Create", ctx, mock.Anything).Return(nil)
	f.profiles.On("DisplayName", ctx, "alice").Return("Alice", nil)

	req, err := f.svc.RequestExit(ctx, "s1", "alice", "urgent")
	require.NoError(t, err)
	require.Equal(t, unlock.StatusPending, req.Status)
}

func TestGetRequest_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.requests.On("GetDetail", ctx, "missing").Return(nil, repository.ErrNotFound)

	_, err := f.svc.GetRequest(ctx, "missing")
	require.ErrorIs(t, err, unlock.ErrRequestNotFound)
}
