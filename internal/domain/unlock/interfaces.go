package unlock

import (
	"context"
	"time"

	"github.com/cofocus/focusd/internal/event"
)

// RequestRepository provides persistence for exit requests and votes.
type RequestRepository interface {
	Create(ctx context.Context, req *ExitRequest) error
	Get(ctx context.Context, id string) (*ExitRequest, error)
	GetDetail(ctx context.Context, id string) (*RequestDetail, error)
	// GetPendingByRequester returns the requester's open request in the
	// session, or repository.ErrNotFound when none exists.
	GetPendingByRequester(ctx context.Context, sessionID, requesterID string) (*ExitRequest, error)
	ListPending(ctx context.Context, sessionID string) ([]RequestDetail, error)
	// RecordVote inserts the vote and recounts all stored votes for the
	// request within a single transaction, so the counts reflect every vote
	// committed before this one. A duplicate (request, voter) pair yields
	// repository.ErrDuplicate.
	RecordVote(ctx context.Context, v *Vote) (approveCount, rejectCount int, err error)
	// Resolve transitions the request to a terminal status only if it is
	// still pending, and reports whether this call performed the transition.
	Resolve(ctx context.Context, id string, status Status, approvalsReceived int, resolvedAt time.Time) (bool, error)
}

// MembershipDirectory answers who currently counts as a participant. Quorum
// size is read from here once, at request-creation time.
type MembershipDirectory interface {
	CurrentParticipantCount(ctx context.Context, sessionID string) (int, error)
	IsParticipant(ctx context.Context, sessionID, userID string) (bool, error)
}

// ProfileDirectory resolves display names for event payloads.
type ProfileDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// EventPublisher broadcasts on the session channel. Delivery is best-effort;
// publish failures must never fail the surrounding operation.
type EventPublisher interface {
	Publish(topic string, evt event.Event) error
}
