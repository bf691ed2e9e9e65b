package unlock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cofocus/focusd/internal/event"
	"github.com/cofocus/focusd/internal/repository"
	"github.com/google/uuid"
)

// Service decides, by unanimous-minus-requester approval, whether a
// participant may leave an in-progress session early. The durable store is
// the source of truth; the session channel only cuts polling latency.
type Service struct {
	requests   RequestRepository
	membership MembershipDirectory
	profiles   ProfileDirectory
	events     EventPublisher
	logger     *slog.Logger
}

// NewService creates a new unlock service.
func NewService(
	requests RequestRepository,
	membership MembershipDirectory,
	profiles ProfileDirectory,
	events EventPublisher,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		requests:   requests,
		membership: membership,
		profiles:   profiles,
		events:     events,
		logger:     logger,
	}
}

// RequestExit opens an exit request for requesterID in the session. When the
// requester is the only participant the result is immediately approved with
// nothing persisted or broadcast: there is nobody left to ask.
func (s *Service) RequestExit(ctx context.Context, sessionID, requesterID, reason string) (*ExitRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrNoReason
	}

	member, err := s.membership.IsParticipant(ctx, sessionID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if !member {
		return nil, ErrNotParticipant
	}

	count, err := s.membership.CurrentParticipantCount(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("counting participants: %w", err)
	}
	if count <= 1 {
		now := time.Now()
		return &ExitRequest{
			SessionID:   sessionID,
			RequesterID: requesterID,
			Reason:      reason,
			Status:      StatusApproved,
			CreatedAt:   now,
			ResolvedAt:  &now,
		}, nil
	}

	if _, err := s.requests.GetPendingByRequester(ctx, sessionID, requesterID); err == nil {
		return nil, ErrAlreadyPending
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking pending request: %w", err)
	}

	req := &ExitRequest{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		RequesterID:     requesterID,
		Reason:          reason,
		ApprovalsNeeded: count - 1,
		Status:          StatusPending,
		CreatedAt:       time.Now(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("creating exit request: %w", err)
	}

	s.publish(req.SessionID, event.Event{
		Name: EventRequestCreated,
		Payload: RequestCreatedEvent{
			RequestID:     req.ID,
			RequesterID:   req.RequesterID,
			RequesterName: s.displayName(ctx, req.RequesterID),
			Reason:        req.Reason,
		},
	})

	return req, nil
}

// Vote records voterID's decision and evaluates the transition rule against a
// fresh count of all stored votes. A single rejection resolves the request to
// rejected regardless of accumulated approvals; approvals resolve it only
// once every non-requester participant counted at creation time has approved.
func (s *Service) Vote(ctx context.Context, requestID, voterID string, decision Decision) (*VoteResult, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, ErrInvalidDecision
	}

	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("loading exit request: %w", err)
	}
	if req.Resolved() {
		return nil, ErrRequestResolved
	}
	if voterID == req.RequesterID {
		return nil, ErrSelfVote
	}

	member, err := s.membership.IsParticipant(ctx, req.SessionID, voterID)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if !member {
		return nil, ErrNotParticipant
	}

	approveCount, rejectCount, err := s.requests.RecordVote(ctx, &Vote{
		RequestID: requestID,
		VoterID:   voterID,
		Decision:  decision,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyVoted
		}
		return nil, fmt.Errorf("recording vote: %w", err)
	}

	status := evaluate(req.ApprovalsNeeded, approveCount, rejectCount)
	if status == StatusPending {
		return &VoteResult{Status: StatusPending, ApproveCount: approveCount, RejectCount: rejectCount}, nil
	}

	won, err := s.requests.Resolve(ctx, requestID, status, approveCount, time.Now())
	if err != nil {
		return nil, fmt.Errorf("resolving exit request: %w", err)
	}
	if !won {
		// A concurrent vote resolved the request first. Report whatever
		// terminal status it persisted; do not broadcast again.
		current, err := s.requests.Get(ctx, requestID)
		if err != nil {
			return nil, fmt.Errorf("reloading exit request: %w", err)
		}
		return &VoteResult{Status: current.Status, ApproveCount: approveCount, RejectCount: rejectCount}, nil
	}

	s.publish(req.SessionID, event.Event{
		Name: EventRequestResolved,
		Payload: RequestResolvedEvent{
			RequestID:   req.ID,
			RequesterID: req.RequesterID,
			Status:      status,
			Reason:      req.Reason,
		},
	})

	return &VoteResult{Status: status, ApproveCount: approveCount, RejectCount: rejectCount}, nil
}

// GetRequest returns a request with its votes. This is the authoritative read
// clients use to reconcile after missed broadcasts.
func (s *Service) GetRequest(ctx context.Context, requestID string) (*RequestDetail, error) {
	detail, err := s.requests.GetDetail(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("loading exit request: %w", err)
	}
	return detail, nil
}

// PendingRequests returns all open requests in a session, newest first.
func (s *Service) PendingRequests(ctx context.Context, sessionID string) ([]RequestDetail, error) {
	return s.requests.ListPending(ctx, sessionID)
}

// evaluate applies the transition rule. Rejection wins over any number of
// approvals: this is unanimity voting, not majority.
func evaluate(approvalsNeeded, approveCount, rejectCount int) Status {
	if rejectCount >= 1 {
		return StatusRejected
	}
	if approveCount >= approvalsNeeded {
		return StatusApproved
	}
	return StatusPending
}

func (s *Service) publish(sessionID string, evt event.Event) {
	if err := s.events.Publish(event.SessionTopic(sessionID), evt); err != nil {
		// The durable write already happened; clients converge by polling.
		s.logger.Warn("broadcast failed", "session", sessionID, "event", evt.Name, "error", err)
	}
}

func (s *Service) displayName(ctx context.Context, userID string) string {
	name, err := s.profiles.DisplayName(ctx, userID)
	if err != nil {
		s.logger.Warn("resolving display name", "user", userID, "error", err)
		return ""
	}
	return name
}
