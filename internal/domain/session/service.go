package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/cofocus/focusd/internal/event"
	"github.com/cofocus/focusd/internal/repository"
	"github.com/google/uuid"
)

// Characters that survive being read aloud: no I/O/0/1.
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const inviteCodeLength = 6

// Service handles session lifecycle and membership.
type Service struct {
	sessions     SessionRepository
	participants ParticipantRepository
	events       EventPublisher
	logger       *slog.Logger
}

// NewService creates a new session service.
func NewService(
	sessions SessionRepository,
	participants ParticipantRepository,
	events EventPublisher,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:     sessions,
		participants: participants,
		events:       events,
		logger:       logger,
	}
}

// Create creates a session in the lobby state with the host auto-joined.
func (s *Service) Create(ctx context.Context, hostID string, req CreateRequest) (*Session, error) {
	if strings.TrimSpace(req.Name) == "" || req.WorkMinutes <= 0 {
		return nil, ErrInvalidInput
	}
	if req.Mode == "" {
		req.Mode = ModeUninterrupted
	}
	if req.Mode != ModeUninterrupted && req.Mode != ModePomodoro {
		return nil, ErrInvalidInput
	}

	code := req.InviteCode
	if code == "" {
		generated, err := generateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("generating invite code: %w", err)
		}
		code = generated
	}

	now := time.Now()
	sess := &Session{
		ID:                uuid.NewString(),
		HostID:            hostID,
		Name:              strings.TrimSpace(req.Name),
		Public:            req.Public,
		Mode:              req.Mode,
		WorkMinutes:       req.WorkMinutes,
		ShortBreakMinutes: req.ShortBreakMinutes,
		LongBreakMinutes:  req.LongBreakMinutes,
		Status:            StatusPending,
		InviteCode:        code,
		CreatedAt:         now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	// The host counts as a participant from the start, so guest-visible
	// data (goals, quorum) includes them.
	if err := s.participants.Upsert(ctx, &Participant{
		SessionID: sess.ID,
		UserID:    hostID,
		JoinedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("joining host: %w", err)
	}

	return sess, nil
}

// Get returns a session by ID.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// GetByInviteCode returns a session by its invite code.
func (s *Service) GetByInviteCode(ctx context.Context, code string) (*Session, error) {
	sess, err := s.sessions.GetByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// ListPublic returns joinable public sessions.
func (s *Service) ListPublic(ctx context.Context) ([]Session, error) {
	return s.sessions.ListPublic(ctx)
}

// ListHosted returns sessions hosted by the user.
func (s *Service) ListHosted(ctx context.Context, hostID string) ([]Session, error) {
	return s.sessions.ListHosted(ctx, hostID)
}

// Start moves a session from the lobby into progress. Host only.
func (s *Service) Start(ctx context.Context, sessionID, callerID string) (*Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.HostID != callerID {
		return nil, ErrNotHost
	}
	if sess.Status != StatusPending {
		return nil, ErrInvalidState
	}

	now := time.Now()
	sess.Status = StatusInProgress
	sess.StartedAt = &now
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}

	s.publish(sessionID, event.Event{
		Name:    EventSessionStart,
		Payload: SessionStartEvent{SessionID: sessionID, StartedAt: now},
	})
	return sess, nil
}

// End finishes a session. Host only.
func (s *Service) End(ctx context.Context, sessionID, callerID string) (*Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.HostID != callerID {
		return nil, ErrNotHost
	}
	if sess.Status == StatusEnded {
		return sess, nil
	}
	if err := s.end(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Join adds the user to the session. Rejoining refreshes the membership row.
func (s *Service) Join(ctx context.Context, sessionID, userID string) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status == StatusEnded {
		return ErrSessionEnded
	}

	if err := s.participants.Upsert(ctx, &Participant{
		SessionID: sessionID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}); err != nil {
		return fmt.Errorf("joining session: %w", err)
	}

	s.publish(sessionID, event.Event{
		Name:    EventParticipantChange,
		Payload: ParticipantChangeEvent{UserID: userID, Action: "joined"},
	})
	return nil
}

// JoinByInviteCode resolves the code and joins the session.
func (s *Service) JoinByInviteCode(ctx context.Context, code, userID string) (*Session, error) {
	sess, err := s.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.Join(ctx, sess.ID, userID); err != nil {
		return nil, err
	}
	return sess, nil
}

// Leave removes the user from the session. A departing host ends the session
// for everyone; an emptied session is force-ended. A pending exit request's
// quorum is NOT recomputed here: approvals_needed stays frozen at its
// creation-time value.
func (s *Service) Leave(ctx context.Context, sessionID, userID string) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.participants.Remove(ctx, sessionID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotParticipant
		}
		return fmt.Errorf("leaving session: %w", err)
	}

	s.publish(sessionID, event.Event{
		Name:    EventParticipantChange,
		Payload: ParticipantChangeEvent{UserID: userID, Action: "left"},
	})

	if sess.Status == StatusEnded {
		return nil
	}

	remaining, err := s.participants.Count(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("counting participants: %w", err)
	}
	if userID == sess.HostID || remaining == 0 {
		if err := s.end(ctx, sess); err != nil {
			return err
		}
	}
	return nil
}

// SetReady flips the lobby ready flag for the user.
func (s *Service) SetReady(ctx context.Context, sessionID, userID string, ready bool) error {
	if err := s.participants.SetReady(ctx, sessionID, userID, ready); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotParticipant
		}
		return fmt.Errorf("updating readiness: %w", err)
	}

	s.publish(sessionID, event.Event{
		Name:    EventParticipantChange,
		Payload: ParticipantChangeEvent{UserID: userID, Action: "ready", Ready: ready},
	})
	return nil
}

// Participants returns the session's current members.
func (s *Service) Participants(ctx context.Context, sessionID string) ([]Participant, error) {
	return s.participants.List(ctx, sessionID)
}

// CurrentParticipantCount returns how many users are joined right now.
func (s *Service) CurrentParticipantCount(ctx context.Context, sessionID string) (int, error) {
	return s.participants.Count(ctx, sessionID)
}

// IsParticipant reports whether the user is joined to the session.
func (s *Service) IsParticipant(ctx context.Context, sessionID, userID string) (bool, error) {
	return s.participants.Exists(ctx, sessionID, userID)
}

func (s *Service) end(ctx context.Context, sess *Session) error {
	now := time.Now()
	sess.Status = StatusEnded
	sess.EndedAt = &now
	if err := s.sessions.Update(ctx, sess); err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return nil
}

func (s *Service) publish(sessionID string, evt event.Event) {
	if err := s.events.Publish(event.SessionTopic(sessionID), evt); err != nil {
		s.logger.Warn("broadcast failed", "session", sessionID, "event", evt.Name, "error", err)
	}
}

func generateInviteCode() (string, error) {
	out := make([]byte, inviteCodeLength)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(out), nil
}
