package session

import "errors"

var (
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotHost indicates a host-only transition attempted by a guest.
	ErrNotHost = errors.New("only the host may do this")
	// ErrInvalidState indicates a lifecycle transition from the wrong status.
	ErrInvalidState = errors.New("invalid session state for this operation")
	// ErrNotParticipant indicates the caller is not joined to the session.
	ErrNotParticipant = errors.New("not a session participant")
	// ErrSessionEnded indicates an attempt to join a finished session.
	ErrSessionEnded = errors.New("session has ended")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
)
