package session

import "time"

// Status represents the lifecycle status of a session
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusEnded      Status = "ended"
)

// Mode selects how session time is segmented
type Mode string

const (
	ModeUninterrupted Mode = "uninterrupted"
	ModePomodoro      Mode = "pomodoro"
)

// Session is one timed co-focus activity with a host and participants.
type Session struct {
	ID                string     `json:"id"`
	HostID            string     `json:"host_id"`
	Name              string     `json:"name"`
	Public            bool       `json:"is_public"`
	Mode              Mode       `json:"mode"`
	WorkMinutes       int        `json:"work_minutes"`
	ShortBreakMinutes *int       `json:"short_break_minutes,omitempty"`
	LongBreakMinutes  *int       `json:"long_break_minutes,omitempty"`
	Status            Status     `json:"status"`
	InviteCode        string     `json:"invite_code"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
}

// Participant is a user currently joined to a session.
type Participant struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Ready       bool      `json:"is_ready"`
	JoinedAt    time.Time `json:"joined_at"`
}

// CreateRequest describes a new session.
type CreateRequest struct {
	Name              string `json:"name"`
	Public            bool   `json:"is_public"`
	Mode              Mode   `json:"mode"`
	WorkMinutes       int    `json:"work_minutes"`
	ShortBreakMinutes *int   `json:"short_break_minutes,omitempty"`
	LongBreakMinutes  *int   `json:"long_break_minutes,omitempty"`
	InviteCode        string `json:"invite_code,omitempty"`
}

// ParticipantChangeEvent is broadcast when membership or readiness changes.
type ParticipantChangeEvent struct {
	UserID string `json:"user_id"`
	Action string `json:"action"` // "joined", "left", "ready"
	Ready  bool   `json:"is_ready,omitempty"`
}

// SessionStartEvent is broadcast when the host starts the session.
type SessionStartEvent struct {
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

// Event names published on the session channel.
const (
	EventParticipantChange = "participant_change"
	EventSessionStart      = "session_start"
)
