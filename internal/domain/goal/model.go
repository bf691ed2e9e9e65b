package goal

import "time"

// Goal is one focus goal a participant sets for a session.
type Goal struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"goal_text"`
	Completed bool      `json:"is_completed"`
	CreatedAt time.Time `json:"created_at"`
}
