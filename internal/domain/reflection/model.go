package reflection

import "time"

// Reflection is what a participant writes when a session ends, or when they
// exit early through an approved unlock request.
type Reflection struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Text       string    `json:"reflection_text"`
	EarlyExit  bool      `json:"early_exit"`
	ExitReason string    `json:"exit_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
