package unlock

import "time"

// Status represents the lifecycle status of an exit request
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Decision is one voter's verdict on an exit request
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ExitRequest is a participant's ask to leave an in-progress session early.
// ApprovalsNeeded is fixed at creation time (participant count minus the
// requester) and is never recomputed when membership changes afterwards.
type ExitRequest struct {
	ID                string     `json:"id"`
	SessionID         string     `json:"session_id"`
	RequesterID       string     `json:"requester_id"`
	Reason            string     `json:"reason"`
	ApprovalsNeeded   int        `json:"approvals_needed"`
	ApprovalsReceived int        `json:"approvals_received"`
	Status            Status     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
}

// Resolved reports whether the request has reached a terminal status.
func (r *ExitRequest) Resolved() bool {
	return r.Status != StatusPending
}

// Vote is one participant's decision on one request. At most one vote exists
// per (request, voter) pair.
type Vote struct {
	RequestID string    `json:"request_id"`
	VoterID   string    `json:"voter_id"`
	Decision  Decision  `json:"decision"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestDetail is an exit request together with its requester's display name
// and recorded votes, as served to polling clients.
type RequestDetail struct {
	ExitRequest
	RequesterName string `json:"requester_name"`
	Votes         []Vote `json:"votes"`
}

// VoteResult describes the request state after a vote was recorded.
type VoteResult struct {
	Status       Status `json:"status"`
	ApproveCount int    `json:"approve_count"`
	RejectCount  int    `json:"reject_count"`
}

// RequestCreatedEvent is broadcast on the session channel when a new exit
// request opens, so connected clients can prompt their users to vote.
type RequestCreatedEvent struct {
	RequestID     string `json:"request_id"`
	RequesterID   string `json:"requester_id"`
	RequesterName string `json:"requester_name"`
	Reason        string `json:"reason"`
}

// RequestResolvedEvent is broadcast once when a request reaches a terminal
// status. It is advisory only; clients reconcile via GetRequest on reconnect.
type RequestResolvedEvent struct {
	RequestID   string `json:"request_id"`
	RequesterID string `json:"requester_id"`
	Status      Status `json:"status"`
	Reason      string `json:"reason"`
}

// Event names published on the session channel.
const (
	EventRequestCreated  = "unlock_request"
	EventRequestResolved = "unlock_resolved"
)
