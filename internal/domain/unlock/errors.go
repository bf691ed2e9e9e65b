package unlock

import "errors"

var (
	// ErrNoReason indicates an exit request without a reason.
	ErrNoReason = errors.New("no reason provided")
	// ErrNotParticipant indicates the caller is not in the session.
	ErrNotParticipant = errors.New("not a session participant")
	// ErrAlreadyPending indicates the requester already has an open request.
	ErrAlreadyPending = errors.New("exit request already pending")
	// ErrRequestNotFound indicates the request doesn't exist.
	ErrRequestNotFound = errors.New("exit request not found")
	// ErrRequestResolved indicates a vote on an already-decided request.
	ErrRequestResolved = errors.New("exit request already resolved")
	// ErrSelfVote indicates a requester voting on their own request.
	ErrSelfVote = errors.New("cannot vote on own exit request")
	// ErrAlreadyVoted indicates a second vote from the same voter.
	ErrAlreadyVoted = errors.New("already voted on this request")
	// ErrInvalidDecision indicates a vote that is neither approve nor reject.
	ErrInvalidDecision = errors.New("invalid vote decision")
)
