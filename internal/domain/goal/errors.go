package goal

import "errors"

var (
	// ErrGoalNotFound indicates the goal doesn't exist.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrNotOwner indicates a toggle attempt on someone else's goal.
	ErrNotOwner = errors.New("goal belongs to another participant")
	// ErrInvalidInput indicates empty or invalid goal input.
	ErrInvalidInput = errors.New("invalid goal input")
)
