package match

import "errors"

var (
	// ErrDuplicateUser is returned when a user joins a room they are already in.
	ErrDuplicateUser = errors.New("user already in room")

	// ErrUserNotFound is returned when an operation targets a user that is not
	// a member of the room.
	ErrUserNotFound = errors.New("user not in room")
)

// InvalidStateError rejects a user request that is not valid for the active
// ruleset or room state. It is always raised before any mutation, so a
// rejected request leaves the room exactly as it was.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return "invalid state: " + e.Reason
}

func invalidState(reason string) error {
	return &InvalidStateError{Reason: reason}
}
