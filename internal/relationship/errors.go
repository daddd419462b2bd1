package relationship

import "errors"

var (
	// ErrAlreadyFriends rejects a response on a pair that is already mutual friends.
	ErrAlreadyFriends = errors.New("already friends")

	// ErrAlreadyNotFriends rejects a response on a pair the counterpart has closed.
	ErrAlreadyNotFriends = errors.New("already not friends")

	// ErrTargetNotFound means the target user does not exist.
	ErrTargetNotFound = errors.New("target user not found")

	// ErrSelfTarget rejects responding to yourself.
	ErrSelfTarget = errors.New("cannot respond to yourself")

	// ErrInvalidState flags an edge combination the state machine does not
	// define, e.g. a one-sided "friends". Surfaced distinctly so operators
	// can spot ledger corruption instead of it being coerced into a valid
	// transition.
	ErrInvalidState = errors.New("relationship in unexpected state")
)
