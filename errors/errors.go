package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrValidation means the username or room was empty after normalization.
	ErrValidation = fmt.Errorf("username and room are required")
	// ErrNameTaken means another active connection already holds the same
	// normalized (username, room) pair.
	ErrNameTaken = fmt.Errorf("username is in use")
	// ErrNotJoined means the connection attempted an operation before a
	// successful join, or after leaving.
	ErrNotJoined = fmt.Errorf("this user does not exist")
	// ErrAlreadyJoined means the connection tried to join twice without
	// disconnecting in between.
	ErrAlreadyJoined = fmt.Errorf("already joined a room")
	// ErrProfanity means moderation rejected the message content.
	ErrProfanity = fmt.Errorf("profanity is not allowed")

	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")
)

// ClientMessage maps a router error to the string delivered on the ack
// channel of the originating connection. Unknown errors are not leaked.
func ClientMessage(err error) string {
	switch {
	case stderrors.Is(err, ErrValidation):
		return "Username and room are required!"
	case stderrors.Is(err, ErrNameTaken):
		return "Username is in use!"
	case stderrors.Is(err, ErrNotJoined):
		return "This user does not exist!"
	case stderrors.Is(err, ErrAlreadyJoined):
		return "You have already joined a room!"
	case stderrors.Is(err, ErrProfanity):
		return "Profanity is not allowed!"
	default:
		return "Something went wrong!"
	}
}
