package event

import "errors"

var (
	ErrEventDoesNotExist  = errors.New("event does not exist")
	ErrInvalidTitle       = errors.New("event title must not be empty")
	ErrInvalidScheduledAt = errors.New("event time must be set with minute precision")
	ErrConcurrentUpdate   = errors.New("events were modified concurrently")
)
