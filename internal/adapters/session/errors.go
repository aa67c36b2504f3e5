package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotLoggedIn   = errors.New("session: not logged in")
	ErrFrameTooLarge = errors.New("session: frame exceeds size limit")
	ErrRecvTimeout   = errors.New("session: timed out waiting for reply")
	ErrClosed        = errors.New("session: connection closed by server")
)

// TransportError is a connection-level failure. It is fatal for the
// in-flight operation and is never retried by the session.
type TransportError struct {
	Op   string
	Addr string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("session %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
