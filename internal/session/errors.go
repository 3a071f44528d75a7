package session

import "errors"

var (
	// ErrNoActiveSession is returned for segment or complete events on a
	// connection that never started a session (or already completed it).
	ErrNoActiveSession = errors.New("no active caption session for this connection")

	// ErrDuplicateSession is returned when start is called while a session
	// is still open on the same connection. The prior session is left
	// untouched; the caller must complete or disconnect first.
	ErrDuplicateSession = errors.New("a caption session is already active for this connection")
)
