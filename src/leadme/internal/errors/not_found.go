package errors

import (
	stderr "errors"
	"fmt"
)

// FollowerNotFoundError indicates that a follower is not present in the local roster.
type FollowerNotFoundError struct {
	Type string
	ID   string
}

// Error is an implementation of the error interface.
func (n *FollowerNotFoundError) Error() string {
	return fmt.Sprintf("%s follower %q not found", n.Type, n.ID)
}

// NotFoundFollower returns the follower id and true if FollowerNotFoundError is part of the
// error chain.
func NotFoundFollower(e error) (_ string, ok bool) {
	var nf *FollowerNotFoundError
	if !stderr.As(e, &nf) {
		return "", false
	}
	return nf.ID, true
}

// NoActiveSessionError indicates that no class session is currently running.
type NoActiveSessionError struct{}

// Error is an implementation of the error interface.
func (n *NoActiveSessionError) Error() string {
	return "no active class session"
}

// SessionActiveError indicates that a class session is already running.
type SessionActiveError struct {
	ClassCode string
}

// Error is an implementation of the error interface.
func (n *SessionActiveError) Error() string {
	return fmt.Sprintf("class session %q is already active", n.ClassCode)
}
