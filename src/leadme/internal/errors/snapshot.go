package errors

import (
	stderr "errors"
	"fmt"
)

// MalformedSnapshotError indicates that a remote value could not be mapped into the local model.
type MalformedSnapshotError struct {
	Key    string
	Reason string
}

// Error is an implementation of the error interface.
func (n *MalformedSnapshotError) Error() string {
	return fmt.Sprintf("malformed snapshot %q: %s", n.Key, n.Reason)
}

// IsMalformedSnapshot reports whether MalformedSnapshotError is part of the error chain.
func IsMalformedSnapshot(e error) bool {
	var ms *MalformedSnapshotError
	return stderr.As(e, &ms)
}
