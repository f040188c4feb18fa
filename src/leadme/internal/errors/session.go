package errors

import "fmt"

// ProvisionError indicates that the remote session record could not be fully created.
type ProvisionError struct {
	ClassCode string
	Err       error
}

// Error is an implementation of the error interface.
func (n *ProvisionError) Error() string {
	return fmt.Sprintf("provisioning class %q: %v", n.ClassCode, n.Err)
}

// Unwrap returns the underlying cause.
func (n *ProvisionError) Unwrap() error {
	return n.Err
}
