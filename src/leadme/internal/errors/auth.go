package errors

import (
	stderr "errors"
	"fmt"
)

const _authFallback = "An error has occurred. Please contact support and give them this error code: "

var _authMessages = map[string]string{
	"auth/email-already-exists": "This email is already in use. Try signing in instead.",
	"auth/id-token-expired":     "Your login session has expired. Please logout and try again",
	"auth/id-token-revoked":     "Your login session has expired. Please logout and try again",
	"auth/invalid-id-token":     "Your login session has expired. Please logout and try again",
	"auth/invalid-email":        "This email is invalid. Please check your email address and try again.",
	"auth/user-mismatch":        "This email is invalid. Please check your email address and try again.",
	"auth/invalid-password":     "This password is invalid. Please check that it is at least 6 characters.",
	"auth/user-not-found":       "No account was found for these login details. Please check your details and try again.",
	"auth/wrong-password":       "This password does not match the login details for this account. Please try again.",
	"auth/too-many-requests":    "Too many attempts have been made to login to this account. Please reset your password or try again later.",
}

// AuthMessage returns the user-facing message for an authentication error code.
func AuthMessage(code string) string {
	if msg, ok := _authMessages[code]; ok {
		return msg
	}
	return _authFallback + code
}

// AuthError indicates that the remote store rejected the leader's credentials.
type AuthError struct {
	Code   string
	Detail string
}

// Error is an implementation of the error interface.
func (n *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%s): %s", n.Code, n.Detail)
}

// Message returns the user-facing message for the error.
func (n *AuthError) Message() string {
	return AuthMessage(n.Code)
}

// AuthCode returns the code and true if AuthError is part of the error chain.
func AuthCode(e error) (_ string, ok bool) {
	var ae *AuthError
	if !stderr.As(e, &ae) {
		return "", false
	}
	return ae.Code, true
}
