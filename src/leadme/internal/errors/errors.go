package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoClassCodeError reports that an operation needs an active class code.
	NoClassCodeError = New("no active class code")
	// UnknownFollowerTypeError reports a follower discriminant outside the supported set.
	UnknownFollowerTypeError = New("unknown follower type")
	// NoFollowerIDError reports that the request is missing a follower id.
	NoFollowerIDError = New("follower id is required")
	// UnknownActionError reports an envelope type outside the message protocol.
	UnknownActionError = New("unknown action")
)

// IsBadRequest reports whether the error is a bad request from the caller.
func IsBadRequest(e error) bool {
	return stderr.Is(e, UnknownFollowerTypeError) || stderr.Is(e, NoFollowerIDError) || stderr.Is(e, UnknownActionError)
}
