package extraction

import "fmt"

// AuthError indicates no API credential could be resolved from the explicit
// argument or the environment.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// TransportError indicates the remote model call failed at the network or
// HTTP layer. It is surfaced to the caller unmodified; no retry is attempted.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calling model API: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
