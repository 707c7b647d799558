package auth

import "fmt"

// ValidationError reports a missing or malformed credential field. It is
// raised before any request leaves the client.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthError carries the backend's rejection message verbatim.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication rejected"
	}
	return e.Message
}

// NetworkError wraps a transport-level failure. Callers show a generic
// message rather than the wrapped detail.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProviderError reports a failed or cancelled OAuth consent flow.
type ProviderError struct {
	Stage string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("google login failed during %s: %v", e.Stage, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
