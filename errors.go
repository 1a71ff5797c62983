package sympa

import (
	"errors"
	"fmt"

	"github.com/dcu/sympa/internal/soap"
)

// Sentinel errors for common failure modes.
var (
	ErrNoBaseURL       = errors.New("sympa: no base URL configured")
	ErrInvalidArgument = errors.New("sympa: invalid argument")
	ErrAuthentication  = errors.New("sympa: authentication failed")
	ErrSchemaDrift     = errors.New("sympa: unexpected field in response")
)

// Fault is a fault reported by the Sympa SOAP service. Remote faults are
// returned unchanged, so callers can match them with errors.As.
type Fault = soap.Fault

// HTTPError is returned when the service answers with an error status and no
// SOAP fault.
type HTTPError = soap.HTTPError

// ArgumentError is returned before any network call when an argument falls
// outside the values the service accepts.
type ArgumentError struct {
	Argument string
	Value    string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("sympa: invalid %s %q: %s", e.Argument, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// AuthenticationError indicates that a login could not be confirmed.
type AuthenticationError struct {
	Email string
	// Identity is what the service associated with the new session, if anything.
	Identity string
	Err      error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sympa: authentication failed for %s: %v", e.Email, e.Err)
	}
	return fmt.Sprintf("sympa: authentication failed for %s: session belongs to %q", e.Email, e.Identity)
}

// Is makes errors.Is(err, ErrAuthentication) match.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// SchemaError reports a response field outside the known vocabulary.
type SchemaError struct {
	Operation string
	Field     string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sympa: unexpected field %q in %s response", e.Field, e.Operation)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaDrift
}

// CreateListError wraps a fault raised while creating a list.
type CreateListError struct {
	List string
	Err  error
}

func (e *CreateListError) Error() string {
	return fmt.Sprintf("sympa: could not create list %q, maybe a list with this name already exists: %v", e.List, e.Err)
}

func (e *CreateListError) Unwrap() error {
	return e.Err
}
