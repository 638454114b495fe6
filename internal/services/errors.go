package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes with errors.Is; everything else is a 500.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the caller is not allowed to act on the resource
	ErrForbidden = errors.New("operation not permitted")

	// ErrInvalidRange indicates a date range where check-out does not
	// come strictly after check-in, or a date that failed to parse
	ErrInvalidRange = errors.New("invalid date range")

	// ErrUnavailable indicates the property has a confirmed booking
	// overlapping the requested dates
	ErrUnavailable = errors.New("property not available for the requested dates")

	// ErrAlreadyPaid indicates a checkout attempt against a booking that
	// is already confirmed or paid
	ErrAlreadyPaid = errors.New("booking already paid")

	// ErrEmailTaken indicates a registration attempt with an email that
	// already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed login. The same error is
	// returned for unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAlreadyReviewed indicates the user already reviewed this property
	ErrAlreadyReviewed = errors.New("property already reviewed by this user")
)

// UpstreamError wraps a failure from the payment provider or another
// external dependency. Handlers map it to 502 so callers can distinguish
// provider outages from our own faults.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure during %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err is (or wraps) an UpstreamError
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
