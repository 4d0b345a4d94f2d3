package polls

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// status codes; anything else is a 500.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not the poll owner")
	ErrNotFound        = errors.New("poll not found")
)
