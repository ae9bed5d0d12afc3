package domain

import "github.com/cockroachdb/errors"

// Error taxonomy. Callers match with errors.Is; concrete errors are marked
// with one of these via errors.Mark.
var (
	ErrValidation       = errors.New("validation error")
	ErrConfiguration    = errors.New("server configuration error")
	ErrUpstreamDelivery = errors.New("upstream delivery failed")
	ErrNotFound         = errors.New("not found")
	ErrRateLimited      = errors.New("rate limited")
)
