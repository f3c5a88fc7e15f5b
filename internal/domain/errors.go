package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrMalformedRecord     = errors.New("malformed upstream record")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrUpstreamTimeout     = errors.New("upstream timed out")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrRateLimited         = errors.New("rate limited")
)
