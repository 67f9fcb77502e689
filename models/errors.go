package models

import "errors"

// Error taxonomy shared by every layer. Callers match with errors.Is.
var (
	// ErrConfigInvalid means the API credential is missing, a placeholder or malformed
	ErrConfigInvalid = errors.New("configuration invalid")

	ErrLocationUnavailable = errors.New("location unavailable")
	ErrEmptyQuery          = errors.New("empty location query")
	ErrNotFound            = errors.New("location not found")

	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrUpstream     = errors.New("upstream error")
	ErrNetwork      = errors.New("network error")

	// ErrDataMalformed marks a payload that could not be decoded
	ErrDataMalformed = errors.New("malformed data")
)
