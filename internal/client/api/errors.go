package api

import "errors"

var (
	// ErrNetwork marks a request that could not complete.
	ErrNetwork = errors.New("network error")
)
