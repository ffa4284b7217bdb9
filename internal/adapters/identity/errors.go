package identity

import "errors"

// Sentinel kinds for identity errors.
var (
	ErrNoProfile = errors.New("no profile for uuid")
	ErrUpstream  = errors.New("profile lookup failed")
)
