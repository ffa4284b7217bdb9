package decode

import "errors"

// Sentinel kinds for decode errors.
var (
	ErrMissingIdentity = errors.New("document has no player identity")
	ErrMalformed       = errors.New("malformed document")
)
