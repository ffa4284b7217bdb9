package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNilLoader = errors.New("cache loader is nil")
)
