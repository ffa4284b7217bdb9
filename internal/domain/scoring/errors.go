package scoring

import "errors"

// Sentinel kinds for scoring errors. Both indicate a defect, not bad input.
var (
	ErrComputation     = errors.New("composite computation failed")
	ErrUnknownCategory = errors.New("unknown scoring category")
)
