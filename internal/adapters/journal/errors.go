package journal

import "errors"

// Sentinel kinds for journal errors.
var (
	ErrNoPath = errors.New("journal path not set")
	ErrLoad   = errors.New("snapshot load failed")
	ErrFlush  = errors.New("snapshot flush failed")
)
