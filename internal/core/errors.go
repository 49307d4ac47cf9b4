package core

import "errors"

// ErrInvalidConfig reports simulation parameters that cannot produce a valid
// run: non-positive dimensions or counts, or a dirty percentage outside
// [0, 100]. Construction fails outright; a partially built model is never
// returned.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrOutOfBounds reports a grid query outside [0,W) x [0,H). Agents are only
// ever moved to clipped in-bounds neighbors, so hitting this indicates a
// programming error rather than a recoverable condition.
var ErrOutOfBounds = errors.New("coordinates out of bounds")
