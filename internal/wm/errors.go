package wm

import "errors"

var (
	// ErrNotFound is returned when a command references an unknown window
	// or tag.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for out-of-range values and malformed
	// action strings.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConfigInvalid wraps configuration validation failures. They are
	// reported, never fatal.
	ErrConfigInvalid = errors.New("config invalid")
	// ErrSpawnFailed is returned when an external process cannot be started.
	ErrSpawnFailed = errors.New("spawn failed")
)
