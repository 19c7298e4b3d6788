package perftest

import "errors"

var (
	// ErrInvalidArgument is returned when an option cannot be parsed or is out of range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDirectoryConflict is returned when the output directory already exists.
	ErrDirectoryConflict = errors.New("output directory already exists")
	// ErrConfiguration is returned when options are individually valid but cannot be combined.
	ErrConfiguration = errors.New("configuration error")
)
