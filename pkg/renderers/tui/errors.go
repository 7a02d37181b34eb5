package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidSelection is returned when the driver reports an index outside
	// the offered choices.
	ErrInvalidSelection = errors.New("tui: selection out of range")
)
