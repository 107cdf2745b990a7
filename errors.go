package gifdecoder

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is returned when the byte source could not be read.
	ErrIO = errors.New("gif: read failure")

	// ErrInvalidData indicates malformed or unsupported container structure.
	ErrInvalidData = errors.New("gif: invalid data")

	// ErrLZW indicates that an image's compressed pixel stream is corrupt.
	ErrLZW = errors.New("gif: lzw decode failure")

	// ErrTooLarge is returned when Options.MaxPixels is exceeded.
	ErrTooLarge = errors.New("gif: image too large")
)

// FormatError describes a structural mismatch found while parsing.
// It matches ErrInvalidData with errors.Is.
type FormatError struct {
	Stage  string // grammar element being parsed, e.g. "image descriptor"
	Offset int    // byte offset into the input where the mismatch was found
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("gif: invalid data: %s at offset %d: %s", e.Stage, e.Offset, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidData
}

func formatError(stage string, offset int, format string, args ...interface{}) error {
	return &FormatError{Stage: stage, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func lzwError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrLZW, fmt.Sprintf(format, args...))
}

func invalidData(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}
