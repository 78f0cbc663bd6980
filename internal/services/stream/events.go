package stream

import (
	"errors"
	"fmt"
)

// EventKind identifies what a traversal event describes.
type EventKind string

const (
	EventKindDirectory EventKind = "directory"
	EventKindFile      EventKind = "file"
	EventKindLine      EventKind = "line"
	EventKindFileError EventKind = "file_error"
)

// ErrInvalidEncoding reports file content that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

// Event is a single traversal step, delivered in output order.
type Event struct {
	Kind  EventKind
	Path  string
	Name  string
	Depth int
	// Line holds one content line for EventKindLine.
	Line string
	// ReadErr is set for EventKindFileError.
	ReadErr *FileReadError
}

// FileReadError describes a matched file whose content could not be opened or decoded.
type FileReadError struct {
	Path string
	Err  error
}

func (readError *FileReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", readError.Path, readError.Err)
}

func (readError *FileReadError) Unwrap() error {
	return readError.Err
}

// Description returns the underlying failure text used in artifact placeholders.
func (readError *FileReadError) Description() string {
	if readError == nil || readError.Err == nil {
		return ""
	}
	return readError.Err.Error()
}
