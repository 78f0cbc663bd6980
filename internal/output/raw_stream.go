package output

import (
	"bufio"
	"io"

	"github.com/temirov/treedump/internal/services/stream"
	"github.com/temirov/treedump/internal/types"
	"github.com/temirov/treedump/internal/utils"
)

const (
	branchMarker            = "|-"
	directorySuffix         = "/"
	fileIndentation         = "  "
	contentIndentation      = "    "
	readErrorPrefix         = "[Error reading file: "
	readErrorSuffix         = "]"
	lineTerminator          = "\n"
	unexpectedEventKindText = "unexpected event kind: "
)

// RawRenderer writes the indented tree-with-content artifact.
type RawRenderer struct {
	writer  *bufio.Writer
	counter *countingWriter
	result  types.DumpResult
	err     error
}

// NewRawRenderer returns a renderer that buffers its output to destination.
func NewRawRenderer(destination io.Writer) *RawRenderer {
	counter := &countingWriter{destination: destination}
	return &RawRenderer{
		writer:  bufio.NewWriter(counter),
		counter: counter,
	}
}

// Handle renders one event. The first write error is kept and returned by every later call.
func (renderer *RawRenderer) Handle(event stream.Event) error {
	if renderer.err != nil {
		return renderer.err
	}
	indentation := utils.Indentation(event.Depth)
	switch event.Kind {
	case stream.EventKindDirectory:
		renderer.result.Directories++
		renderer.writeLine(indentation, branchMarker, event.Name, directorySuffix)
	case stream.EventKindFile:
		renderer.result.Files++
		renderer.writeLine(indentation, fileIndentation, branchMarker, event.Name)
	case stream.EventKindLine:
		renderer.result.ContentLines++
		renderer.writeLine(indentation, contentIndentation, event.Line)
	case stream.EventKindFileError:
		renderer.result.FailedFiles++
		renderer.writeLine(indentation, contentIndentation, readErrorPrefix, event.ReadErr.Description(), readErrorSuffix)
	default:
		return &UnexpectedEventError{Kind: event.Kind}
	}
	return renderer.err
}

// Flush writes any buffered output to the destination.
func (renderer *RawRenderer) Flush() error {
	if renderer.err != nil {
		return renderer.err
	}
	renderer.err = renderer.writer.Flush()
	return renderer.err
}

// Result reports what has been rendered so far. BytesWritten counts only flushed bytes.
func (renderer *RawRenderer) Result() types.DumpResult {
	result := renderer.result
	result.BytesWritten = renderer.counter.written
	return result
}

func (renderer *RawRenderer) writeLine(parts ...string) {
	for _, part := range parts {
		if _, writeError := renderer.writer.WriteString(part); writeError != nil {
			renderer.err = writeError
			return
		}
	}
	if _, writeError := renderer.writer.WriteString(lineTerminator); writeError != nil {
		renderer.err = writeError
	}
}

// UnexpectedEventError reports an event the raw renderer does not know how to draw.
type UnexpectedEventError struct {
	Kind stream.EventKind
}

func (unexpected *UnexpectedEventError) Error() string {
	return unexpectedEventKindText + string(unexpected.Kind)
}

type countingWriter struct {
	destination io.Writer
	written     int64
}

func (writer *countingWriter) Write(data []byte) (int, error) {
	count, err := writer.destination.Write(data)
	writer.written += int64(count)
	return count, err
}

var _ StreamRenderer = (*RawRenderer)(nil)
