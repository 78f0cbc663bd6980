package output

import (
	"github.com/temirov/treedump/internal/services/stream"
)

// StreamRenderer consumes traversal events and writes them to its destination.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}
