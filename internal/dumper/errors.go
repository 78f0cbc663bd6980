package dumper

import "errors"

var (
	// ErrOutput marks failures to create, write, flush or close the artifact. They abort the dump.
	ErrOutput = errors.New("output file")
	// ErrRoot marks a root directory that is missing, not a directory or not listable.
	ErrRoot = errors.New("root directory")
	// ErrConfiguration marks an incomplete dump configuration.
	ErrConfiguration = errors.New("dump configuration")
)

const (
	errorMissingRootMessage   = "root directory is not set"
	errorMissingOutputMessage = "output path is not set"
	errorRootStatFormat       = "%w %s: %w"
	errorRootNotDirFormat     = "%w %s: not a directory"
	errorCreateOutputFormat   = "%w: creating %s: %w"
	errorWriteOutputFormat    = "%w: writing %s: %w"
	errorCloseOutputFormat    = "%w: closing %s: %w"
	errorWalkRootFormat       = "%w: %w"
	errorConfigurationFormat  = "%w: %s"
)
