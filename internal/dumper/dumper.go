// Package dumper writes a directory tree and the content of matching files into one artifact.
package dumper

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/treedump/internal/output"
	"github.com/temirov/treedump/internal/services/stream"
	"github.com/temirov/treedump/internal/types"
	"github.com/temirov/treedump/internal/utils"
)

// Dumper runs dumps and reports traversal warnings to its logger.
type Dumper struct {
	logger *zap.Logger
}

// New returns a Dumper. A nil logger discards warnings.
func New(logger *zap.Logger) *Dumper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dumper{logger: logger}
}

// Dump truncates configuration.OutputPath and writes the tree of configuration.RootDirectory into it.
// Files that cannot be read are recorded inline and do not fail the dump. Errors wrap ErrRoot,
// ErrOutput or ErrConfiguration.
func (dumper *Dumper) Dump(configuration types.DumpConfiguration) (types.DumpResult, error) {
	if configuration.RootDirectory == "" {
		return types.DumpResult{}, fmt.Errorf(errorConfigurationFormat, ErrConfiguration, errorMissingRootMessage)
	}
	if configuration.OutputPath == "" {
		return types.DumpResult{}, fmt.Errorf(errorConfigurationFormat, ErrConfiguration, errorMissingOutputMessage)
	}
	if rootError := validateRoot(configuration.RootDirectory); rootError != nil {
		return types.DumpResult{}, rootError
	}

	// #nosec G304
	outputFile, createError := os.Create(configuration.OutputPath)
	if createError != nil {
		return types.DumpResult{}, fmt.Errorf(errorCreateOutputFormat, ErrOutput, configuration.OutputPath, createError)
	}

	renderer := output.NewRawRenderer(outputFile)
	walkOptions := stream.WalkOptions{
		Root:                configuration.RootDirectory,
		IncludeExtensions:   utils.DeduplicatePatterns(configuration.IncludeExtensions),
		ExcludedDirectories: utils.DeduplicatePatterns(configuration.ExcludedDirectories),
		SkipPaths:           []string{configuration.OutputPath},
		Warn: func(message string) {
			dumper.logger.Warn(message)
		},
	}
	handle := func(event stream.Event) error {
		if renderError := renderer.Handle(event); renderError != nil {
			return fmt.Errorf(errorWriteOutputFormat, ErrOutput, configuration.OutputPath, renderError)
		}
		return nil
	}

	walkError := stream.Walk(walkOptions, handle)
	flushError := renderer.Flush()
	closeError := outputFile.Close()

	result := renderer.Result()
	result.OutputPath = configuration.OutputPath

	switch {
	case walkError != nil && errors.Is(walkError, ErrOutput):
		return result, walkError
	case walkError != nil:
		return result, fmt.Errorf(errorWalkRootFormat, ErrRoot, walkError)
	case flushError != nil:
		return result, fmt.Errorf(errorWriteOutputFormat, ErrOutput, configuration.OutputPath, flushError)
	case closeError != nil:
		return result, fmt.Errorf(errorCloseOutputFormat, ErrOutput, configuration.OutputPath, closeError)
	}
	return result, nil
}

// validateRoot confirms the root exists, is a directory and can be opened before the artifact is touched.
func validateRoot(rootDirectory string) error {
	rootHandle, openError := os.Open(rootDirectory)
	if openError != nil {
		return fmt.Errorf(errorRootStatFormat, ErrRoot, rootDirectory, openError)
	}
	defer rootHandle.Close()

	rootInfo, statError := rootHandle.Stat()
	if statError != nil {
		return fmt.Errorf(errorRootStatFormat, ErrRoot, rootDirectory, statError)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf(errorRootNotDirFormat, ErrRoot, rootDirectory)
	}
	return nil
}
