// Package stream walks a directory tree and reports the dump in output order.
package stream

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/temirov/treedump/internal/utils"
)

const (
	errorNilHandlerMessage   = "stream: event handler is nil"
	errorEmptyRootMessage    = "stream: root path is empty"
	errorReadRootFormat      = "reading root directory %s: %w"
	warningSkipSubdirFormat  = "skipping directory %s: %v"
	warningSkipSymlinkFormat = "skipping symlinked directory %s"
)

// WalkOptions configures a traversal.
type WalkOptions struct {
	Root                string
	IncludeExtensions   []string
	ExcludedDirectories []string
	// SkipPaths are files that are never listed, compared by absolute path.
	SkipPaths []string
	Warn      func(message string)
}

// Handler consumes events. Returning an error stops the walk.
type Handler func(Event) error

type walker struct {
	root       string
	extensions map[string]struct{}
	excluded   map[string]struct{}
	skipped    map[string]struct{}
	warn       func(message string)
	handle     Handler
}

// Walk performs a pre-order traversal of options.Root. For each directory it emits a
// directory event, then a file event with line events (or a file error event) for every
// allowed file, then recurses into subdirectories whose names are not excluded.
// Entries are visited in name order. Only a failure to list the root or a handler error
// stops the walk; unreadable subdirectories are reported through Warn and skipped.
func Walk(options WalkOptions, handle Handler) error {
	if handle == nil {
		return errors.New(errorNilHandlerMessage)
	}
	if options.Root == "" {
		return errors.New(errorEmptyRootMessage)
	}

	traversal := &walker{
		root:       options.Root,
		extensions: utils.StringSet(options.IncludeExtensions),
		excluded:   utils.StringSet(options.ExcludedDirectories),
		skipped:    make(map[string]struct{}, len(options.SkipPaths)),
		warn:       options.Warn,
		handle:     handle,
	}
	if traversal.warn == nil {
		traversal.warn = func(string) {}
	}
	for _, skipPath := range options.SkipPaths {
		if absolutePath, absError := filepath.Abs(skipPath); absError == nil {
			traversal.skipped[absolutePath] = struct{}{}
		}
	}

	rootEntries, readError := os.ReadDir(options.Root)
	if readError != nil {
		return fmt.Errorf(errorReadRootFormat, options.Root, readError)
	}
	return traversal.visitDirectory(options.Root, rootEntries)
}

func (traversal *walker) visitDirectory(directoryPath string, entries []os.DirEntry) error {
	depth := utils.DirectoryDepth(directoryPath, traversal.root)
	if err := traversal.handle(Event{
		Kind:  EventKindDirectory,
		Path:  directoryPath,
		Name:  filepath.Base(directoryPath),
		Depth: depth,
	}); err != nil {
		return err
	}

	var subdirectories []string
	for _, entry := range entries {
		entryPath := filepath.Join(directoryPath, entry.Name())
		if entry.IsDir() {
			if _, excluded := traversal.excluded[entry.Name()]; !excluded {
				subdirectories = append(subdirectories, entryPath)
			}
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 && isDirectory(entryPath) {
			traversal.warn(fmt.Sprintf(warningSkipSymlinkFormat, entryPath))
			continue
		}
		if err := traversal.visitFile(entryPath, entry.Name(), depth); err != nil {
			return err
		}
	}

	for _, subdirectoryPath := range subdirectories {
		childEntries, readError := os.ReadDir(subdirectoryPath)
		if readError != nil {
			traversal.warn(fmt.Sprintf(warningSkipSubdirFormat, subdirectoryPath, readError))
			continue
		}
		if err := traversal.visitDirectory(subdirectoryPath, childEntries); err != nil {
			return err
		}
	}
	return nil
}

func (traversal *walker) visitFile(filePath string, fileName string, depth int) error {
	if _, allowed := traversal.extensions[utils.FileExtension(fileName)]; !allowed {
		return nil
	}
	if traversal.isSkipped(filePath) {
		return nil
	}

	if err := traversal.handle(Event{Kind: EventKindFile, Path: filePath, Name: fileName, Depth: depth}); err != nil {
		return err
	}

	lines, readError := ReadContentLines(filePath)
	if readError != nil {
		var fileReadError *FileReadError
		if !errors.As(readError, &fileReadError) {
			fileReadError = &FileReadError{Path: filePath, Err: readError}
		}
		return traversal.handle(Event{Kind: EventKindFileError, Path: filePath, Name: fileName, Depth: depth, ReadErr: fileReadError})
	}
	for _, line := range lines {
		if err := traversal.handle(Event{Kind: EventKindLine, Path: filePath, Name: fileName, Depth: depth, Line: line}); err != nil {
			return err
		}
	}
	return nil
}

func (traversal *walker) isSkipped(filePath string) bool {
	if len(traversal.skipped) == 0 {
		return false
	}
	absolutePath, absError := filepath.Abs(filePath)
	if absError != nil {
		return false
	}
	_, skipped := traversal.skipped[absolutePath]
	return skipped
}

func isDirectory(path string) bool {
	info, statError := os.Stat(path)
	return statError == nil && info.IsDir()
}

// ReadContentLines reads the file at path as UTF-8 text and splits it into lines.
// Open, read and decode failures are returned as *FileReadError.
//
// #nosec G304
func ReadContentLines(path string) ([]string, error) {
	data, readError := os.ReadFile(path)
	if readError != nil {
		return nil, &FileReadError{Path: path, Err: readError}
	}
	if !utf8.Valid(data) {
		return nil, &FileReadError{Path: path, Err: ErrInvalidEncoding}
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits content on \n, \r\n and \r. A single trailing line break
// does not produce a final empty line, and empty content yields no lines.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.TrimSuffix(normalized, "\n")
	return strings.Split(normalized, "\n")
}
