package stream_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treedump/internal/services/stream"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func collectEvents(t *testing.T, options stream.WalkOptions) []stream.Event {
	t.Helper()
	var events []stream.Event
	err := stream.Walk(options, func(event stream.Event) error {
		events = append(events, event)
		return nil
	})
	require.NoError(t, err)
	return events
}

type eventSummary struct {
	Kind  stream.EventKind
	Name  string
	Depth int
	Line  string
}

func summarize(events []stream.Event) []eventSummary {
	summaries := make([]eventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, eventSummary{Kind: event.Kind, Name: event.Name, Depth: event.Depth, Line: event.Line})
	}
	return summaries
}

func TestWalkEmitsPreOrderEvents(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.js"), "x\ny")
	writeFile(t, filepath.Join(root, "b.txt"), "z")
	writeFile(t, filepath.Join(root, "src", "c.jsx"), "component\n")
	writeFile(t, filepath.Join(root, "src", "lib", "d.js"), "")

	events := collectEvents(t, stream.WalkOptions{
		Root:                root,
		IncludeExtensions:   []string{".js", ".jsx"},
		ExcludedDirectories: []string{"node_modules"},
	})

	rootName := filepath.Base(root)
	expected := []eventSummary{
		{Kind: stream.EventKindDirectory, Name: rootName, Depth: 0},
		{Kind: stream.EventKindFile, Name: "a.js", Depth: 0},
		{Kind: stream.EventKindLine, Name: "a.js", Depth: 0, Line: "x"},
		{Kind: stream.EventKindLine, Name: "a.js", Depth: 0, Line: "y"},
		{Kind: stream.EventKindDirectory, Name: "src", Depth: 1},
		{Kind: stream.EventKindFile, Name: "c.jsx", Depth: 1},
		{Kind: stream.EventKindLine, Name: "c.jsx", Depth: 1, Line: "component"},
		{Kind: stream.EventKindDirectory, Name: "lib", Depth: 2},
		{Kind: stream.EventKindFile, Name: "d.js", Depth: 2},
	}
	require.Equal(t, expected, summarize(events))
}

func TestWalkPrunesExcludedDirectoriesAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "c.js"), "top")
	writeFile(t, filepath.Join(root, "pkg", "node_modules", "inner", "e.js"), "deep")
	writeFile(t, filepath.Join(root, "pkg", "index.js"), "kept")

	events := collectEvents(t, stream.WalkOptions{
		Root:                root,
		IncludeExtensions:   []string{".js"},
		ExcludedDirectories: []string{"node_modules"},
	})

	for _, event := range events {
		require.NotEqual(t, "node_modules", event.Name)
		require.NotContains(t, event.Path, "node_modules")
	}
	require.Equal(t, []eventSummary{
		{Kind: stream.EventKindDirectory, Name: filepath.Base(root), Depth: 0},
		{Kind: stream.EventKindDirectory, Name: "pkg", Depth: 1},
		{Kind: stream.EventKindFile, Name: "index.js", Depth: 1},
		{Kind: stream.EventKindLine, Name: "index.js", Depth: 1, Line: "kept"},
	}, summarize(events))
}

func TestWalkReportsUndecodableContentAsFileError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bad.js"), "\xff\xfe\x00")
	writeFile(t, filepath.Join(root, "good.js"), "ok")

	events := collectEvents(t, stream.WalkOptions{Root: root, IncludeExtensions: []string{".js"}})

	require.Len(t, events, 5)
	require.Equal(t, stream.EventKindFile, events[1].Kind)
	require.Equal(t, stream.EventKindFileError, events[2].Kind)
	require.NotNil(t, events[2].ReadErr)
	require.ErrorIs(t, events[2].ReadErr, stream.ErrInvalidEncoding)
	require.Equal(t, "good.js", events[3].Name)
	require.Equal(t, "ok", events[4].Line)
}

func TestWalkSkipsConfiguredPaths(t *testing.T) {
	root := t.TempDir()
	artifactPath := filepath.Join(root, "dump.js")
	writeFile(t, artifactPath, "previous dump")
	writeFile(t, filepath.Join(root, "app.js"), "app")

	events := collectEvents(t, stream.WalkOptions{
		Root:              root,
		IncludeExtensions: []string{".js"},
		SkipPaths:         []string{artifactPath},
	})

	for _, event := range events {
		require.NotEqual(t, "dump.js", event.Name)
	}
	require.Len(t, events, 3)
}

func TestWalkWarnsAndSkipsUnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "secret.js"), "hidden")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var warnings []string
	events := collectEvents(t, stream.WalkOptions{
		Root:              root,
		IncludeExtensions: []string{".js"},
		Warn:              func(message string) { warnings = append(warnings, message) },
	})

	require.Len(t, events, 1)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], locked)
}

func TestWalkSkipsSymlinkedDirectories(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "linked.js"), "linked")
	if err := os.Symlink(target, filepath.Join(root, "link.js")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	events := collectEvents(t, stream.WalkOptions{Root: root, IncludeExtensions: []string{".js"}})

	require.Len(t, events, 1)
	require.Equal(t, stream.EventKindDirectory, events[0].Kind)
}

func TestWalkStopsOnHandlerError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.js"), "x")
	sentinel := errors.New("stop")

	calls := 0
	err := stream.Walk(stream.WalkOptions{Root: root, IncludeExtensions: []string{".js"}}, func(stream.Event) error {
		calls++
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 1, calls)
}

func TestWalkFailsForMissingRoot(t *testing.T) {
	err := stream.Walk(stream.WalkOptions{Root: filepath.Join(t.TempDir(), "missing")}, func(stream.Event) error { return nil })
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadContentLinesMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.js")
	lines, err := stream.ReadContentLines(missing)
	require.Nil(t, lines)

	var readError *stream.FileReadError
	require.ErrorAs(t, err, &readError)
	require.Equal(t, missing, readError.Path)
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Contains(t, readError.Description(), "no such file")
}

func TestSplitLines(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected []string
	}{
		{name: "empty", content: "", expected: nil},
		{name: "single line", content: "x", expected: []string{"x"}},
		{name: "trailing newline", content: "x\ny\n", expected: []string{"x", "y"}},
		{name: "blank line preserved", content: "x\n\ny", expected: []string{"x", "", "y"}},
		{name: "only newline", content: "\n", expected: []string{""}},
		{name: "crlf", content: "x\r\ny\r\n", expected: []string{"x", "y"}},
		{name: "bare carriage return", content: "x\ry", expected: []string{"x", "y"}},
		{name: "double trailing newline", content: "x\n\n", expected: []string{"x", ""}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, stream.SplitLines(testCase.content))
		})
	}
}
