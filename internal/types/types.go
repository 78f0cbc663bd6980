// Package types defines the cross-package data structures used by the treedump CLI.
package types

const (
	// DefaultOutputFile is the artifact written when no output path is configured.
	DefaultOutputFile = "file.txt"
	// DefaultRootDirectory is the directory dumped when no root argument is given.
	DefaultRootDirectory = "."
	// DefaultTokenizerModel is used when token counting is enabled without a model.
	DefaultTokenizerModel = "gpt-4o"
)

// DefaultIncludeExtensions returns the allow-list used when none is configured.
func DefaultIncludeExtensions() []string {
	return []string{".js", ".jsx"}
}

// DefaultExcludedDirectories returns the directory names pruned when none are configured.
func DefaultExcludedDirectories() []string {
	return []string{"node_modules"}
}

// DumpConfiguration describes a single dump run.
type DumpConfiguration struct {
	// RootDirectory is walked as given; its base name heads the artifact.
	RootDirectory string
	// OutputPath is created or truncated before the walk starts.
	OutputPath string
	// IncludeExtensions are matched case-sensitively and include the leading dot.
	IncludeExtensions []string
	// ExcludedDirectories are directory names pruned at any depth.
	ExcludedDirectories []string
}

// DumpResult summarizes what a dump run wrote.
type DumpResult struct {
	OutputPath   string
	Directories  int
	Files        int
	FailedFiles  int
	ContentLines int
	BytesWritten int64
}
