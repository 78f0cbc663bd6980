// Package utils contains general helper functions used across treedump.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".treedump.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".treedump"
	// GlobalConfigFileName is the name of the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// NodeModulesDirectoryName is the directory pruned by default.
	NodeModulesDirectoryName = "node_modules"

	extensionSeparator = "."
)

// DeduplicatePatterns removes duplicate values from a slice while preserving order.
// Blank values are dropped. The first occurrence of each unique value is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// StringSet builds a lookup set from the provided values.
func StringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)

	if cleanPath == cleanRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return relativePath
}

// DirectoryDepth returns how many levels directoryPath lies below rootPath.
// The root itself has depth 0 and each path separator in the relative path adds one level.
func DirectoryDepth(directoryPath, rootPath string) int {
	relativePath := RelativePathOrSelf(directoryPath, rootPath)
	if relativePath == "." {
		return 0
	}
	return strings.Count(relativePath, string(os.PathSeparator)) + 1
}

// FileExtension returns the suffix of fileName starting at its last dot.
// Leading dots belong to the name, so ".eslintrc" has no extension.
func FileExtension(fileName string) string {
	trimmedName := strings.TrimLeft(fileName, extensionSeparator)
	separatorIndex := strings.LastIndex(trimmedName, extensionSeparator)
	if separatorIndex < 0 {
		return ""
	}
	return trimmedName[separatorIndex:]
}

// Indentation returns the two-space indentation for the provided depth.
func Indentation(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("  ", depth)
}
