// Package output renders the dump artifact and run summaries.
package output

import (
	"fmt"
	"strings"

	"github.com/temirov/treedump/internal/types"
	"github.com/temirov/treedump/internal/utils"
)

const (
	summaryPrefix         = "Summary: "
	summarySeparator      = ", "
	unreadableLabelFormat = "%d unreadable"
	tokensLabelFormat     = "%d tokens (%s)"
)

// FormatSummaryLine describes a dump result in one line.
func FormatSummaryLine(result types.DumpResult) string {
	parts := []string{
		pluralize(result.Directories, "directory", "directories"),
		pluralize(result.Files, "file", "files"),
	}
	if result.FailedFiles > 0 {
		parts = append(parts, fmt.Sprintf(unreadableLabelFormat, result.FailedFiles))
	}
	parts = append(parts, utils.FormatFileSize(result.BytesWritten))
	return summaryPrefix + strings.Join(parts, summarySeparator)
}

// FormatTokenCount describes a token count for the given model.
func FormatTokenCount(tokens int, model string) string {
	return fmt.Sprintf(tokensLabelFormat, tokens, model)
}

func pluralize(count int, singular string, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
