// Package output renders a migration summary.
package output

import (
	"fmt"
	"io"

	"github.com/spiffcs/bbmigrate/internal/model"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name. An empty name selects the table.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatMarkdown:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (valid: table, json, markdown)", s)
}

// Formatter defines the interface for output formatters
type Formatter interface {
	Format(summary model.Summary, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// pullRequestCell renders ported/failed pull request counts.
func pullRequestCell(o model.MigrationOutcome) string {
	if !o.Imported {
		return "-"
	}
	if o.PullRequestsFailed == 0 {
		return fmt.Sprintf("%d", o.PullRequestsPorted)
	}
	return fmt.Sprintf("%d (%d failed)", o.PullRequestsPorted, o.PullRequestsFailed)
}
