package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/bbmigrate/internal/format"
	"github.com/spiffcs/bbmigrate/internal/model"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

// Format outputs the summary as a Markdown report
func (f *MarkdownFormatter) Format(summary model.Summary, w io.Writer) error {
	title := "# Migration Report"
	if summary.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w)

	succeeded, skipped, failed := summary.Counts()
	fmt.Fprintf(w, "- **Migrated:** %d\n", succeeded)
	fmt.Fprintf(w, "- **Skipped:** %d\n", skipped)
	fmt.Fprintf(w, "- **Failed:** %d\n", failed)
	if summary.Fatal != "" {
		fmt.Fprintf(w, "\n> **Run stopped:** %s\n", escapeMarkdown(summary.Fatal))
	}

	if len(summary.Outcomes) == 0 {
		fmt.Fprintln(w, "\nNo repositories processed.")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Source | Destination | Stage | Pull requests | Duration | Reason |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, o := range summary.Outcomes {
		fmt.Fprintf(w, "| %s | %s | %s %s | %s | %s | %s |\n",
			escapeMarkdown(o.Target.SourceName),
			escapeMarkdown(o.Target.DestinationName),
			format.StageIcon(o.Stage),
			format.StageLabel(o.Stage),
			pullRequestCell(o),
			format.Elapsed(o.Duration),
			escapeMarkdown(o.Reason),
		)
	}
	return nil
}

// escapeMarkdown keeps table cells on one row.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
