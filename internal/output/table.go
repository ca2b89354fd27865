package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/spiffcs/bbmigrate/internal/format"
	"github.com/spiffcs/bbmigrate/internal/model"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	// Width is the terminal width. Zero means detect it from stdout.
	Width int
}

// Column widths
const (
	colIcon     = 1
	colSource   = 28
	colDest     = 32
	colStage    = 16
	colPRs      = 14
	colDuration = 7
	minReason   = 20
)

func (f *TableFormatter) width() int {
	if f.Width > 0 {
		return f.Width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 120
}

// Format outputs the summary as a table
func (f *TableFormatter) Format(summary model.Summary, w io.Writer) error {
	if len(summary.Outcomes) == 0 {
		fmt.Fprintln(w, "No repositories processed.")
		printFooter(summary, w)
		return nil
	}

	fixed := colIcon + colSource + colDest + colStage + colPRs + colDuration + 12
	colReason := max(f.width()-fixed, minReason)

	fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s  %s\n",
		strings.Repeat(" ", colIcon),
		format.Cell("Source", colSource),
		format.Cell("Destination", colDest),
		format.Cell("Stage", colStage),
		format.Cell("Pull requests", colPRs),
		format.Cell("Time", colDuration),
		"Reason")
	fmt.Fprintln(w, strings.Repeat("-", fixed+len("Reason")))

	for _, o := range summary.Outcomes {
		fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s  %s\n",
			colorStage(o.Stage, format.StageIcon(o.Stage)),
			format.Cell(o.Target.SourceName, colSource),
			format.Cell(o.Target.DestinationName, colDest),
			colorStage(o.Stage, format.Cell(format.StageLabel(o.Stage), colStage)),
			format.Cell(pullRequestCell(o), colPRs),
			format.Cell(format.Elapsed(o.Duration), colDuration),
			format.Truncate(o.Reason, colReason),
		)
	}

	printFooter(summary, w)
	return nil
}

// colorStage colors text by how the repository's migration ended.
func colorStage(stage model.Stage, text string) string {
	switch {
	case stage == model.StageFinalized:
		return color.GreenString("%s", text)
	case stage == model.StageFailed:
		return color.RedString("%s", text)
	case stage.Skipped():
		return color.YellowString("%s", text)
	}
	return text
}

// printFooter prints the totals and the fatal error, if any.
func printFooter(summary model.Summary, w io.Writer) {
	succeeded, skipped, failed := summary.Counts()

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("━", 60))

	label := "migrated"
	if summary.DryRun {
		label = "planned (dry run)"
	}
	fmt.Fprintf(w, "  %s %d %s\n", color.GreenString(format.DoneIcon), succeeded, label)
	if skipped > 0 {
		fmt.Fprintf(w, "  %s %d skipped\n", color.YellowString(format.SkippedIcon), skipped)
	}
	if failed > 0 {
		fmt.Fprintf(w, "  %s %s failed\n", color.RedString(format.FailedIcon), color.RedString("%d", failed))
	}
	if summary.Fatal != "" {
		fmt.Fprintf(w, "\n  %s %s\n", color.RedString("Run stopped:"), summary.Fatal)
	}
}
