package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/bbmigrate/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// JSONOutput wraps the outcomes with totals for JSON output
type JSONOutput struct {
	Outcomes  []model.MigrationOutcome `json:"outcomes"`
	Succeeded int                      `json:"succeeded"`
	Skipped   int                      `json:"skipped"`
	Failed    int                      `json:"failed"`
	Fatal     string                   `json:"fatal,omitempty"`
	DryRun    bool                     `json:"dry_run,omitempty"`
}

// Format outputs the summary as JSON
func (f *JSONFormatter) Format(summary model.Summary, w io.Writer) error {
	succeeded, skipped, failed := summary.Counts()
	out := JSONOutput{
		Outcomes:  summary.Outcomes,
		Succeeded: succeeded,
		Skipped:   skipped,
		Failed:    failed,
		Fatal:     summary.Fatal,
		DryRun:    summary.DryRun,
	}
	if out.Outcomes == nil {
		out.Outcomes = []model.MigrationOutcome{}
	}

	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}
