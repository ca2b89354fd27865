package model

import "time"

// Stage is a state of the per-repository migration state machine.
type Stage string

const (
	StageListed             Stage = "listed"
	StageProvisioned        Stage = "provisioned"
	StageImported           Stage = "imported"
	StagePullRequestsPorted Stage = "pull_requests_ported"
	StageFinalized          Stage = "finalized"
	StageSkippedAtProvision Stage = "skipped_at_provision"
	StageSkippedAtImport    Stage = "skipped_at_import"
	StageFailed             Stage = "failed"
)

// Skipped reports whether the stage is one of the recoverable skip states.
func (s Stage) Skipped() bool {
	return s == StageSkippedAtProvision || s == StageSkippedAtImport
}

// MigrationOutcome is what the driver knows about one repository once it
// stops working on it.
type MigrationOutcome struct {
	Target             MigrationTarget `json:"target"`
	Created            bool            `json:"created"`
	Imported           bool            `json:"imported"`
	PullRequestsPorted int             `json:"pull_requests_ported"`
	PullRequestsFailed int             `json:"pull_requests_failed"`
	Stage              Stage           `json:"stage"`
	Reason             string          `json:"reason,omitempty"`
	Duration           time.Duration   `json:"duration"`
}

// Summary aggregates the outcomes of a run.
type Summary struct {
	Outcomes []MigrationOutcome `json:"outcomes"`
	Fatal    string             `json:"fatal,omitempty"`
	DryRun   bool               `json:"dry_run,omitempty"`
}

// Counts returns how many repositories finished, were skipped, or failed.
func (s Summary) Counts() (succeeded, skipped, failed int) {
	for _, o := range s.Outcomes {
		switch {
		case o.Stage == StageFailed:
			failed++
		case o.Stage.Skipped():
			skipped++
		default:
			succeeded++
		}
	}
	return succeeded, skipped, failed
}
