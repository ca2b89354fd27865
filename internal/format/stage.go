package format

import "github.com/spiffcs/bbmigrate/internal/model"

// Stage markers used in front of outcome rows. Renderers apply color.
const (
	DoneIcon    = "✓"
	SkippedIcon = "↷"
	FailedIcon  = "✗"
	PlannedIcon = "·"
)

// StageIcon returns the marker for where a repository's migration ended.
func StageIcon(stage model.Stage) string {
	switch {
	case stage == model.StageFinalized:
		return DoneIcon
	case stage == model.StageFailed:
		return FailedIcon
	case stage.Skipped():
		return SkippedIcon
	default:
		return PlannedIcon
	}
}

// StageLabel returns a short human description of a stage.
func StageLabel(stage model.Stage) string {
	switch stage {
	case model.StageListed:
		return "listed"
	case model.StageProvisioned:
		return "created"
	case model.StageImported:
		return "imported"
	case model.StagePullRequestsPorted:
		return "PRs ported"
	case model.StageFinalized:
		return "migrated"
	case model.StageSkippedAtProvision:
		return "skipped (create)"
	case model.StageSkippedAtImport:
		return "skipped (import)"
	case model.StageFailed:
		return "failed"
	}
	return string(stage)
}
