package model

import "time"

// ImportStatus is the status string reported by the destination import API.
type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusDetecting ImportStatus = "detecting"
	ImportStatusImporting ImportStatus = "importing"
	ImportStatusMapping   ImportStatus = "mapping"
	ImportStatusPushing   ImportStatus = "pushing"
	ImportStatusComplete  ImportStatus = "complete"
	ImportStatusError     ImportStatus = "error"

	ImportStatusAuthFailed             ImportStatus = "auth_failed"
	ImportStatusDetectionNeedsAuth     ImportStatus = "detection_needs_auth"
	ImportStatusDetectionFoundNothing  ImportStatus = "detection_found_nothing"
	ImportStatusDetectionFoundMultiple ImportStatus = "detection_found_multiple"
)

// Terminal reports whether the import job will not change status again.
func (s ImportStatus) Terminal() bool {
	switch s {
	case ImportStatusComplete,
		ImportStatusError,
		ImportStatusAuthFailed,
		ImportStatusDetectionFoundNothing,
		ImportStatusDetectionFoundMultiple:
		return true
	}
	return false
}

// ImportJob tracks one server-side import for the duration of a poll loop.
type ImportJob struct {
	Status    ImportStatus
	StartedAt time.Time
}

// ImportRequest is submitted to start a history import.
type ImportRequest struct {
	VCS         string
	VCSURL      string
	VCSUsername string
	VCSPassword string
	TFVCProject string
}
