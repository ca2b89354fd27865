package migrate

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable wraps failures to read from the source platform.
	ErrSourceUnavailable = errors.New("source platform unavailable")

	// ErrImportIncomplete marks an import that ended in a non-success
	// terminal status or ran out of time.
	ErrImportIncomplete = errors.New("import incomplete")

	// ErrPort wraps failures to create or label a single pull request.
	ErrPort = errors.New("pull request port failed")
)

// ProvisionError is returned when the destination repository could not be
// created. The driver skips the repository and continues.
type ProvisionError struct {
	Repository string
	Err        error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision %s: %v", e.Repository, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}
