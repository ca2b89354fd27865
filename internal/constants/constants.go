// Package constants provides a centralized location for the configuration
// defaults and magic numbers used throughout bbmigrate.
package constants

import "time"

// Import polling constants
const (
	// ImportPollInterval is the wait between two import status fetches.
	ImportPollInterval = 10 * time.Second

	// ImportTimeout is the wall-clock budget for one repository import.
	// Imports still running after this are reported as incomplete.
	ImportTimeout = 30 * time.Minute
)

// Source platform constants
const (
	// BitbucketAPIURL is the Bitbucket Cloud REST API root.
	BitbucketAPIURL = "https://api.bitbucket.org/2.0"

	// BitbucketCloneHost is the host used in clone URLs handed to the
	// destination importer.
	BitbucketCloneHost = "bitbucket.org"

	// DefaultPageSize is the number of items requested per page. Bitbucket
	// caps repository pages at 100.
	DefaultPageSize = 100

	// DefaultLabelSource is the pull request property namespace labels are
	// read from.
	DefaultLabelSource = "openjdk"
)

// Destination platform constants
const (
	// TeamPermission is granted to the configured team on each new
	// organization repository.
	TeamPermission = "admin"

	// ImportVCS is the version control system passed to the import API.
	ImportVCS = "git"

	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100
)

// HTTP constants
const (
	// HTTPTimeout bounds a single API round-trip.
	HTTPTimeout = 60 * time.Second
)
