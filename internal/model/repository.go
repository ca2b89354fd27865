// Package model defines the data types shared by the migration pipeline.
package model

// RepositoryDescriptor describes one repository listed from the source
// workspace. Empty strings stand for values the source did not provide.
type RepositoryDescriptor struct {
	Name          string
	Slug          string
	DefaultBranch string
	ProjectName   string
	Description   string
}

// RepoSlug returns the identifier used to address the repository on the
// source platform, falling back to the display name.
func (r RepositoryDescriptor) RepoSlug() string {
	if r.Slug != "" {
		return r.Slug
	}
	return r.Name
}

// MigrationTarget is the destination-side identity derived from a
// RepositoryDescriptor.
type MigrationTarget struct {
	SourceName      string `json:"source_name"`
	DestinationName string `json:"destination_name"`
	DefaultBranch   string `json:"default_branch,omitempty"`
	Topic           string `json:"topic,omitempty"`
}

// CreateRepositoryRequest carries the settings applied when a destination
// repository is created.
type CreateRepositoryRequest struct {
	Organization  string // empty for user-owned repositories
	Name          string
	Private       bool
	DefaultBranch string
	Description   string
}
