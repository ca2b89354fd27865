package model

// PullRequestRecord is a pull request read from the source platform.
type PullRequestRecord struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	SourceBranch      string   `json:"source_branch"`
	DestinationBranch string   `json:"destination_branch"`
	Labels            []string `json:"labels,omitempty"`
}

// NewPullRequest is the payload used to open a destination pull request.
type NewPullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
}

// PullRequestResult records how porting a single pull request went.
type PullRequestResult struct {
	Source PullRequestRecord
	Number int   // destination number, zero when creation failed
	Err    error // nil on success
}
