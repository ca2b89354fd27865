package bitbucket

import "encoding/json"

// page is the envelope Bitbucket Cloud wraps every paginated response in.
type page[T any] struct {
	Values  []T    `json:"values"`
	Page    int    `json:"page"`
	PageLen int    `json:"pagelen"`
	Size    int    `json:"size"`
	Next    string `json:"next"`
}

type bitbucketBranchRef struct {
	Name string `json:"name"`
}

type bitbucketProject struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type bitbucketRepository struct {
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	FullName    string              `json:"full_name"`
	Description string              `json:"description"`
	IsPrivate   bool                `json:"is_private"`
	MainBranch  *bitbucketBranchRef `json:"mainbranch"`
	Project     *bitbucketProject   `json:"project"`
}

type bitbucketEndpoint struct {
	Branch bitbucketBranchRef `json:"branch"`
}

type bitbucketPullRequest struct {
	ID          int                        `json:"id"`
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	State       string                     `json:"state"`
	Source      bitbucketEndpoint          `json:"source"`
	Destination bitbucketEndpoint          `json:"destination"`
	Properties  map[string]json.RawMessage `json:"properties"`
}

// labelProperty is the shape of a pull request property namespace that
// carries labels: properties.<namespace>.labels.values.
type labelProperty struct {
	Labels struct {
		Values []string `json:"values"`
	} `json:"labels"`
}

type bitbucketUser struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type bitbucketError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
