package github

import (
	"time"

	rterrors "github.com/sphinx-toolbox/reftitle/pkg/errors"
)

// Issue holds the resolved metadata for a GitHub issue or pull request.
// This is the shape stored in the cache; FetchedAt records when the data
// was retrieved from the API.
type Issue struct {
	Repository string    `json:"repository"` // "owner/name"
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	State      string    `json:"state"` // "open" or "closed"
	HTMLURL    string    `json:"html_url"`
	IsPull     bool      `json:"is_pull"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// apiIssueResponse is the GitHub API response structure for
// GET /repos/{owner}/{repo}/issues/{number}.
type apiIssueResponse struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	State       string `json:"state"`
	HTMLURL     string `json:"html_url"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request,omitempty"`
}

// validate checks that the decoded body actually describes the requested
// issue. GitHub redirects and proxy error pages both decode cleanly into
// an empty struct, so shape alone isn't enough.
func (r *apiIssueResponse) validate(wantNumber int) error {
	if r.Title == "" {
		return rterrors.New(rterrors.ErrCodeMalformedResponse, "response missing title field")
	}
	if r.Number != 0 && r.Number != wantNumber {
		return rterrors.New(rterrors.ErrCodeMalformedResponse,
			"response is for #%d, requested #%d", r.Number, wantNumber)
	}
	return nil
}
