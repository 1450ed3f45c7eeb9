// Package resolve turns issue and pull-request references into display
// titles, falling back to a placeholder when live metadata cannot be
// retrieved. A documentation build keeps rendering whatever GitHub or the
// network is doing.
package resolve

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	rterrors "github.com/sphinx-toolbox/reftitle/pkg/errors"
	"github.com/sphinx-toolbox/reftitle/pkg/github"
)

// Title is the best-effort resolution of a Reference.
// When Placeholder is true the live metadata could not be retrieved and
// Text holds the reference number rendered as literal text.
type Title struct {
	Text        string    `json:"title"`
	Repository  string    `json:"repository"`
	Number      int       `json:"number"`
	IsPull      bool      `json:"is_pull"`
	State       string    `json:"state,omitempty"`
	URL         string    `json:"url"`
	Placeholder bool      `json:"placeholder"`
	FetchedAt   time.Time `json:"fetched_at,omitzero"`
}

// Resolver resolves references against the GitHub API through a persistent
// cache. Fetch failures are logged as warnings and degrade to placeholder
// titles; they never become fatal errors.
type Resolver struct {
	client      *github.Client
	logger      *log.Logger
	defaultRepo string

	// Refresh bypasses cached entries for every resolution.
	Refresh bool
}

// NewResolver creates a Resolver. defaultRepo is the "owner/name" used for
// references that don't name a repository; it may be empty, in which case
// such references fail with an invalid-reference error. A nil logger falls
// back to log.Default().
func NewResolver(client *github.Client, defaultRepo string, logger *log.Logger) (*Resolver, error) {
	if defaultRepo != "" {
		if _, _, err := github.ParseRepoRef(defaultRepo); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		client:      client,
		logger:      logger,
		defaultRepo: defaultRepo,
	}, nil
}

// Resolve returns a display title for ref.
//
// A fresh cache entry is returned without network access. Otherwise one
// fetch is attempted; on success the result is cached and returned, and on
// any failure a placeholder title is returned with a logged warning and
// nothing is cached, so the next resolution retries the network.
//
// The only error Resolve returns is an invalid reference: a non-positive
// number, or no repository when no default is configured. Callers should
// surface that as a warning against the offending source location and
// render the reference as literal text.
func (r *Resolver) Resolve(ctx context.Context, ref Reference) (Title, error) {
	repo := ref.Repo
	if repo == "" {
		if r.defaultRepo == "" {
			return Title{}, rterrors.New(rterrors.ErrCodeInvalidReference,
				"reference #%d names no repository and no default repository is configured", ref.Number)
		}
		repo = r.defaultRepo
	}

	owner, name, err := github.ParseRepoRef(repo)
	if err != nil {
		return Title{}, rterrors.Wrap(rterrors.ErrCodeInvalidReference, err, "reference %s", ref)
	}
	if ref.Number < 1 {
		return Title{}, rterrors.New(rterrors.ErrCodeInvalidReference,
			"invalid issue number %d: must be positive", ref.Number)
	}

	issue, err := r.client.FetchIssue(ctx, owner, name, ref.Number, r.Refresh)
	if err != nil {
		r.logger.Warn("falling back to placeholder title",
			"reference", Reference{Repo: repo, Number: ref.Number}.String(), "err", err)
		return r.placeholder(owner, name, ref.Number), nil
	}

	return Title{
		Text:       issue.Title,
		Repository: issue.Repository,
		Number:     issue.Number,
		IsPull:     issue.IsPull,
		State:      issue.State,
		URL:        issue.HTMLURL,
		FetchedAt:  issue.FetchedAt,
	}, nil
}

// placeholder synthesizes a title when live metadata is unavailable.
// The issue URL still works as a link target; GitHub redirects to the pull
// request page when the number belongs to one.
func (r *Resolver) placeholder(owner, name string, number int) Title {
	return Title{
		Text:        Reference{Number: number}.String(),
		Repository:  owner + "/" + name,
		Number:      number,
		URL:         github.IssueURL(owner, name, number),
		Placeholder: true,
	}
}

// DefaultRepo returns the configured default repository, or "".
func (r *Resolver) DefaultRepo() string {
	return r.defaultRepo
}
