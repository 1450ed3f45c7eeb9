package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	rterrors "github.com/sphinx-toolbox/reftitle/pkg/errors"
	"github.com/sphinx-toolbox/reftitle/pkg/github"
)

// Reference identifies an issue or pull request within a repository.
// An empty Repo means "use the configured default repository".
// Two references are equal iff Repo and Number match.
type Reference struct {
	Repo   string // "owner/name", or empty for the default repository
	Number int
}

// String renders the reference the way it appears in source text.
func (r Reference) String() string {
	if r.Repo == "" {
		return fmt.Sprintf("#%d", r.Number)
	}
	return fmt.Sprintf("%s#%d", r.Repo, r.Number)
}

// refPattern matches "7680" and "7680 <pytest-dev/pytest>", with an
// optional leading "#" on the number.
var refPattern = regexp.MustCompile(`^#?(\d+)(?:\s*<([^<>]+)>)?$`)

// ParseReference parses a textual issue/pull-request reference.
//
// Accepted forms:
//
//	1
//	#1
//	7680 <pytest-dev/pytest>
//
// The repository part, when present, must be "owner/name" with exactly one
// slash and valid GitHub owner and repository names. The number must be a
// positive integer.
func ParseReference(text string) (Reference, error) {
	m := refPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Reference{}, rterrors.New(rterrors.ErrCodeInvalidReference,
			"invalid reference %q: expected a number, optionally followed by <owner/repo>", text)
	}

	number, err := strconv.Atoi(m[1])
	if err != nil || number < 1 {
		return Reference{}, rterrors.New(rterrors.ErrCodeInvalidReference,
			"invalid issue number %q: must be a positive integer", m[1])
	}

	ref := Reference{Number: number}
	if m[2] != "" {
		owner, repo, err := github.ParseRepoRef(strings.TrimSpace(m[2]))
		if err != nil {
			return Reference{}, rterrors.Wrap(rterrors.ErrCodeInvalidReference, err,
				"invalid repository in reference %q", text)
		}
		ref.Repo = owner + "/" + repo
	}
	return ref, nil
}
