package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	rterrors "github.com/sphinx-toolbox/reftitle/pkg/errors"
	"github.com/sphinx-toolbox/reftitle/pkg/github"
	"github.com/sphinx-toolbox/reftitle/pkg/resolve"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		repo    string
		noCache bool
		refresh bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <reference>...",
		Short: "Resolve issue/PR references to display titles",
		Long: `Resolve one or more issue or pull-request references to their titles.

References take any of these forms:

  7680                     number in the default repository
  #7680                    same, hash optional
  pytest-dev/pytest#7680   explicit repository
  "7680 <pytest-dev/pytest>"  the role syntax used in documentation source

Titles come from the on-disk cache when fresh; otherwise a single API call
is made per reference. When GitHub is unreachable the reference number is
printed as a placeholder and the command still succeeds.

Examples:
  reftitle resolve 1 2 3 --repo octocat/hello-world
  reftitle resolve pytest-dev/pytest#7680
  reftitle resolve 42 --refresh --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), cmd.OutOrStdout(), args, repo, noCache, refresh, asJSON)
		},
	}

	cmd.Flags().StringVarP(&repo, "repo", "r", "", "default repository (owner/name) for bare numbers")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the cache entirely")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch even if a fresh cache entry exists")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, out io.Writer, args []string, repo string, noCache, refresh, asJSON bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	resolver, backend, err := c.newResolver(ctx, &cfg, repo, noCache, refresh)
	if err != nil {
		return err
	}
	defer backend.Close()

	var spinner *Spinner
	if !asJSON {
		spinner = newSpinner(ctx, fmt.Sprintf("Resolving %d reference(s)", len(args)))
		spinner.Start()
	}

	// Invalid arguments never abort the batch: each one becomes a warning
	// plus a literal-text placeholder, and the rest keep resolving.
	var titles []resolve.Title
	var warnings []string
	for _, arg := range args {
		ref, err := parseRefArg(arg)
		if err != nil {
			warnings = append(warnings, rterrors.UserMessage(err))
			titles = append(titles, resolve.Title{Text: strings.TrimSpace(arg), Placeholder: true})
			continue
		}

		title, err := resolver.Resolve(ctx, ref)
		if err != nil {
			warnings = append(warnings, rterrors.UserMessage(err))
			title = resolve.Title{Text: ref.String(), Number: ref.Number, Placeholder: true}
		}
		titles = append(titles, title)
	}

	if spinner != nil {
		spinner.Stop()
		if spinner.Cancelled() {
			return ctx.Err()
		}
	}

	for _, msg := range warnings {
		printWarning("%s", msg)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(titles)
	}

	for _, title := range titles {
		printTitle(title)
	}
	if len(warnings) > 0 {
		printDetail("%d invalid reference(s)", len(warnings))
	}
	return nil
}

// printTitle renders one resolved title for terminal output.
func printTitle(t resolve.Title) {
	kind := "issue"
	if t.IsPull {
		kind = "pull"
	}

	switch {
	case t.Placeholder && t.Repository == "":
		printWarning("%s: could not resolve", t.Text)
	case t.Placeholder:
		printWarning("%s#%d: could not resolve, using placeholder %q", t.Repository, t.Number, t.Text)
	default:
		printSuccess("%s#%d (%s, %s) %s", t.Repository, t.Number, kind, t.State, StyleHighlight.Render(t.Text))
		printDetail("%s", t.URL)
	}
}

// parseRefArg parses one command-line reference argument. In addition to
// the forms ParseReference accepts, the CLI takes "owner/repo#123" so
// explicit references don't need shell quoting.
func parseRefArg(arg string) (resolve.Reference, error) {
	trimmed := strings.TrimSpace(arg)
	if idx := strings.Index(trimmed, "#"); idx > 0 {
		owner, repo, err := github.ParseRepoRef(trimmed[:idx])
		if err != nil {
			return resolve.Reference{}, err
		}
		number, err := strconv.Atoi(trimmed[idx+1:])
		if err != nil || number < 1 {
			return resolve.Reference{}, rterrors.New(rterrors.ErrCodeInvalidReference,
				"invalid issue number in %q: must be a positive integer", arg)
		}
		return resolve.Reference{Repo: fmt.Sprintf("%s/%s", owner, repo), Number: number}, nil
	}
	return resolve.ParseReference(trimmed)
}
