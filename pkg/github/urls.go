package github

import "fmt"

const webBaseURL = "https://github.com"

// RepoURL returns the canonical web URL for a repository.
func RepoURL(owner, repo string) string {
	return fmt.Sprintf("%s/%s/%s", webBaseURL, owner, repo)
}

// IssueURL returns the web URL for an issue. GitHub redirects to the pull
// request page when the number belongs to one, so this is a safe fallback
// when the kind is unknown.
func IssueURL(owner, repo string, number int) string {
	return fmt.Sprintf("%s/%s/%s/issues/%d", webBaseURL, owner, repo, number)
}

// PullURL returns the web URL for a pull request.
func PullURL(owner, repo string, number int) string {
	return fmt.Sprintf("%s/%s/%s/pull/%d", webBaseURL, owner, repo, number)
}

// BlobURL returns the web URL for a file at a given ref.
func BlobURL(owner, repo, ref, path string) string {
	return fmt.Sprintf("%s/%s/%s/blob/%s/%s", webBaseURL, owner, repo, ref, path)
}
