package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sphinx-toolbox/reftitle/pkg/cache"
	rterrors "github.com/sphinx-toolbox/reftitle/pkg/errors"
)

const (
	defaultBaseURL = "https://api.github.com"
	httpTimeout    = 10 * time.Second
)

// Client provides access to the GitHub API for issue and pull-request
// metadata. It handles HTTP requests with caching and optional
// authentication, making exactly one network attempt per fetch.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
	logger  *log.Logger
	baseURL string
}

// NewClient creates a GitHub API client backed by the given cache.
// Pass an empty string for token to use unauthenticated requests
// (lower rate limits). A nil logger falls back to log.Default().
func NewClient(backend cache.Cache, token string, ttl time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   backend,
		ttl:     ttl,
		headers: headers,
		logger:  logger,
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL overrides the API endpoint. Used for GitHub Enterprise
// deployments and by tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimSuffix(url, "/")
}

// FetchIssue retrieves metadata for an issue or pull request.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchIssue(ctx context.Context, owner, repo string, number int, refresh bool) (*Issue, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	if number < 1 {
		return nil, rterrors.New(rterrors.ErrCodeInvalidReference, "issue number must be positive, got %d", number)
	}

	key := fmt.Sprintf("issue:%s/%s#%d", owner, repo, number)

	var issue Issue
	err := c.cached(ctx, key, refresh, &issue, func() error {
		return c.fetchIssue(ctx, owner, repo, number, &issue)
	})
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) fetchIssue(ctx context.Context, owner, repo string, number int, issue *Issue) error {
	var data apiIssueResponse
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.baseURL, owner, repo, number)
	if err := c.get(ctx, url, &data); err != nil {
		if rterrors.Is(err, rterrors.ErrCodeNotFound) {
			return rterrors.Wrap(rterrors.ErrCodeNotFound, err, "issue %s/%s#%d", owner, repo, number)
		}
		return err
	}

	if err := data.validate(number); err != nil {
		return err
	}

	htmlURL := data.HTMLURL
	if htmlURL == "" {
		htmlURL = IssueURL(owner, repo, number)
	}

	*issue = Issue{
		Repository: owner + "/" + repo,
		Number:     data.Number,
		Title:      data.Title,
		State:      data.State,
		HTMLURL:    htmlURL,
		IsPull:     data.PullRequest != nil,
		FetchedAt:  time.Now().UTC(),
	}
	return nil
}

// cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// On fetch failure nothing is written, so the next call retries the network.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		data, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			// Treat an unreadable cache as empty.
			c.logger.Warn("cache read failed", "key", key, "err", err)
		} else if ok {
			if err := json.Unmarshal(data, v); err == nil {
				return nil
			}
			_ = c.cache.Delete(ctx, key)
		}
	}

	// Exactly one network attempt per call. Failures are never cached, so
	// recovery happens on the caller's next resolution.
	if err := fetch(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return rterrors.Wrap(rterrors.ErrCodeInternal, err, "encode cache entry")
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "err", err)
	}
	return nil
}

// get performs an HTTP GET and JSON-decodes the response into v.
func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return rterrors.Wrap(rterrors.ErrCodeInternal, err, "build request")
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		code := rterrors.ErrCodeNetwork
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			code = rterrors.ErrCodeTimeout
		}
		return rterrors.Wrap(code, err, "GET %s", url)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return rterrors.Wrap(rterrors.ErrCodeMalformedResponse, err, "decode response from %s", url)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return rterrors.New(rterrors.ErrCodeNotFound, "status %d", code)
	case code == http.StatusForbidden || code == http.StatusTooManyRequests:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || code == http.StatusTooManyRequests {
			retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			return rterrors.Wrap(rterrors.ErrCodeRateLimited,
				&rterrors.RateLimitedError{RetryAfter: retryAfter}, "status %d", code)
		}
		return rterrors.New(rterrors.ErrCodeNetwork, "status %d", code)
	case code >= 500:
		return rterrors.New(rterrors.ErrCodeNetwork, "status %d", code)
	default:
		return rterrors.New(rterrors.ErrCodeNetwork, "status %d", code)
	}
}
