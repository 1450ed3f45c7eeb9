// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// This package fetches issue and pull-request metadata from GitHub
// (https://api.github.com). GitHub numbers issues and pull requests in a
// single sequence per repository, so one endpoint serves both; the response
// tells them apart.
//
// # Usage
//
//	client := github.NewClient(backend, token, 4*time.Hour, logger)
//
//	issue, err := client.FetchIssue(ctx, "pytest-dev", "pytest", 7680, false)
//	if err != nil {
//	    return err
//	}
//
//	fmt.Println(issue.Title)
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
//
// # Caching
//
// Responses are cached in the supplied cache backend under a key derived
// from the repository and number. The TTL is set when creating the client.
// Pass refresh=true to bypass the cache. Failed fetches are never cached,
// so the next call retries the network.
//
// # Errors
//
// Fetch failures carry structured codes from the errors package:
// NOT_FOUND for missing issues, NETWORK_ERROR for transport and server
// failures, TIMEOUT when the request deadline expires, RATE_LIMITED when
// GitHub throttles the client, and MALFORMED_RESPONSE when the body
// doesn't match the expected shape. Each fetch makes exactly one network
// attempt; recovery happens on the next call, since failures are never
// cached.
package github
