package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/oshokin/engine-manifest/internal/logger"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// TokenEnvironmentVariable names the variable read for optional authentication.
	// Unauthenticated requests work with lower rate limits.
	TokenEnvironmentVariable = "GITHUB_TOKEN"

	// apiVersion pins the GitHub REST API behavior.
	apiVersion = "2022-11-28"

	// pageSize is the number of items requested per page.
	pageSize = 100
)

// errBadHTTPStatus is returned when the API answers with a non-OK status.
var errBadHTTPStatus = errors.New("unexpected http status")

// Client is a minimal GitHub REST API client for listing repository tags
// and releases.
type Client struct {
	// baseURL is the API root without a trailing slash.
	baseURL string
	// token is the optional bearer token for authenticated requests.
	token string
	// httpClient performs the requests.
	httpClient *http.Client
}

// NewClient creates a client for the provided API base URL. An empty base
// URL selects the public endpoint; a nil HTTP client selects the default one.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      os.Getenv(TokenEnvironmentVariable),
		httpClient: httpClient,
	}
}

// Tag is a repository tag as returned by the tags endpoint.
type Tag struct {
	// Name is the raw tag name, e.g. "v8.1.0".
	Name string `json:"name"`
}

// Release is a repository release as returned by the releases endpoint.
type Release struct {
	// Name is the human-readable release title, e.g. "OpenSearch 2.11.1".
	Name string `json:"name"`
	// TagName is the git tag backing the release.
	TagName string `json:"tag_name"`
}

// ListTagNames returns the raw names of all tags of the repository,
// following pagination to the last page.
func (c *Client) ListTagNames(ctx context.Context, owner, repo string) ([]string, error) {
	tags, err := collectPages[Tag](ctx, c, fmt.Sprintf("/repos/%s/%s/tags", owner, repo))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}

	return names, nil
}

// ListReleaseNames returns the titles of all releases of the repository,
// following pagination to the last page. Releases without a title are skipped.
func (c *Client) ListReleaseNames(ctx context.Context, owner, repo string) ([]string, error) {
	releases, err := collectPages[Release](ctx, c, fmt.Sprintf("/repos/%s/%s/releases", owner, repo))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(releases))

	for _, release := range releases {
		if release.Name == "" {
			continue
		}

		names = append(names, release.Name)
	}

	return names, nil
}

// collectPages fetches every page of a listing endpoint and concatenates the items.
func collectPages[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	next := fmt.Sprintf("%s%s?per_page=%d", c.baseURL, path, pageSize)

	var all []T

	for next != "" {
		items, nextURL, err := fetchPage[T](ctx, c, next)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
		next = nextURL
	}

	return all, nil
}

// fetchPage fetches one page and returns the URL of the next one, if any.
func fetchPage[T any](ctx context.Context, c *Client, pageURL string) ([]T, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, "", err
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%s, %s: %w", pageURL, response.Status, errBadHTTPStatus)
	}

	var items []T
	if err = json.NewDecoder(response.Body).Decode(&items); err != nil {
		return nil, "", fmt.Errorf("decode page %s: %w", pageURL, err)
	}

	logger.DebugKV(ctx, "Fetched listing page", "url", pageURL, "items", len(items))

	return items, parseLinkNext(response.Header.Get("Link")), nil
}

// parseLinkNext extracts the URL with rel="next" from an RFC 5988 Link header.
// Format: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func parseLinkNext(header string) string {
	if header == "" {
		return ""
	}

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)

		segments := strings.SplitN(part, ";", 2)
		if len(segments) != 2 {
			continue
		}

		urlPart := strings.TrimSpace(segments[0])
		relPart := strings.TrimSpace(segments[1])

		if !strings.Contains(relPart, `rel="next"`) {
			continue
		}

		if strings.HasPrefix(urlPart, "<") && strings.HasSuffix(urlPart, ">") {
			return urlPart[1 : len(urlPart)-1]
		}
	}

	return ""
}
