// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// defaultPerPage is the number of releases fetched per API page.
	defaultPerPage = 50

	// maxPages is the upper bound on pagination to avoid runaway requests.
	maxPages = 4

	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	// Prevents unbounded memory consumption from malformed responses.
	maxJSONResponseBytes = 10 << 20
)

// ErrReleaseNotFound is returned when a requested release tag does not exist.
var ErrReleaseNotFound = errors.New("release not found")

// ErrAssetNotFound is returned when a release carries no asset with the
// requested name.
var ErrAssetNotFound = errors.New("asset not found in release")

type (
	// RateLimitError is returned when the GitHub API rate limit is exceeded.
	RateLimitError struct {
		Limit     int
		Remaining int
		ResetAt   time.Time
	}

	// Release is one GitHub release with its downloadable assets.
	Release struct {
		TagName    string
		Name       string
		Body       string // Release notes in markdown
		Prerelease bool
		Draft      bool
		Assets     []Asset
		HTMLURL    string
		CreatedAt  string
	}

	// Asset is a single downloadable file attached to a release.
	Asset struct {
		Name               string
		BrowserDownloadURL string
		Size               int64
		ContentType        string
	}

	// githubRelease is the JSON wire format of a release.
	githubRelease struct {
		TagName    string        `json:"tag_name"`
		Name       string        `json:"name"`
		Body       string        `json:"body"`
		Prerelease bool          `json:"prerelease"`
		Draft      bool          `json:"draft"`
		HTMLURL    string        `json:"html_url"`
		CreatedAt  string        `json:"created_at"`
		Assets     []githubAsset `json:"assets"`
	}

	// githubAsset is the JSON wire format of a release asset.
	githubAsset struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
		ContentType        string `json:"content_type"`
	}

	// Client queries the GitHub Releases API of one repository.
	Client struct {
		httpClient *http.Client
		owner      string
		repo       string
		baseURL    string // API base URL, overridable for tests
		token      string // Optional token for authenticated requests
		userAgent  string
		logger     *log.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// Error formats the rate limit details as a human-readable message.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (%d remaining, resets at %s)",
		e.Remaining, e.ResetAt.UTC().Format("15:04 UTC"))
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxies.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(g *Client) {
		g.httpClient = c
	}
}

// WithBaseURL overrides the GitHub API base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(g *Client) {
		g.baseURL = strings.TrimRight(base, "/")
	}
}

// WithToken sets a GitHub personal access token for authenticated requests.
// Authenticated requests have a higher rate limit (5000/hour vs 60/hour).
func WithToken(token string) ClientOption {
	return func(g *Client) {
		g.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(g *Client) {
		g.userAgent = ua
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *log.Logger) ClientOption {
	return func(g *Client) {
		g.logger = l
	}
}

// NewClient creates a release client for the given repository.
func NewClient(owner, repo string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		owner:      owner,
		repo:       repo,
		baseURL:    "https://api.github.com",
		userAgent:  "suiup/dev",
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListReleases fetches non-draft releases, newest first as reported by the
// API. Pagination follows the Link header up to maxPages. Mysten network
// release tags are not plain semver, so ordering beyond the API's
// creation-time order is left to the callers that know the tag scheme.
func (c *Client) ListReleases(ctx context.Context) ([]Release, error) {
	pageURL := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d",
		c.baseURL, c.owner, c.repo, defaultPerPage)

	var all []Release

	for page := 0; page < maxPages && pageURL != ""; page++ {
		c.logger.Debug("listing releases", "repo", c.owner+"/"+c.repo, "page", page)

		resp, reqErr := c.doRequest(ctx, http.MethodGet, pageURL)
		if reqErr != nil {
			return nil, fmt.Errorf("listing releases: %w", reqErr)
		}

		if rlErr := checkRateLimit(resp); rlErr != nil {
			resp.Body.Close()
			return nil, rlErr
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("listing releases: unexpected status %d", resp.StatusCode)
		}

		releases, parseErr := parseReleases(io.LimitReader(resp.Body, maxJSONResponseBytes))
		resp.Body.Close()
		if parseErr != nil {
			return nil, fmt.Errorf("listing releases: %w", parseErr)
		}

		for i := range releases {
			if !releases[i].Draft {
				all = append(all, releases[i])
			}
		}

		pageURL = parseLinkHeader(resp.Header.Get("Link"))
	}

	return all, nil
}

// GetReleaseByTag fetches a single release by its Git tag. Returns
// ErrReleaseNotFound if the tag does not correspond to a release.
func (c *Client) GetReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	tagURL := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s",
		c.baseURL, c.owner, c.repo, tag)

	resp, err := c.doRequest(ctx, http.MethodGet, tagURL)
	if err != nil {
		return nil, fmt.Errorf("getting release %s: %w", tag, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if err := checkRateLimit(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("release %s: %w", tag, ErrReleaseNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getting release %s: unexpected status %d", tag, resp.StatusCode)
	}

	var gr githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&gr); err != nil {
		return nil, fmt.Errorf("getting release %s: decoding response: %w", tag, err)
	}

	r := toRelease(gr)
	return &r, nil
}

// DownloadAsset streams the file at the given URL. The caller owns the
// returned ReadCloser.
func (c *Client) DownloadAsset(ctx context.Context, assetURL string) (io.ReadCloser, error) {
	c.logger.Debug("downloading asset", "url", redactURL(assetURL))

	resp, err := c.doRequest(ctx, http.MethodGet, assetURL)
	if err != nil {
		return nil, fmt.Errorf("downloading asset %s: %w", redactURL(assetURL), err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("downloading asset %s: unexpected status %d", redactURL(assetURL), resp.StatusCode)
	}

	return resp.Body, nil
}

// FindAsset scans the release assets for one with the given name.
func FindAsset(assets []Asset, name string) (*Asset, error) {
	for i := range assets {
		if assets[i].Name == name {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("asset %q: %w", name, ErrAssetNotFound)
}

// doRequest creates and executes an HTTP request with the GitHub API headers.
func (c *Client) doRequest(ctx context.Context, method, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.userAgent)

	// Only attach the token when the request targets a known GitHub host,
	// so a download URL redirecting to a third-party CDN cannot leak it.
	if c.token != "" && isGitHubHost(req.URL, c.baseURL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

// checkRateLimit inspects the X-RateLimit-* response headers and returns a
// RateLimitError when the remaining quota is zero.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil {
		// Malformed header value; skip the check.
		return nil
	}

	if rem > 0 {
		return nil
	}

	// Companion headers are best-effort: malformed or missing values
	// default to zero, which is fine for a diagnostic message.
	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	resetUnix, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)

	return &RateLimitError{
		Limit:     limit,
		Remaining: 0,
		ResetAt:   time.Unix(resetUnix, 0),
	}
}

// parseReleases decodes a JSON array of releases from the response body.
func parseReleases(body io.Reader) ([]Release, error) {
	var raw []githubRelease
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding releases: %w", err)
	}

	releases := make([]Release, 0, len(raw))
	for _, gr := range raw {
		releases = append(releases, toRelease(gr))
	}
	return releases, nil
}

// parseLinkHeader extracts the URL for the "next" page from a GitHub API
// Link header. Returns an empty string if no next page exists.
//
// Example: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func parseLinkHeader(header string) string {
	if header == "" {
		return ""
	}

	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, `rel="next"`) {
			continue
		}

		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start >= 0 && end > start {
			return part[start+1 : end]
		}
	}

	return ""
}

// toRelease converts the JSON wire type to the exported Release type.
func toRelease(gr githubRelease) Release {
	assets := make([]Asset, 0, len(gr.Assets))
	for _, ga := range gr.Assets {
		assets = append(assets, Asset(ga))
	}

	return Release{
		TagName:    gr.TagName,
		Name:       gr.Name,
		Body:       gr.Body,
		Prerelease: gr.Prerelease,
		Draft:      gr.Draft,
		Assets:     assets,
		HTMLURL:    gr.HTMLURL,
		CreatedAt:  gr.CreatedAt,
	}
}

// isGitHubHost reports whether reqURL targets a known GitHub host, so the
// auth token can be safely attached. It matches the configured API base URL
// host and, when the base is api.github.com, also trusts github.com and its
// objects subdomain for asset downloads.
func isGitHubHost(reqURL *url.URL, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	if strings.EqualFold(reqURL.Host, base.Host) {
		return true
	}
	if strings.EqualFold(base.Host, "api.github.com") && strings.EqualFold(reqURL.Host, "github.com") {
		return true
	}
	return false
}

// redactURL strips query parameters and fragments from a URL for safe
// inclusion in error messages and logs.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
