// Package github implements the REST client used by the ingestion
// collaborator: listing branch commits and fetching per-commit stats and
// changed files. The caller supplies the user's access token per call.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	acceptHeader     = "application/vnd.github+json"
	apiVersionHeader = "2022-11-28"
)

// CommitInfo is the subset of the GitHub list-commits response we keep.
type CommitInfo struct {
	SHA     string
	Message string
	Date    time.Time
}

// FileChange is one changed file from the commit detail response.
type FileChange struct {
	Filename  string
	Additions int64
	Deletions int64
	Patch     string
}

// CommitDetail carries the stats summary and changed files of one commit.
type CommitDetail struct {
	Stats string
	Files []FileChange
}

// RepoInfo is one repository of the authenticated user.
type RepoInfo struct {
	Name          string
	FullName      string
	Private       bool
	DefaultBranch string
}

// BranchInfo is one branch of a repository.
type BranchInfo struct {
	Name string
	SHA  string
}

// API is the surface consumed by the ingestion service; Client is the real
// implementation, tests substitute fakes.
type API interface {
	ListRepos(ctx context.Context, token string) ([]RepoInfo, error)
	ListBranches(ctx context.Context, token, owner, repo string) ([]BranchInfo, error)
	ListCommits(ctx context.Context, token, owner, repo, branch string) ([]CommitInfo, error)
	GetCommit(ctx context.Context, token, owner, repo, sha string) (*CommitDetail, error)
}

// Client talks to the GitHub REST API. BaseURL is configurable so tests can
// point it at a local server.
type Client struct {
	baseURL string
}

// NewClient constructs a Client for the given API base URL
// (e.g. "https://api.github.com").
func NewClient(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/")}
}

// httpClient returns a client whose transport injects the bearer token.
func (c *Client) httpClient(ctx context.Context, token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, src)
}

func (c *Client) get(ctx context.Context, token, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersionHeader)

	resp, err := c.httpClient(ctx, token).Do(req)
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github returned status %d for %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding github response: %w", err)
	}
	return nil
}

// ListRepos fetches up to 100 repositories the token grants access to.
func (c *Client) ListRepos(ctx context.Context, token string) ([]RepoInfo, error) {
	url := c.baseURL + "/user/repos?per_page=100"

	var body []struct {
		Name          string `json:"name"`
		FullName      string `json:"full_name"`
		Private       bool   `json:"private"`
		DefaultBranch string `json:"default_branch"`
	}
	if err := c.get(ctx, token, url, &body); err != nil {
		return nil, err
	}

	result := make([]RepoInfo, 0, len(body))
	for _, item := range body {
		result = append(result, RepoInfo{
			Name:          item.Name,
			FullName:      item.FullName,
			Private:       item.Private,
			DefaultBranch: item.DefaultBranch,
		})
	}
	return result, nil
}

// ListBranches fetches the branches of a repository.
func (c *Client) ListBranches(ctx context.Context, token, owner, repo string) ([]BranchInfo, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/branches?per_page=100",
		c.baseURL, neturl.PathEscape(owner), neturl.PathEscape(repo))

	var body []struct {
		Name   string `json:"name"`
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}
	if err := c.get(ctx, token, url, &body); err != nil {
		return nil, err
	}

	result := make([]BranchInfo, 0, len(body))
	for _, item := range body {
		result = append(result, BranchInfo{Name: item.Name, SHA: item.Commit.SHA})
	}
	return result, nil
}

// ListCommits fetches up to 100 commits of the given branch.
func (c *Client) ListCommits(ctx context.Context, token, owner, repo, branch string) ([]CommitInfo, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=100&sha=%s",
		c.baseURL, neturl.PathEscape(owner), neturl.PathEscape(repo), neturl.QueryEscape(branch))

	var body []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	if err := c.get(ctx, token, url, &body); err != nil {
		return nil, err
	}

	result := make([]CommitInfo, 0, len(body))
	for _, item := range body {
		result = append(result, CommitInfo{
			SHA:     item.SHA,
			Message: item.Commit.Message,
			Date:    item.Commit.Author.Date,
		})
	}
	return result, nil
}

// GetCommit fetches the detail of one commit: stats summary and changed files.
func (c *Client) GetCommit(ctx context.Context, token, owner, repo, sha string) (*CommitDetail, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s",
		c.baseURL, neturl.PathEscape(owner), neturl.PathEscape(repo), neturl.PathEscape(sha))

	var body struct {
		Stats struct {
			Additions int64 `json:"additions"`
			Deletions int64 `json:"deletions"`
			Total     int64 `json:"total"`
		} `json:"stats"`
		Files []struct {
			Filename  string `json:"filename"`
			Additions int64  `json:"additions"`
			Deletions int64  `json:"deletions"`
			Patch     string `json:"patch"`
		} `json:"files"`
	}
	if err := c.get(ctx, token, url, &body); err != nil {
		return nil, err
	}

	detail := &CommitDetail{
		Stats: fmt.Sprintf("%d additions, %d deletions (total: %d)",
			body.Stats.Additions, body.Stats.Deletions, body.Stats.Total),
	}
	for _, f := range body.Files {
		detail.Files = append(detail.Files, FileChange{
			Filename:  f.Filename,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Patch:     f.Patch,
		})
	}
	return detail, nil
}
