// Package githost implements the vcs gateway against the GitHub REST API.
package githost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docsmith/collabd/src/collabd/entity"
	cerr "github.com/docsmith/collabd/src/collabd/internal/errors"
	"github.com/docsmith/collabd/src/collabd/gateway/vcs"
)

// Config carries the repository coordinates and credentials.
type Config struct {
	APIBaseURL string `yaml:"apiBaseUrl"`
	Owner      string `yaml:"owner"`
	Name       string `yaml:"name"`
	Token      string `yaml:"token"`
}

// Host is a vcs.Host backed by the GitHub REST API.
type Host struct {
	client *http.Client
	cfg    Config
}

// New creates a Host for the configured repository.
func New(cfg Config) *Host {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.github.com"
	}
	return &Host{
		client: &http.Client{Timeout: 30 * time.Second},
		cfg:    cfg,
	}
}

type branchResponse struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type repoResponse struct {
	DefaultBranch string `json:"default_branch"`
}

// ListBranches returns all branches with the repository default flagged.
func (h *Host) ListBranches(ctx context.Context) ([]entity.Branch, error) {
	var repo repoResponse
	if err := h.do(ctx, http.MethodGet, h.repoPath(""), nil, &repo); err != nil {
		return nil, fmt.Errorf("fetching repository: %w", err)
	}

	var raw []branchResponse
	if err := h.do(ctx, http.MethodGet, h.repoPath("/branches?per_page=100"), nil, &raw); err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	branches := make([]entity.Branch, 0, len(raw))
	for _, b := range raw {
		branches = append(branches, entity.Branch{
			Name:      b.Name,
			SHA:       b.Commit.SHA,
			IsDefault: b.Name == repo.DefaultBranch,
		})
	}
	return branches, nil
}

// CreateBranchRef creates refs/heads/<name> pointing at fromSHA.
func (h *Host) CreateBranchRef(ctx context.Context, name string, fromSHA string) (entity.Branch, error) {
	body := map[string]string{
		"ref": "refs/heads/" + name,
		"sha": fromSHA,
	}
	if err := h.do(ctx, http.MethodPost, h.repoPath("/git/refs"), body, nil); err != nil {
		return entity.Branch{}, fmt.Errorf("creating branch %q: %w", name, err)
	}
	return entity.Branch{Name: name, SHA: fromSHA}, nil
}

// DeleteBranchRef deletes refs/heads/<name>.
func (h *Host) DeleteBranchRef(ctx context.Context, name string) error {
	if err := h.do(ctx, http.MethodDelete, h.repoPath("/git/refs/heads/"+name), nil, nil); err != nil {
		return fmt.Errorf("deleting branch %q: %w", name, err)
	}
	return nil
}

type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type contentsResponse struct {
	SHA string `json:"sha"`
}

type pullRequestBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}

type pullRequestResponse struct {
	HTMLURL string `json:"html_url"`
}

// CreateCommitAndPR commits each file to the head branch via the contents
// API, then opens a pull request against the base branch.
func (h *Host) CreateCommitAndPR(ctx context.Context, pr vcs.PullRequest) (string, error) {
	if len(pr.Files) == 0 {
		return "", cerr.New("nothing to publish")
	}

	for _, f := range pr.Files {
		req := contentsRequest{
			Message: pr.Title,
			Content: base64.StdEncoding.EncodeToString([]byte(f.Content)),
			Branch:  pr.HeadBranch,
		}
		// An existing file needs its blob SHA to be replaced.
		var existing contentsResponse
		if err := h.do(ctx, http.MethodGet, h.repoPath("/contents/"+f.Path+"?ref="+pr.HeadBranch), nil, &existing); err == nil {
			req.SHA = existing.SHA
		}

		if err := h.do(ctx, http.MethodPut, h.repoPath("/contents/"+f.Path), req, nil); err != nil {
			return "", fmt.Errorf("committing %q: %w", f.Path, err)
		}
	}

	var created pullRequestResponse
	body := pullRequestBody{Title: pr.Title, Body: pr.Body, Head: pr.HeadBranch, Base: pr.BaseBranch}
	if err := h.do(ctx, http.MethodPost, h.repoPath("/pulls"), body, &created); err != nil {
		return "", fmt.Errorf("opening pull request: %w", err)
	}
	return created.HTMLURL, nil
}

func (h *Host) repoPath(suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s%s", h.cfg.APIBaseURL, h.cfg.Owner, h.cfg.Name, suffix)
}

// do performs one API round-trip, decoding the JSON response into out when
// out is non-nil.
func (h *Host) do(ctx context.Context, method string, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if h.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
