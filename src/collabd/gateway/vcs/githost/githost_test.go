package githost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/docsmith/collabd/src/collabd/gateway/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T, handler http.Handler) *Host {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{APIBaseURL: server.URL, Owner: "docsmith", Name: "docs", Token: "test-token"})
}

func TestListBranches(t *testing.T) {
	h := newTestHost(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/repos/docsmith/docs":
			json.NewEncoder(w).Encode(map[string]string{"default_branch": "main"})
		case "/repos/docsmith/docs/branches":
			w.Write([]byte(`[
				{"name":"main","commit":{"sha":"aaa"}},
				{"name":"feature-x","commit":{"sha":"bbb"}}
			]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	branches, err := h.ListBranches(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.True(t, branches[0].IsDefault)
	assert.Equal(t, "aaa", branches[0].SHA)
	assert.False(t, branches[1].IsDefault)

	def, ok := vcs.DefaultBranch(branches)
	require.True(t, ok)
	assert.Equal(t, "main", def.Name)
}

func TestCreateBranchRef(t *testing.T) {
	var body map[string]string
	h := newTestHost(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/repos/docsmith/docs/git/refs", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}))

	created, err := h.CreateBranchRef(context.Background(), "feature-x", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "feature-x", created.Name)
	assert.Equal(t, "refs/heads/feature-x", body["ref"])
	assert.Equal(t, "abc123", body["sha"])
}

func TestDeleteBranchRefError(t *testing.T) {
	h := newTestHost(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Reference does not exist"}`, http.StatusUnprocessableEntity)
	}))

	err := h.DeleteBranchRef(context.Background(), "gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestCreateCommitAndPR(t *testing.T) {
	var mu sync.Mutex
	committed := make(map[string]string)

	h := newTestHost(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			// No existing file blob.
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		case r.Method == http.MethodPut:
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			mu.Lock()
			committed[r.URL.Path] = req["branch"]
			mu.Unlock()
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPost && r.URL.Path == "/repos/docsmith/docs/pulls":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "feature-x", req["head"])
			assert.Equal(t, "main", req["base"])
			json.NewEncoder(w).Encode(map[string]string{"html_url": "https://github.com/docsmith/docs/pull/7"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	url, err := h.CreateCommitAndPR(context.Background(), vcs.PullRequest{
		BaseBranch: "main",
		HeadBranch: "feature-x",
		Files: []vcs.CommitFile{
			{Path: "docs/guide.md", Content: "# Guide"},
		},
		Title: "Update docs",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/docsmith/docs/pull/7", url)
	assert.Equal(t, "feature-x", committed["/repos/docsmith/docs/contents/docs/guide.md"])
}

func TestCreateCommitAndPRRequiresFiles(t *testing.T) {
	h := New(Config{Owner: "docsmith", Name: "docs"})
	_, err := h.CreateCommitAndPR(context.Background(), vcs.PullRequest{HeadBranch: "x"})
	assert.Error(t, err)
}
