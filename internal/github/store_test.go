package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ShogunPanda/cambi/internal/release"
)

func response(status, next int) *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: status}, NextPage: next}
}

func TestStore_ListPaginates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := new(MockReleasesService)
	svc.On("ListReleases", ctx, "owner", "repo", mock.MatchedBy(func(o *github.ListOptions) bool { return o.Page == 0 })).
		Return([]*github.RepositoryRelease{
			{ID: github.Ptr(int64(2)), TagName: github.Ptr("v1.1.0"), Name: github.Ptr("1.1.0"), Body: github.Ptr("b")},
		}, response(200, 2), nil).Once()
	svc.On("ListReleases", ctx, "owner", "repo", mock.MatchedBy(func(o *github.ListOptions) bool { return o.Page == 2 })).
		Return([]*github.RepositoryRelease{
			{ID: github.Ptr(int64(1)), TagName: github.Ptr("v1.0.0"), Name: github.Ptr("1.0.0"), Prerelease: github.Ptr(true)},
		}, response(200, 0), nil).Once()

	got, err := NewStoreWithService(svc, "owner", "repo").List(ctx)
	require.NoError(t, err)

	assert.Equal(t, []release.Remote{
		{ID: 2, Release: release.Release{Tag: "v1.1.0", Title: "1.1.0", Body: "b"}},
		{ID: 1, Release: release.Release{Tag: "v1.0.0", Title: "1.0.0", Prerelease: true}},
	}, got)
	svc.AssertExpectations(t)
}

func TestStore_Writes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := release.Release{Tag: "v1.2.0", Title: "1.2.0", Body: "- Features:\n  - feat: x", Prerelease: true}
	matchesRelease := mock.MatchedBy(func(gr *github.RepositoryRelease) bool {
		return gr.GetTagName() == "v1.2.0" && gr.GetName() == "1.2.0" && gr.GetBody() == r.Body && gr.GetPrerelease()
	})

	svc := new(MockReleasesService)
	svc.On("CreateRelease", ctx, "o", "r", matchesRelease).Return(&github.RepositoryRelease{}, response(201, 0), nil).Once()
	svc.On("EditRelease", ctx, "o", "r", int64(5), matchesRelease).Return(&github.RepositoryRelease{}, response(200, 0), nil).Once()
	svc.On("DeleteRelease", ctx, "o", "r", int64(5)).Return(response(204, 0), nil).Once()

	store := NewStoreWithService(svc, "o", "r")
	require.NoError(t, store.Create(ctx, r))
	require.NoError(t, store.Update(ctx, 5, r))
	require.NoError(t, store.Delete(ctx, 5))
	svc.AssertExpectations(t)
}

func TestStore_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		resp    *github.Response
		err     error
		wantErr error
		wantMsg string
	}{
		"unauthorized": {
			resp:    response(http.StatusUnauthorized, 0),
			err:     errors.New("401"),
			wantErr: ErrUnauthorized,
			wantMsg: "creating release o/r v1.0.0: GitHub token is missing or invalid",
		},
		"forbidden": {
			resp:    response(http.StatusForbidden, 0),
			err:     errors.New("403"),
			wantErr: ErrForbidden,
		},
		"rate limited": {
			resp:    response(http.StatusForbidden, 0),
			err:     &github.RateLimitError{Message: "slow down"},
			wantErr: ErrRateLimited,
		},
		"not found": {
			resp:    response(http.StatusNotFound, 0),
			err:     errors.New("404"),
			wantErr: ErrRepositoryNotFound,
		},
		"network failure": {
			err:     io.ErrUnexpectedEOF,
			wantErr: io.ErrUnexpectedEOF,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			svc := new(MockReleasesService)
			svc.On("CreateRelease", mock.Anything, "o", "r", mock.Anything).Return(nil, tc.resp, tc.err)

			err := NewStoreWithService(svc, "o", "r").Create(context.Background(), release.Release{Tag: "v1.0.0"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.wantMsg != "" {
				assert.EqualError(t, err, tc.wantMsg)
			}
		})
	}
}

func TestNewStore_AgainstServer(t *testing.T) {
	t.Parallel()

	var created github.RepositoryRelease
	var auth string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/ShogunPanda/cambi/releases", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id": 10, "tag_name": "v1.0.0", "name": "1.0.0", "body": "notes"}]`)
	})
	mux.HandleFunc("POST /repos/ShogunPanda/cambi/releases", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 11}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	store, err := NewStore(ctx, Options{Owner: "ShogunPanda", Repo: "cambi", Token: "secret", APIBase: server.URL})
	require.NoError(t, err)

	remote, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, int64(10), remote[0].ID)
	assert.Equal(t, "notes", remote[0].Body)
	assert.Equal(t, "Bearer secret", auth)

	require.NoError(t, store.Create(ctx, release.Release{Tag: "v1.1.0", Title: "1.1.0", Body: "b"}))
	assert.Equal(t, "v1.1.0", created.GetTagName())
	assert.Equal(t, "1.1.0", created.GetName())
	assert.False(t, created.GetPrerelease())
}

func TestNewStore_RequiresSlug(t *testing.T) {
	t.Parallel()

	_, err := NewStore(context.Background(), Options{Owner: "o"})
	assert.Error(t, err)
}

func TestParseRepositoryURL(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		url       string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		"https":           {url: "https://github.com/ShogunPanda/cambi", wantOwner: "ShogunPanda", wantRepo: "cambi", wantOK: true},
		"https with .git": {url: "https://github.com/ShogunPanda/cambi.git", wantOwner: "ShogunPanda", wantRepo: "cambi", wantOK: true},
		"ssh":             {url: "git@github.com:ShogunPanda/cambi.git", wantOwner: "ShogunPanda", wantRepo: "cambi", wantOK: true},
		"git+https slash": {url: "git+https://github.com/owner/repo/", wantOwner: "owner", wantRepo: "repo", wantOK: true},
		"other host":      {url: "https://gitlab.com/owner/repo", wantOK: false},
		"missing repo":    {url: "https://github.com/owner", wantOK: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			owner, repo, ok := ParseRepositoryURL(tc.url)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantOwner, owner)
			assert.Equal(t, tc.wantRepo, repo)
		})
	}
}
