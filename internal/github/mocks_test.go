package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockReleasesService struct {
	mock.Mock
}

func (m *MockReleasesService) ListReleases(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	var releases []*github.RepositoryRelease
	if v := args.Get(0); v != nil {
		releases = v.([]*github.RepositoryRelease)
	}
	var resp *github.Response
	if v := args.Get(1); v != nil {
		resp = v.(*github.Response)
	}
	return releases, resp, args.Error(2)
}

func (m *MockReleasesService) CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo, release)
	var resp *github.Response
	if v := args.Get(1); v != nil {
		resp = v.(*github.Response)
	}
	if v := args.Get(0); v != nil {
		return v.(*github.RepositoryRelease), resp, args.Error(2)
	}
	return nil, resp, args.Error(2)
}

func (m *MockReleasesService) EditRelease(ctx context.Context, owner, repo string, id int64, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo, id, release)
	var resp *github.Response
	if v := args.Get(1); v != nil {
		resp = v.(*github.Response)
	}
	if v := args.Get(0); v != nil {
		return v.(*github.RepositoryRelease), resp, args.Error(2)
	}
	return nil, resp, args.Error(2)
}

func (m *MockReleasesService) DeleteRelease(ctx context.Context, owner, repo string, id int64) (*github.Response, error) {
	args := m.Called(ctx, owner, repo, id)
	var resp *github.Response
	if v := args.Get(0); v != nil {
		resp = v.(*github.Response)
	}
	return resp, args.Error(1)
}
