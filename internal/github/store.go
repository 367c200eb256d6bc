// Package github implements the release store on top of the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/ShogunPanda/cambi/internal/release"
)

var _ release.Store = (*Store)(nil)

// ReleasesService is the subset of the go-github repositories service used here.
type ReleasesService interface {
	ListReleases(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error)
	CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error)
	EditRelease(ctx context.Context, owner, repo string, id int64, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error)
	DeleteRelease(ctx context.Context, owner, repo string, id int64) (*github.Response, error)
}

var (
	ErrUnauthorized       = errors.New("GitHub token is missing or invalid")
	ErrForbidden          = errors.New("GitHub token lacks permission to manage releases")
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrRateLimited        = errors.New("GitHub API rate limit exceeded")
)

const pageSize = 100

// Store reads and writes releases of one repository.
type Store struct {
	service ReleasesService
	owner   string
	repo    string
}

// Options configures NewStore.
type Options struct {
	Owner string
	Repo  string
	Token string
	// APIBase overrides https://api.github.com/ (GitHub Enterprise, test servers).
	APIBase string
}

// NewStore creates a store authenticated with an OAuth2 static token.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Owner == "" || opts.Repo == "" {
		return nil, fmt.Errorf("owner and repository are required")
	}

	var httpClient *http.Client
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(httpClient)
	if opts.APIBase != "" {
		base, err := url.Parse(opts.APIBase)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API base %q: %w", opts.APIBase, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		client.BaseURL = base
	}

	return NewStoreWithService(client.Repositories, opts.Owner, opts.Repo), nil
}

// NewStoreWithService creates a store on an arbitrary service, mainly for tests.
func NewStoreWithService(service ReleasesService, owner, repo string) *Store {
	return &Store{service: service, owner: owner, repo: repo}
}

// Slug returns "owner/repo".
func (s *Store) Slug() string {
	return s.owner + "/" + s.repo
}

// List returns every release, following pagination.
func (s *Store) List(ctx context.Context) ([]release.Remote, error) {
	var out []release.Remote
	opts := &github.ListOptions{PerPage: pageSize}
	for {
		page, resp, err := s.service.ListReleases(ctx, s.owner, s.repo, opts)
		if err != nil {
			return nil, s.apiError("listing releases", "", resp, err)
		}
		for _, r := range page {
			out = append(out, release.Remote{
				ID: r.GetID(),
				Release: release.Release{
					Tag:        r.GetTagName(),
					Title:      r.GetName(),
					Body:       r.GetBody(),
					Prerelease: r.GetPrerelease(),
				},
			})
		}
		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// Create publishes a new release.
func (s *Store) Create(ctx context.Context, r release.Release) error {
	_, resp, err := s.service.CreateRelease(ctx, s.owner, s.repo, toGitHub(r))
	if err != nil {
		return s.apiError("creating release", r.Tag, resp, err)
	}
	return nil
}

// Update edits an existing release.
func (s *Store) Update(ctx context.Context, id int64, r release.Release) error {
	_, resp, err := s.service.EditRelease(ctx, s.owner, s.repo, id, toGitHub(r))
	if err != nil {
		return s.apiError("updating release", r.Tag, resp, err)
	}
	return nil
}

// Delete removes a release. The git tag is left untouched.
func (s *Store) Delete(ctx context.Context, id int64) error {
	resp, err := s.service.DeleteRelease(ctx, s.owner, s.repo, id)
	if err != nil {
		return s.apiError("deleting release", fmt.Sprintf("#%d", id), resp, err)
	}
	return nil
}

func toGitHub(r release.Release) *github.RepositoryRelease {
	return &github.RepositoryRelease{
		TagName:    github.Ptr(r.Tag),
		Name:       github.Ptr(r.Title),
		Body:       github.Ptr(r.Body),
		Prerelease: github.Ptr(r.Prerelease),
	}
}

func (s *Store) apiError(op, subject string, resp *github.Response, err error) error {
	target := s.Slug()
	if subject != "" {
		target += " " + subject
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s %s: %w", op, target, ErrUnauthorized)
		case http.StatusForbidden:
			var rateErr *github.RateLimitError
			if errors.As(err, &rateErr) {
				return fmt.Errorf("%s %s: %w", op, target, ErrRateLimited)
			}
			return fmt.Errorf("%s %s: %w", op, target, ErrForbidden)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s %s: %w", op, target, ErrRateLimited)
		case http.StatusNotFound:
			return fmt.Errorf("%s %s: %w", op, target, ErrRepositoryNotFound)
		}
	}
	return fmt.Errorf("%s %s: %w", op, target, err)
}
