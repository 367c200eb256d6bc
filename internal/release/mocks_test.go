package release

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context) ([]Remote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Remote), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, r Release) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockStore) Update(ctx context.Context, id int64, r Release) error {
	return m.Called(ctx, id, r).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// memoryStore is an in-memory Store used to check reconciliation stability.
type memoryStore struct {
	nextID   int64
	releases []Remote
}

func (s *memoryStore) List(context.Context) ([]Remote, error) {
	return append([]Remote(nil), s.releases...), nil
}

func (s *memoryStore) Create(_ context.Context, r Release) error {
	s.nextID++
	s.releases = append(s.releases, Remote{ID: s.nextID, Release: r})
	return nil
}

func (s *memoryStore) Update(_ context.Context, id int64, r Release) error {
	for i := range s.releases {
		if s.releases[i].ID == id {
			s.releases[i].Release = r
		}
	}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id int64) error {
	for i := range s.releases {
		if s.releases[i].ID == id {
			s.releases = append(s.releases[:i], s.releases[i+1:]...)
			return nil
		}
	}
	return nil
}
