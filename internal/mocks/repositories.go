package mocks

import (
	"context"

	"github.com/story-sharing-api/internal/models"
	"github.com/story-sharing-api/internal/repository"
)

// MockStorage wraps an in-memory backend and can be told to fail.
// ReadError is returned by every lookup and listing, WriteError by every mutation.
// StatusError fails only UpdateStoryStatus.
type MockStorage struct {
	repository.Storage

	ReadError   error
	WriteError  error
	StatusError error
	PingError   error

	StatusUpdates int
}

// Verify interface compliance
var _ repository.Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{Storage: repository.NewMemoryStorage()}
}

func (m *MockStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Storage.GetUser(ctx, id)
}

func (m *MockStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Storage.GetUserByUsername(ctx, username)
}

func (m *MockStorage) CreateUser(ctx context.Context, in *models.UserInput) (*models.User, error) {
	if m.WriteError != nil {
		return nil, m.WriteError
	}
	return m.Storage.CreateUser(ctx, in)
}

func (m *MockStorage) GetStories(ctx context.Context, status models.StoryStatus) ([]*models.Story, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Storage.GetStories(ctx, status)
}

func (m *MockStorage) GetStory(ctx context.Context, id int64) (*models.Story, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Storage.GetStory(ctx, id)
}

func (m *MockStorage) CreateStory(ctx context.Context, in *models.StoryInput) (*models.Story, error) {
	if m.WriteError != nil {
		return nil, m.WriteError
	}
	return m.Storage.CreateStory(ctx, in)
}

func (m *MockStorage) UpdateStoryStatus(ctx context.Context, id int64, status models.StoryStatus) (*models.Story, error) {
	m.StatusUpdates++
	if m.StatusError != nil {
		return nil, m.StatusError
	}
	if m.WriteError != nil {
		return nil, m.WriteError
	}
	return m.Storage.UpdateStoryStatus(ctx, id, status)
}

func (m *MockStorage) SetStoryFeatured(ctx context.Context, id int64, featured bool) (*models.Story, error) {
	if m.WriteError != nil {
		return nil, m.WriteError
	}
	return m.Storage.SetStoryFeatured(ctx, id, featured)
}

func (m *MockStorage) DeleteStory(ctx context.Context, id int64) (bool, error) {
	if m.WriteError != nil {
		return false, m.WriteError
	}
	return m.Storage.DeleteStory(ctx, id)
}

func (m *MockStorage) GetFeaturedStories(ctx context.Context) ([]*models.Story, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Storage.GetFeaturedStories(ctx)
}

func (m *MockStorage) SearchStories(ctx context.Context, query string) ([]*models.Story, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Storage.SearchStories(ctx, query)
}

func (m *MockStorage) GetStoriesByCategory(ctx context.Context, slug string) ([]*models.Story, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Storage.GetStoriesByCategory(ctx, slug)
}

func (m *MockStorage) GetCategories(ctx context.Context) ([]*models.Category, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.Storage.GetCategories(ctx)
}

func (m *MockStorage) CreateCategory(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	if m.WriteError != nil {
		return nil, m.WriteError
	}
	return m.Storage.CreateCategory(ctx, in)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingError != nil {
		return m.PingError
	}
	return m.Storage.Ping(ctx)
}
