package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/story-sharing-api/internal/models"
)

// memoryStorage keeps every record in process memory. Data is lost on restart.
type memoryStorage struct {
	mu sync.RWMutex

	users      map[int64]*models.User
	stories    map[int64]*models.Story
	categories map[int64]*models.Category

	nextUserID     int64
	nextStoryID    int64
	nextCategoryID int64
}

var _ Storage = (*memoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory backend
func NewMemoryStorage() Storage {
	return &memoryStorage{
		users:          make(map[int64]*models.User),
		stories:        make(map[int64]*models.Story),
		categories:     make(map[int64]*models.Category),
		nextUserID:     1,
		nextStoryID:    1,
		nextCategoryID: 1,
	}
}

func (m *memoryStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (m *memoryStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memoryStorage) CreateUser(ctx context.Context, in *models.UserInput) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == in.Username {
			return nil, models.ErrUsernameTaken
		}
	}

	user := &models.User{ID: m.nextUserID, Username: in.Username, Password: in.Password}
	m.nextUserID++
	m.users[user.ID] = user

	c := *user
	return &c, nil
}

// storyList snapshots the story map; callers must hold the read lock
func (m *memoryStorage) storyList() []*models.Story {
	out := make([]*models.Story, 0, len(m.stories))
	for _, s := range m.stories {
		out = append(out, s)
	}
	return out
}

func (m *memoryStorage) GetStories(ctx context.Context, status models.StoryStatus) ([]*models.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return selectStories(m.storyList(), hasStatus(status)), nil
}

func (m *memoryStorage) GetStory(ctx context.Context, id int64) (*models.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stories[id].Clone(), nil
}

func (m *memoryStorage) CreateStory(ctx context.Context, in *models.StoryInput) (*models.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	story := newStory(m.nextStoryID, in, now())
	m.nextStoryID++
	m.stories[story.ID] = story
	return story.Clone(), nil
}

func (m *memoryStorage) UpdateStoryStatus(ctx context.Context, id int64, status models.StoryStatus) (*models.Story, error) {
	return m.mutateStory(id, func(s *models.Story) { s.Status = status })
}

func (m *memoryStorage) SetStoryFeatured(ctx context.Context, id int64, featured bool) (*models.Story, error) {
	return m.mutateStory(id, func(s *models.Story) { s.Featured = featured })
}

func (m *memoryStorage) mutateStory(id int64, apply func(*models.Story)) (*models.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	story, ok := m.stories[id]
	if !ok {
		return nil, nil
	}
	apply(story)
	story.UpdatedAt = now()
	return story.Clone(), nil
}

func (m *memoryStorage) DeleteStory(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stories[id]; !ok {
		return false, nil
	}
	delete(m.stories, id)
	return true, nil
}

func (m *memoryStorage) GetFeaturedStories(ctx context.Context) ([]*models.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return selectStories(m.storyList(), isFeaturedPublic), nil
}

func (m *memoryStorage) SearchStories(ctx context.Context, query string) ([]*models.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return selectStories(m.storyList(), matchesSearch(query)), nil
}

func (m *memoryStorage) GetStoriesByCategory(ctx context.Context, slug string) ([]*models.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return selectStories(m.storyList(), inCategory(slug)), nil
}

func (m *memoryStorage) GetCategories(ctx context.Context) ([]*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStorage) CreateCategory(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.categories {
		if c.Slug == in.Slug || c.Name == in.Name {
			return nil, models.ErrCategoryExists
		}
	}

	category := &models.Category{
		ID:          m.nextCategoryID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Icon:        in.Icon,
		Gradient:    in.Gradient,
	}
	m.nextCategoryID++
	m.categories[category.ID] = category

	c := *category
	return &c, nil
}

func (m *memoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (m *memoryStorage) Close() error {
	return nil
}
