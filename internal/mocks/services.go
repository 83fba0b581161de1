package mocks

import (
	"context"
	"sort"

	"github.com/story-sharing-api/internal/models"
	"github.com/story-sharing-api/internal/service"
)

// MockStoryService is a mock implementation of StoryService backed by a map.
// Func fields override the default behavior.
type MockStoryService struct {
	Stories map[int64]*models.Story
	NextID  int64

	ListPublicFunc   func(ctx context.Context, filter service.ListFilter) ([]*models.Story, error)
	SubmitFunc       func(ctx context.Context, in *models.StoryInput) (*models.Story, error)
	UpdateStatusFunc func(ctx context.Context, id int64, status models.StoryStatus) (*models.Story, error)
	Err              error

	LastFilter service.ListFilter
	Submitted  []*models.StoryInput
}

// Verify interface compliance
var _ service.StoryService = (*MockStoryService)(nil)

func NewMockStoryService() *MockStoryService {
	return &MockStoryService{
		Stories:   make(map[int64]*models.Story),
		NextID:    1,
		Submitted: make([]*models.StoryInput, 0),
	}
}

// Add stores a story under the next id and returns it
func (m *MockStoryService) Add(story *models.Story) *models.Story {
	story.ID = m.NextID
	m.NextID++
	m.Stories[story.ID] = story
	return story
}

func (m *MockStoryService) sorted(keep func(*models.Story) bool) []*models.Story {
	out := make([]*models.Story, 0, len(m.Stories))
	for _, s := range m.Stories {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *MockStoryService) ListPublic(ctx context.Context, filter service.ListFilter) ([]*models.Story, error) {
	m.LastFilter = filter
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, filter)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.sorted(func(s *models.Story) bool {
		return s.IsPublic() && (filter.Category == "" || s.Category == filter.Category)
	}), nil
}

func (m *MockStoryService) GetPublic(ctx context.Context, id int64) (*models.Story, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.Stories[id]
	if !ok || !s.IsPublic() {
		return nil, nil
	}
	return s, nil
}

func (m *MockStoryService) Featured(ctx context.Context) ([]*models.Story, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.sorted(func(s *models.Story) bool { return s.IsPublic() && s.Featured }), nil
}

func (m *MockStoryService) Submit(ctx context.Context, in *models.StoryInput) (*models.Story, error) {
	m.Submitted = append(m.Submitted, in)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, in)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Add(&models.Story{
		Title:         in.Title,
		Content:       in.Content,
		AuthorName:    in.AuthorName,
		AuthorEmail:   in.AuthorEmail,
		Category:      in.Category,
		Tags:          in.Tags,
		Status:        models.StoryStatusPending,
		AllowComments: in.CommentsAllowed(),
	}), nil
}

func (m *MockStoryService) ListAll(ctx context.Context, status models.StoryStatus) ([]*models.Story, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if status != "" && !status.IsValid() {
		return nil, models.ErrInvalidStatus
	}
	return m.sorted(func(s *models.Story) bool { return status == "" || s.Status == status }), nil
}

func (m *MockStoryService) UpdateStatus(ctx context.Context, id int64, status models.StoryStatus) (*models.Story, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.Stories[id]
	if !ok {
		return nil, nil
	}
	s.Status = status
	return s, nil
}

func (m *MockStoryService) SetFeatured(ctx context.Context, id int64, featured bool) (*models.Story, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.Stories[id]
	if !ok {
		return nil, nil
	}
	s.Featured = featured
	return s, nil
}

func (m *MockStoryService) Delete(ctx context.Context, id int64) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	if _, ok := m.Stories[id]; !ok {
		return false, nil
	}
	delete(m.Stories, id)
	return true, nil
}

// MockCategoryService is a mock implementation of CategoryService
type MockCategoryService struct {
	Categories []*models.CategoryWithCount
	Err        error
}

// Verify interface compliance
var _ service.CategoryService = (*MockCategoryService)(nil)

func NewMockCategoryService() *MockCategoryService {
	return &MockCategoryService{Categories: make([]*models.CategoryWithCount, 0)}
}

func (m *MockCategoryService) ListWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}

func (m *MockCategoryService) Create(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, existing := range m.Categories {
		if existing.Slug == in.Slug || existing.Name == in.Name {
			return nil, models.ErrCategoryExists
		}
	}
	c := models.Category{
		ID:          int64(len(m.Categories) + 1),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Icon:        in.Icon,
		Gradient:    in.Gradient,
	}
	m.Categories = append(m.Categories, &models.CategoryWithCount{Category: c})
	return &c, nil
}

// MockHealthService is a mock implementation of HealthService
type MockHealthService struct {
	Err error
}

// Verify interface compliance
var _ service.HealthService = (*MockHealthService)(nil)

func (m *MockHealthService) Check(ctx context.Context) error {
	return m.Err
}
