package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/story-sharing-api/internal/config"
	"github.com/story-sharing-api/internal/models"
	"github.com/story-sharing-api/internal/repository"
	"github.com/story-sharing-api/internal/validation"
)

// ListFilter narrows the public story listing. Both fields may be set.
type ListFilter struct {
	Search   string
	Category string
}

// StoryService defines story submission, browsing and moderation
type StoryService interface {
	// ListPublic returns approved stories, optionally searched and/or filtered by category
	ListPublic(ctx context.Context, filter ListFilter) ([]*models.Story, error)
	// GetPublic returns the story only when it is approved
	GetPublic(ctx context.Context, id int64) (*models.Story, error)
	Featured(ctx context.Context) ([]*models.Story, error)
	// Submit validates and stores a new story; validation problems are returned as validation.ValidationErrors
	Submit(ctx context.Context, in *models.StoryInput) (*models.Story, error)

	// ListAll is the administrative listing; an empty status returns every story
	ListAll(ctx context.Context, status models.StoryStatus) ([]*models.Story, error)
	UpdateStatus(ctx context.Context, id int64, status models.StoryStatus) (*models.Story, error)
	SetFeatured(ctx context.Context, id int64, featured bool) (*models.Story, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CategoryService defines category operations
type CategoryService interface {
	ListWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error)
	Create(ctx context.Context, in *models.CategoryInput) (*models.Category, error)
}

// HealthService reports whether the storage backend is reachable
type HealthService interface {
	Check(ctx context.Context) error
}

// Services holds all service interfaces
type Services struct {
	Story    StoryService
	Category CategoryService
	Health   HealthService
}

// NewServices creates all services on top of one storage backend
func NewServices(store repository.Storage, cfg *config.Config, log zerolog.Logger) *Services {
	v := validation.NewValidator()
	return &Services{
		Story:    newStoryService(store, v, cfg.Moderation, log),
		Category: newCategoryService(store, store, v, log),
		Health:   healthService{store: store},
	}
}

type healthService struct {
	store repository.Storage
}

func (h healthService) Check(ctx context.Context) error {
	return h.store.Ping(ctx)
}
