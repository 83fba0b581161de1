package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/story-sharing-api/internal/models"
	"github.com/story-sharing-api/internal/repository"
	"github.com/story-sharing-api/internal/validation"
)

// categoryService is the concrete implementation of CategoryService
type categoryService struct {
	categories repository.CategoryRepository
	stories    repository.StoryRepository
	validator  *validation.Validator
	log        zerolog.Logger
}

func newCategoryService(categories repository.CategoryRepository, stories repository.StoryRepository, v *validation.Validator, log zerolog.Logger) *categoryService {
	return &categoryService{
		categories: categories,
		stories:    stories,
		validator:  v,
		log:        log.With().Str("service", "category").Logger(),
	}
}

// ListWithCounts returns every category with the number of approved stories in it
func (s *categoryService) ListWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error) {
	categories, err := s.categories.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]*models.CategoryWithCount, 0, len(categories))
	for _, c := range categories {
		stories, err := s.stories.GetStoriesByCategory(ctx, c.Slug)
		if err != nil {
			return nil, fmt.Errorf("count stories for %s: %w", c.Slug, err)
		}
		out = append(out, &models.CategoryWithCount{Category: *c, StoryCount: len(stories)})
	}
	return out, nil
}

func (s *categoryService) Create(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	if errs := s.validator.ValidateCategory(in); len(errs) > 0 {
		return nil, errs
	}
	category, err := s.categories.CreateCategory(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.log.Info().Str("slug", category.Slug).Msg("Category created")
	return category, nil
}
