package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/story-sharing-api/internal/config"
	"github.com/story-sharing-api/internal/models"
	"github.com/story-sharing-api/internal/repository"
	"github.com/story-sharing-api/internal/validation"
)

// storyService is the concrete implementation of StoryService
type storyService struct {
	stories   repository.StoryRepository
	validator *validation.Validator
	cfg       config.ModerationConfig
	log       zerolog.Logger
}

func newStoryService(stories repository.StoryRepository, v *validation.Validator, cfg config.ModerationConfig, log zerolog.Logger) *storyService {
	return &storyService{
		stories:   stories,
		validator: v,
		cfg:       cfg,
		log:       log.With().Str("service", "story").Logger(),
	}
}

func (s *storyService) ListPublic(ctx context.Context, filter ListFilter) ([]*models.Story, error) {
	switch {
	case filter.Search != "":
		found, err := s.stories.SearchStories(ctx, filter.Search)
		if err != nil {
			return nil, fmt.Errorf("search stories: %w", err)
		}
		if filter.Category == "" {
			return found, nil
		}
		out := make([]*models.Story, 0, len(found))
		for _, st := range found {
			if st.Category == filter.Category {
				out = append(out, st)
			}
		}
		return out, nil
	case filter.Category != "":
		stories, err := s.stories.GetStoriesByCategory(ctx, filter.Category)
		if err != nil {
			return nil, fmt.Errorf("list stories by category: %w", err)
		}
		return stories, nil
	default:
		stories, err := s.stories.GetStories(ctx, models.StoryStatusApproved)
		if err != nil {
			return nil, fmt.Errorf("list approved stories: %w", err)
		}
		return stories, nil
	}
}

func (s *storyService) GetPublic(ctx context.Context, id int64) (*models.Story, error) {
	story, err := s.stories.GetStory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get story %d: %w", id, err)
	}
	if story == nil || !story.IsPublic() {
		return nil, nil
	}
	return story, nil
}

func (s *storyService) Featured(ctx context.Context) ([]*models.Story, error) {
	stories, err := s.stories.GetFeaturedStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list featured stories: %w", err)
	}
	if limit := s.cfg.FeaturedLimit; limit > 0 && len(stories) > limit {
		stories = stories[:limit]
	}
	return stories, nil
}

func (s *storyService) Submit(ctx context.Context, in *models.StoryInput) (*models.Story, error) {
	if errs := s.validator.ValidateStory(in); len(errs) > 0 {
		return nil, errs
	}

	story, err := s.stories.CreateStory(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}

	s.log.Info().
		Int64("story_id", story.ID).
		Str("category", story.Category).
		Msg("Story submitted")

	if !s.cfg.AutoApprove {
		return story, nil
	}

	approved, err := s.stories.UpdateStoryStatus(ctx, story.ID, models.StoryStatusApproved)
	if err != nil || approved == nil {
		// The submission itself succeeded; leave it in the moderation queue.
		s.log.Warn().Err(err).Int64("story_id", story.ID).Msg("Auto-approve failed, story left pending")
		return story, nil
	}
	return approved, nil
}

func (s *storyService) ListAll(ctx context.Context, status models.StoryStatus) ([]*models.Story, error) {
	if status != "" && !status.IsValid() {
		return nil, models.ErrInvalidStatus
	}
	stories, err := s.stories.GetStories(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

// UpdateStatus moves a story between moderation states. A story that has left
// pending can never return to it.
func (s *storyService) UpdateStatus(ctx context.Context, id int64, status models.StoryStatus) (*models.Story, error) {
	if !status.IsValid() {
		return nil, models.ErrInvalidStatus
	}

	current, err := s.stories.GetStory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get story %d: %w", id, err)
	}
	if current == nil {
		return nil, nil
	}
	if status == models.StoryStatusPending {
		if current.Status != models.StoryStatusPending {
			return nil, models.ErrInvalidTransition
		}
		return current, nil
	}

	updated, err := s.stories.UpdateStoryStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update story %d status: %w", id, err)
	}
	if updated != nil {
		s.log.Info().
			Int64("story_id", id).
			Str("from", string(current.Status)).
			Str("to", string(status)).
			Msg("Story status changed")
	}
	return updated, nil
}

func (s *storyService) SetFeatured(ctx context.Context, id int64, featured bool) (*models.Story, error) {
	updated, err := s.stories.SetStoryFeatured(ctx, id, featured)
	if err != nil {
		return nil, fmt.Errorf("set story %d featured: %w", id, err)
	}
	if updated != nil && featured && !updated.IsPublic() {
		s.log.Debug().Int64("story_id", id).Str("status", string(updated.Status)).
			Msg("Featured flag set on a story that is not approved")
	}
	return updated, nil
}

func (s *storyService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.stories.DeleteStory(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete story %d: %w", id, err)
	}
	if deleted {
		s.log.Info().Int64("story_id", id).Msg("Story deleted")
	}
	return deleted, nil
}
