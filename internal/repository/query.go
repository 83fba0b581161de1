package repository

import (
	"sort"
	"strings"
	"time"

	"github.com/story-sharing-api/internal/models"
)

// Helpers shared by the in-process backends (memory and file).

func now() time.Time {
	return time.Now().UTC()
}

// normalizeTags never returns nil so every backend reports tags as a JSON array
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	return append(out, tags...)
}

func newStory(id int64, in *models.StoryInput, at time.Time) *models.Story {
	return &models.Story{
		ID:            id,
		Title:         in.Title,
		Content:       in.Content,
		AuthorName:    in.AuthorName,
		AuthorEmail:   in.AuthorEmail,
		Category:      in.Category,
		Tags:          normalizeTags(in.Tags),
		Status:        models.StoryStatusPending,
		Featured:      false,
		AllowComments: in.CommentsAllowed(),
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

// selectStories clones the stories accepted by keep and orders them newest first
func selectStories(stories []*models.Story, keep func(*models.Story) bool) []*models.Story {
	out := make([]*models.Story, 0)
	for _, s := range stories {
		if keep == nil || keep(s) {
			out = append(out, s.Clone())
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(stories []*models.Story) {
	sort.SliceStable(stories, func(i, j int) bool {
		a, b := stories[i], stories[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func hasStatus(status models.StoryStatus) func(*models.Story) bool {
	if status == "" {
		return nil
	}
	return func(s *models.Story) bool { return s.Status == status }
}

func isFeaturedPublic(s *models.Story) bool {
	return s.Featured && s.IsPublic()
}

func inCategory(slug string) func(*models.Story) bool {
	return func(s *models.Story) bool {
		return s.IsPublic() && s.Category == slug
	}
}

func matchesSearch(query string) func(*models.Story) bool {
	q := strings.ToLower(query)
	return func(s *models.Story) bool {
		if !s.IsPublic() {
			return false
		}
		if strings.Contains(strings.ToLower(s.Title), q) || strings.Contains(strings.ToLower(s.Content), q) {
			return true
		}
		for _, tag := range s.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	}
}
