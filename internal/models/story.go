package models

import (
	"time"
)

// StoryStatus represents the moderation state of a story
type StoryStatus string

const (
	StoryStatusPending  StoryStatus = "pending"
	StoryStatusApproved StoryStatus = "approved"
	StoryStatusRejected StoryStatus = "rejected"
)

// ValidStoryStatuses defines allowed story statuses
var ValidStoryStatuses = map[StoryStatus]bool{
	StoryStatusPending:  true,
	StoryStatusApproved: true,
	StoryStatusRejected: true,
}

// IsValid reports whether s is one of the known statuses
func (s StoryStatus) IsValid() bool {
	return ValidStoryStatuses[s]
}

// Story represents a submitted narrative
type Story struct {
	ID            int64       `json:"id" db:"id"`
	Title         string      `json:"title" db:"title"`
	Content       string      `json:"content" db:"content"`
	AuthorName    string      `json:"authorName" db:"author_name"`
	AuthorEmail   string      `json:"authorEmail" db:"author_email"`
	Category      string      `json:"category" db:"category"`
	Tags          []string    `json:"tags" db:"tags"`
	Status        StoryStatus `json:"status" db:"status"`
	Featured      bool        `json:"featured" db:"featured"`
	AllowComments bool        `json:"allowComments" db:"allow_comments"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`
}

// IsPublic reports whether the story may be shown to readers
func (s *Story) IsPublic() bool {
	return s.Status == StoryStatusApproved
}

// Clone returns a deep copy so callers cannot mutate stored state
func (s *Story) Clone() *Story {
	if s == nil {
		return nil
	}
	c := *s
	if s.Tags != nil {
		c.Tags = append([]string(nil), s.Tags...)
	}
	return &c
}

// StoryInput is the payload accepted when a story is submitted
type StoryInput struct {
	Title         string   `json:"title" validate:"required,notblank"`
	Content       string   `json:"content" validate:"required,notblank"`
	AuthorName    string   `json:"authorName" validate:"required,notblank"`
	AuthorEmail   string   `json:"authorEmail" validate:"required,email"`
	Category      string   `json:"category" validate:"required,notblank"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,required,notblank"`
	AllowComments *bool    `json:"allowComments,omitempty"`
}

// CommentsAllowed resolves the allowComments default
func (in *StoryInput) CommentsAllowed() bool {
	if in.AllowComments == nil {
		return true
	}
	return *in.AllowComments
}

// StatusUpdateRequest is the body of PATCH /stories/:id/status
type StatusUpdateRequest struct {
	Status StoryStatus `json:"status" validate:"required,storystatus"`
}

// FeatureUpdateRequest is the body of PATCH /stories/:id/feature
type FeatureUpdateRequest struct {
	Featured *bool `json:"featured" validate:"required"`
}
