package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/story-sharing-api/internal/models"
	"github.com/story-sharing-api/internal/service"
	"github.com/story-sharing-api/internal/validation"
)

// StoryHandler handles story endpoints
type StoryHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(services *service.Services, log zerolog.Logger) *StoryHandler {
	return &StoryHandler{
		services:  services,
		validator: validation.NewValidator(),
		log:       log.With().Str("handler", "story").Logger(),
	}
}

// ListStories handles GET /api/stories?category=&search=
func (h *StoryHandler) ListStories(c *gin.Context) {
	filter := service.ListFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	stories, err := h.services.Story.ListPublic(c.Request.Context(), filter)
	if err != nil {
		h.internalError(c, err, "Failed to fetch stories")
		return
	}
	c.JSON(http.StatusOK, stories)
}

// ListFeatured handles GET /api/stories/featured
func (h *StoryHandler) ListFeatured(c *gin.Context) {
	stories, err := h.services.Story.Featured(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to fetch featured stories")
		return
	}
	c.JSON(http.StatusOK, stories)
}

// GetStory handles GET /api/stories/:id
func (h *StoryHandler) GetStory(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}

	story, err := h.services.Story.GetPublic(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err, "Failed to fetch story")
		return
	}
	if story == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Story not found"})
		return
	}
	c.JSON(http.StatusOK, story)
}

// CreateStory handles POST /api/stories
func (h *StoryHandler) CreateStory(c *gin.Context) {
	var in models.StoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	story, err := h.services.Story.Submit(c.Request.Context(), &in)
	if err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid story data", "errors": verrs})
			return
		}
		h.internalError(c, err, "Failed to create story")
		return
	}
	c.JSON(http.StatusCreated, story)
}

// ListAllStories handles GET /api/admin/stories?status=
func (h *StoryHandler) ListAllStories(c *gin.Context) {
	h.listByStatus(c, models.StoryStatus(c.Query("status")))
}

// ListPendingStories handles GET /api/admin/stories/pending
func (h *StoryHandler) ListPendingStories(c *gin.Context) {
	h.listByStatus(c, models.StoryStatusPending)
}

func (h *StoryHandler) listByStatus(c *gin.Context, status models.StoryStatus) {
	stories, err := h.services.Story.ListAll(c.Request.Context(), status)
	if errors.Is(err, models.ErrInvalidStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}
	if err != nil {
		h.internalError(c, err, "Failed to fetch stories")
		return
	}
	c.JSON(http.StatusOK, stories)
}

// UpdateStatus handles PATCH /api/stories/:id/status
func (h *StoryHandler) UpdateStatus(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}

	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if verrs := h.validator.ValidateStatusUpdate(&req); len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status", "errors": verrs})
		return
	}

	story, err := h.services.Story.UpdateStatus(c.Request.Context(), id, req.Status)
	switch {
	case errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Story cannot be returned to pending"})
		return
	case err != nil:
		h.internalError(c, err, "Failed to update story status")
		return
	}
	if story == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Story not found"})
		return
	}
	c.JSON(http.StatusOK, story)
}

// UpdateFeatured handles PATCH /api/stories/:id/feature
func (h *StoryHandler) UpdateFeatured(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}

	var req models.FeatureUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if verrs := h.validator.ValidateFeatureUpdate(&req); len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid featured value", "errors": verrs})
		return
	}

	story, err := h.services.Story.SetFeatured(c.Request.Context(), id, *req.Featured)
	if err != nil {
		h.internalError(c, err, "Failed to update featured status")
		return
	}
	if story == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Story not found"})
		return
	}
	c.JSON(http.StatusOK, story)
}

// DeleteStory handles DELETE /api/stories/:id
func (h *StoryHandler) DeleteStory(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}

	deleted, err := h.services.Story.Delete(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err, "Failed to delete story")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": "Story not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StoryHandler) internalError(c *gin.Context, err error, message string) {
	h.log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"message": message})
}

// storyID parses the :id path parameter and writes a 400 when it is not a positive integer
func storyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid story id"})
		return 0, false
	}
	return id, true
}
