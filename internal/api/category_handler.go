package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/story-sharing-api/internal/models"
	"github.com/story-sharing-api/internal/service"
	"github.com/story-sharing-api/internal/validation"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(services *service.Services, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		services: services,
		log:      log.With().Str("handler", "category").Logger(),
	}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.services.Category.ListWithCounts(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Failed to fetch categories")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles POST /api/admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	category, err := h.services.Category.Create(c.Request.Context(), &in)
	if err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category data", "errors": verrs})
			return
		}
		if errors.Is(err, models.ErrCategoryExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "Category already exists"})
			return
		}
		h.log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Failed to create category")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}
