package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/story-sharing-api/internal/config"
	"github.com/story-sharing-api/internal/database"
	"github.com/story-sharing-api/internal/models"
)

// Lookups return (nil, nil) when the record does not exist. A non-nil error
// always means the underlying medium failed.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, in *models.UserInput) (*models.User, error)
}

// StoryRepository defines the interface for story data operations.
// Every list is ordered newest first (createdAt desc, then id desc).
type StoryRepository interface {
	// GetStories returns stories with the given status, or all stories when status is empty
	GetStories(ctx context.Context, status models.StoryStatus) ([]*models.Story, error)
	GetStory(ctx context.Context, id int64) (*models.Story, error)
	// CreateStory assigns the id and timestamps and stores the story as pending
	CreateStory(ctx context.Context, in *models.StoryInput) (*models.Story, error)
	// UpdateStoryStatus does not check that status is a known value
	UpdateStoryStatus(ctx context.Context, id int64, status models.StoryStatus) (*models.Story, error)
	SetStoryFeatured(ctx context.Context, id int64, featured bool) (*models.Story, error)
	DeleteStory(ctx context.Context, id int64) (bool, error)
	// GetFeaturedStories returns approved stories with the featured flag set
	GetFeaturedStories(ctx context.Context) ([]*models.Story, error)
	// SearchStories matches query case-insensitively against title, content and tags of approved stories
	SearchStories(ctx context.Context, query string) ([]*models.Story, error)
	GetStoriesByCategory(ctx context.Context, slug string) ([]*models.Story, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	GetCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, in *models.CategoryInput) (*models.Category, error)
}

// Storage is the full persistence contract implemented by every backend
type Storage interface {
	UserRepository
	StoryRepository
	CategoryRepository

	// Ping reports whether the backing medium is reachable
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the backend selected by cfg.Storage.Backend and seeds the
// default categories when none exist yet
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Storage, error) {
	var (
		store Storage
		err   error
	)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		store = NewMemoryStorage()
	case config.BackendFile:
		store, err = NewFileStorage(cfg.Storage.DataDir, log)
	case config.BackendPostgres:
		store, err = openPostgres(ctx, &cfg.Database, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := SeedCategories(ctx, store, log); err != nil {
		store.Close()
		return nil, err
	}

	log.Info().Str("backend", cfg.Storage.Backend).Msg("Storage initialized")
	return store, nil
}

func openPostgres(ctx context.Context, cfg *config.DatabaseConfig, log zerolog.Logger) (Storage, error) {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, err
	}
	return NewPostgresStorage(db), nil
}

// SeedCategories creates the default categories when the category set is empty
func SeedCategories(ctx context.Context, repo CategoryRepository, log zerolog.Logger) error {
	existing, err := repo.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if len(existing) > 0 {
		log.Debug().Int("count", len(existing)).Msg("Categories present, skipping seed")
		return nil
	}

	for i := range models.DefaultCategories {
		in := models.DefaultCategories[i]
		if _, err := repo.CreateCategory(ctx, &in); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", in.Slug, err)
		}
	}

	log.Info().Int("count", len(models.DefaultCategories)).Msg("Default categories created")
	return nil
}
