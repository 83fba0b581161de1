package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/story-sharing-api/internal/database"
	"github.com/story-sharing-api/internal/models"
)

const uniqueViolation = "23505"

const storyColumns = `id, title, content, author_name, author_email, category, tags, status, featured, allow_comments, created_at, updated_at`

// postgresStorage is the concrete implementation of Storage backed by PostgreSQL
type postgresStorage struct {
	db *database.DB
}

var _ Storage = (*postgresStorage)(nil)

// NewPostgresStorage creates a storage backend on an open, migrated database
func NewPostgresStorage(db *database.DB) Storage {
	return &postgresStorage{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStory(row rowScanner) (*models.Story, error) {
	var story models.Story
	var tags pq.StringArray
	err := row.Scan(
		&story.ID, &story.Title, &story.Content, &story.AuthorName, &story.AuthorEmail,
		&story.Category, &tags, &story.Status, &story.Featured, &story.AllowComments,
		&story.CreatedAt, &story.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	story.Tags = normalizeTags(tags)
	story.CreatedAt = story.CreatedAt.UTC()
	story.UpdatedAt = story.UpdatedAt.UTC()
	return &story, nil
}

// queryOneStory returns (nil, nil) when no row matches
func (r *postgresStorage) queryOneStory(ctx context.Context, query string, args ...interface{}) (*models.Story, error) {
	story, err := scanStory(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query story: %w", err)
	}
	return story, nil
}

func (r *postgresStorage) queryStories(ctx context.Context, query string, args ...interface{}) ([]*models.Story, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}
	defer rows.Close()

	stories := make([]*models.Story, 0)
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stories: %w", err)
	}
	return stories, nil
}

// GetUser retrieves a user by ID
func (r *postgresStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return r.queryOneUser(ctx, `SELECT id, username, password FROM users WHERE id = $1`, id)
}

// GetUserByUsername retrieves a user by username
func (r *postgresStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.queryOneUser(ctx, `SELECT id, username, password FROM users WHERE username = $1`, username)
}

func (r *postgresStorage) queryOneUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new user; the schema enforces username uniqueness
func (r *postgresStorage) CreateUser(ctx context.Context, in *models.UserInput) (*models.User, error) {
	user := models.User{Username: in.Username, Password: in.Password}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`,
		in.Username, in.Password,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &user, nil
}

// GetStories lists stories, optionally restricted to one status
func (r *postgresStorage) GetStories(ctx context.Context, status models.StoryStatus) ([]*models.Story, error) {
	if status == "" {
		return r.queryStories(ctx,
			`SELECT `+storyColumns+` FROM stories ORDER BY created_at DESC, id DESC`)
	}
	return r.queryStories(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE status = $1 ORDER BY created_at DESC, id DESC`,
		status)
}

// GetStory retrieves a story by ID regardless of status
func (r *postgresStorage) GetStory(ctx context.Context, id int64) (*models.Story, error) {
	return r.queryOneStory(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = $1`, id)
}

// CreateStory inserts a pending story
func (r *postgresStorage) CreateStory(ctx context.Context, in *models.StoryInput) (*models.Story, error) {
	at := dbNow()

	query := `
		INSERT INTO stories (title, content, author_name, author_email, category, tags, status, featured, allow_comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9, $9)
		RETURNING ` + storyColumns

	story, err := scanStory(r.db.QueryRowContext(ctx, query,
		in.Title, in.Content, in.AuthorName, in.AuthorEmail, in.Category,
		pq.Array(normalizeTags(in.Tags)), models.StoryStatusPending, in.CommentsAllowed(), at,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert story: %w", err)
	}
	return story, nil
}

// UpdateStoryStatus sets the moderation status
func (r *postgresStorage) UpdateStoryStatus(ctx context.Context, id int64, status models.StoryStatus) (*models.Story, error) {
	return r.queryOneStory(ctx,
		`UPDATE stories SET status = $2, updated_at = $3 WHERE id = $1 RETURNING `+storyColumns,
		id, status, dbNow())
}

// SetStoryFeatured toggles the featured flag
func (r *postgresStorage) SetStoryFeatured(ctx context.Context, id int64, featured bool) (*models.Story, error) {
	return r.queryOneStory(ctx,
		`UPDATE stories SET featured = $2, updated_at = $3 WHERE id = $1 RETURNING `+storyColumns,
		id, featured, dbNow())
}

// DeleteStory removes a story permanently
func (r *postgresStorage) DeleteStory(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete story: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// GetFeaturedStories lists approved featured stories
func (r *postgresStorage) GetFeaturedStories(ctx context.Context) ([]*models.Story, error) {
	return r.queryStories(ctx,
		`SELECT `+storyColumns+` FROM stories
		 WHERE featured AND status = $1
		 ORDER BY created_at DESC, id DESC`,
		models.StoryStatusApproved)
}

// SearchStories matches the query against title, content and tags with ILIKE
func (r *postgresStorage) SearchStories(ctx context.Context, query string) ([]*models.Story, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.queryStories(ctx,
		`SELECT `+storyColumns+` FROM stories
		 WHERE status = $1
		   AND (title ILIKE $2 ESCAPE '\'
		        OR content ILIKE $2 ESCAPE '\'
		        OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $2 ESCAPE '\'))
		 ORDER BY created_at DESC, id DESC`,
		models.StoryStatusApproved, pattern)
}

// GetStoriesByCategory lists approved stories in one category
func (r *postgresStorage) GetStoriesByCategory(ctx context.Context, slug string) ([]*models.Story, error) {
	return r.queryStories(ctx,
		`SELECT `+storyColumns+` FROM stories
		 WHERE status = $1 AND category = $2
		 ORDER BY created_at DESC, id DESC`,
		models.StoryStatusApproved, slug)
}

// GetCategories lists every category in creation order
func (r *postgresStorage) GetCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, slug, description, icon, gradient FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Gradient); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a new category; the schema enforces slug and name uniqueness
func (r *postgresStorage) CreateCategory(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	category := models.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Icon:        in.Icon,
		Gradient:    in.Gradient,
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, slug, description, icon, gradient) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		in.Name, in.Slug, in.Description, in.Icon, in.Gradient,
	).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return &category, nil
}

func (r *postgresStorage) Ping(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

func (r *postgresStorage) Close() error {
	return r.db.Close()
}

// dbNow is the current time at the precision timestamptz stores
func dbNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
