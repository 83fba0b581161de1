package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/story-sharing-api/internal/models"
)

const (
	usersFile      = "users.json"
	storiesFile    = "stories.json"
	categoriesFile = "categories.json"
	sequencesFile  = "sequences.json"
)

// sequences holds the last id handed out per collection. It is persisted
// separately from the records so deleting the newest record never frees its id.
type sequences struct {
	Users      int64 `json:"users"`
	Stories    int64 `json:"stories"`
	Categories int64 `json:"categories"`
}

// fileStorage mirrors each collection to a JSON array on disk. The whole
// collection is rewritten on every mutation; writers of one collection are
// serialized by that collection's lock and in-memory state only changes after
// the file has been replaced.
type fileStorage struct {
	dir string
	log zerolog.Logger

	usersMu      sync.RWMutex
	storiesMu    sync.RWMutex
	categoriesMu sync.RWMutex
	seqMu        sync.Mutex

	users      []*models.User
	stories    []*models.Story
	categories []*models.Category
	seq        sequences
}

var _ Storage = (*fileStorage)(nil)

// NewFileStorage loads (or initializes) the JSON collections in dir
func NewFileStorage(dir string, log zerolog.Logger) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &fileStorage{
		dir: dir,
		log: log.With().Str("component", "file_storage").Str("dir", dir).Logger(),
	}

	if err := readJSONFile(s.path(usersFile), &s.users); err != nil {
		return nil, err
	}
	if err := readJSONFile(s.path(storiesFile), &s.stories); err != nil {
		return nil, err
	}
	if err := readJSONFile(s.path(categoriesFile), &s.categories); err != nil {
		return nil, err
	}
	if err := readJSONFile(s.path(sequencesFile), &s.seq); err != nil {
		return nil, err
	}
	if err := s.checkEntries(); err != nil {
		return nil, err
	}
	s.reconcileSequences()

	s.log.Info().
		Int("users", len(s.users)).
		Int("stories", len(s.stories)).
		Int("categories", len(s.categories)).
		Msg("File storage loaded")

	return s, nil
}

// checkEntries rejects collections holding null elements
func (s *fileStorage) checkEntries() error {
	for i, u := range s.users {
		if u == nil {
			return fmt.Errorf("corrupt %s: null entry at index %d", usersFile, i)
		}
	}
	for i, st := range s.stories {
		if st == nil {
			return fmt.Errorf("corrupt %s: null entry at index %d", storiesFile, i)
		}
	}
	for i, c := range s.categories {
		if c == nil {
			return fmt.Errorf("corrupt %s: null entry at index %d", categoriesFile, i)
		}
	}
	return nil
}

// reconcileSequences raises each counter to at least the highest stored id,
// covering data written before sequences.json existed or edited by hand
func (s *fileStorage) reconcileSequences() {
	for _, u := range s.users {
		if u.ID > s.seq.Users {
			s.seq.Users = u.ID
		}
	}
	for _, st := range s.stories {
		if st.ID > s.seq.Stories {
			s.seq.Stories = st.ID
		}
	}
	for _, c := range s.categories {
		if c.ID > s.seq.Categories {
			s.seq.Categories = c.ID
		}
	}
}

func (s *fileStorage) path(name string) string {
	return filepath.Join(s.dir, name)
}

// nextID reserves and persists the next id for a collection
func (s *fileStorage) nextID(counter func(*sequences) *int64) (int64, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	next := s.seq
	*counter(&next)++
	if err := writeJSONFile(s.path(sequencesFile), next); err != nil {
		return 0, err
	}
	s.seq = next
	return *counter(&next), nil
}

func userSeq(q *sequences) *int64     { return &q.Users }
func storySeq(q *sequences) *int64    { return &q.Stories }
func categorySeq(q *sequences) *int64 { return &q.Categories }

func (s *fileStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fileStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fileStorage) CreateUser(ctx context.Context, in *models.UserInput) (*models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	for _, u := range s.users {
		if u.Username == in.Username {
			return nil, models.ErrUsernameTaken
		}
	}

	id, err := s.nextID(userSeq)
	if err != nil {
		return nil, err
	}

	user := &models.User{ID: id, Username: in.Username, Password: in.Password}
	next := append(append(make([]*models.User, 0, len(s.users)+1), s.users...), user)
	if err := writeJSONFile(s.path(usersFile), next); err != nil {
		return nil, err
	}
	s.users = next

	c := *user
	return &c, nil
}

func (s *fileStorage) GetStories(ctx context.Context, status models.StoryStatus) ([]*models.Story, error) {
	s.storiesMu.RLock()
	defer s.storiesMu.RUnlock()
	return selectStories(s.stories, hasStatus(status)), nil
}

func (s *fileStorage) GetStory(ctx context.Context, id int64) (*models.Story, error) {
	s.storiesMu.RLock()
	defer s.storiesMu.RUnlock()

	for _, st := range s.stories {
		if st.ID == id {
			return st.Clone(), nil
		}
	}
	return nil, nil
}

func (s *fileStorage) CreateStory(ctx context.Context, in *models.StoryInput) (*models.Story, error) {
	s.storiesMu.Lock()
	defer s.storiesMu.Unlock()

	id, err := s.nextID(storySeq)
	if err != nil {
		return nil, err
	}

	story := newStory(id, in, now())
	next := append(append(make([]*models.Story, 0, len(s.stories)+1), s.stories...), story)
	if err := writeJSONFile(s.path(storiesFile), next); err != nil {
		return nil, err
	}
	s.stories = next

	s.log.Debug().Int64("story_id", id).Msg("Story persisted")
	return story.Clone(), nil
}

func (s *fileStorage) UpdateStoryStatus(ctx context.Context, id int64, status models.StoryStatus) (*models.Story, error) {
	return s.mutateStory(id, func(st *models.Story) { st.Status = status })
}

func (s *fileStorage) SetStoryFeatured(ctx context.Context, id int64, featured bool) (*models.Story, error) {
	return s.mutateStory(id, func(st *models.Story) { st.Featured = featured })
}

// mutateStory applies the change to a copy, persists the collection, then swaps it in
func (s *fileStorage) mutateStory(id int64, apply func(*models.Story)) (*models.Story, error) {
	s.storiesMu.Lock()
	defer s.storiesMu.Unlock()

	idx := s.storyIndex(id)
	if idx < 0 {
		return nil, nil
	}

	updated := s.stories[idx].Clone()
	apply(updated)
	updated.UpdatedAt = now()

	next := append(make([]*models.Story, 0, len(s.stories)), s.stories...)
	next[idx] = updated
	if err := writeJSONFile(s.path(storiesFile), next); err != nil {
		return nil, err
	}
	s.stories = next
	return updated.Clone(), nil
}

func (s *fileStorage) DeleteStory(ctx context.Context, id int64) (bool, error) {
	s.storiesMu.Lock()
	defer s.storiesMu.Unlock()

	idx := s.storyIndex(id)
	if idx < 0 {
		return false, nil
	}

	next := make([]*models.Story, 0, len(s.stories)-1)
	next = append(next, s.stories[:idx]...)
	next = append(next, s.stories[idx+1:]...)
	if err := writeJSONFile(s.path(storiesFile), next); err != nil {
		return false, err
	}
	s.stories = next
	return true, nil
}

func (s *fileStorage) storyIndex(id int64) int {
	for i, st := range s.stories {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func (s *fileStorage) GetFeaturedStories(ctx context.Context) ([]*models.Story, error) {
	s.storiesMu.RLock()
	defer s.storiesMu.RUnlock()
	return selectStories(s.stories, isFeaturedPublic), nil
}

func (s *fileStorage) SearchStories(ctx context.Context, query string) ([]*models.Story, error) {
	s.storiesMu.RLock()
	defer s.storiesMu.RUnlock()
	return selectStories(s.stories, matchesSearch(query)), nil
}

func (s *fileStorage) GetStoriesByCategory(ctx context.Context, slug string) ([]*models.Story, error) {
	s.storiesMu.RLock()
	defer s.storiesMu.RUnlock()
	return selectStories(s.stories, inCategory(slug)), nil
}

func (s *fileStorage) GetCategories(ctx context.Context) ([]*models.Category, error) {
	s.categoriesMu.RLock()
	defer s.categoriesMu.RUnlock()

	out := make([]*models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fileStorage) CreateCategory(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()

	for _, c := range s.categories {
		if c.Slug == in.Slug || c.Name == in.Name {
			return nil, models.ErrCategoryExists
		}
	}

	id, err := s.nextID(categorySeq)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:          id,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Icon:        in.Icon,
		Gradient:    in.Gradient,
	}
	next := append(append(make([]*models.Category, 0, len(s.categories)+1), s.categories...), category)
	if err := writeJSONFile(s.path(categoriesFile), next); err != nil {
		return nil, err
	}
	s.categories = next

	c := *category
	return &c, nil
}

func (s *fileStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

func (s *fileStorage) Close() error {
	return nil
}

// readJSONFile decodes path into dst; a missing file leaves dst untouched
func readJSONFile(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// writeJSONFile replaces path atomically by writing a temp file and renaming it
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", filepath.Base(path), err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
