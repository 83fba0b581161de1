package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/story-sharing-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestFileStorage(t *testing.T) {
	suite.Run(t, &StorageSuite{
		newStorage: func(t *testing.T) Storage {
			store, err := NewFileStorage(t.TempDir(), zerolog.Nop())
			require.NoError(t, err)
			return store
		},
	})
}

func openFileStorage(t *testing.T, dir string) Storage {
	t.Helper()
	store, err := NewFileStorage(dir, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestFileStorage_ReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := openFileStorage(t, dir)
	require.NoError(t, SeedCategories(ctx, first, zerolog.Nop()))

	var written []*models.Story
	for _, title := range []string{"one", "two", "three", "four"} {
		st, err := first.CreateStory(ctx, storyInput(title))
		require.NoError(t, err)
		written = append(written, st)
	}
	approved, err := first.UpdateStoryStatus(ctx, written[1].ID, models.StoryStatusApproved)
	require.NoError(t, err)
	written[1] = approved
	featured, err := first.SetStoryFeatured(ctx, written[1].ID, true)
	require.NoError(t, err)
	written[1] = featured

	user, err := first.CreateUser(ctx, &models.UserInput{Username: "admin", Password: "pw"})
	require.NoError(t, err)

	second := openFileStorage(t, dir)

	for _, want := range written {
		got, err := second.GetStory(ctx, want.ID)
		require.NoError(t, err)
		assertSameStory(t, want, got)
	}

	all, err := second.GetStories(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(written))

	categories, err := second.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	reloadedUser, err := second.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user, reloadedUser)

	// Seeding after reload must not duplicate categories
	require.NoError(t, SeedCategories(ctx, second, zerolog.Nop()))
	categories, err = second.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4)
}

func TestFileStorage_DeletedHighestIDIsNotReused(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := openFileStorage(t, dir)
	_, err := store.CreateStory(ctx, storyInput("one"))
	require.NoError(t, err)
	last, err := store.CreateStory(ctx, storyInput("two"))
	require.NoError(t, err)

	deleted, err := store.DeleteStory(ctx, last.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	reloaded := openFileStorage(t, dir)
	next, err := reloaded.CreateStory(ctx, storyInput("three"))
	require.NoError(t, err)
	assert.Greater(t, next.ID, last.ID)
}

func TestFileStorage_ReconcilesLegacyFilesWithoutSequences(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	legacy := []*models.Story{
		{ID: 3, Title: "t", Content: "c", AuthorName: "a", AuthorEmail: "a@b.co", Category: "social-justice",
			Tags: []string{}, Status: models.StoryStatusApproved, AllowComments: true, CreatedAt: at, UpdatedAt: at},
		{ID: 7, Title: "t2", Content: "c2", AuthorName: "a", AuthorEmail: "a@b.co", Category: "social-justice",
			Tags: []string{}, Status: models.StoryStatusPending, AllowComments: true, CreatedAt: at, UpdatedAt: at},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, storiesFile), data, 0o644))

	store := openFileStorage(t, dir)
	st, err := store.CreateStory(ctx, storyInput("new"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), st.ID)

	var seq sequences
	raw, err := os.ReadFile(filepath.Join(dir, sequencesFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &seq))
	assert.Equal(t, int64(8), seq.Stories)
}

func TestFileStorage_CollectionsAreFlatArrays(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := openFileStorage(t, dir)
	require.NoError(t, SeedCategories(ctx, store, zerolog.Nop()))
	_, err := store.CreateStory(ctx, storyInput("array"))
	require.NoError(t, err)

	for _, name := range []string{storiesFile, categoriesFile} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)

		var items []map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &items), "%s should hold a JSON array", name)
		assert.NotEmpty(t, items)
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStorage_CorruptFileFailsOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, storiesFile), []byte("{not json"), 0o644))

	_, err := NewFileStorage(dir, zerolog.Nop())
	assert.Error(t, err)
}

func TestFileStorage_NullEntryFailsOpen(t *testing.T) {
	files := map[string]string{
		storiesFile:    `[{"id":1,"title":"ok","status":"approved","tags":[]},null]`,
		usersFile:      `[null]`,
		categoriesFile: `[null,{"id":2,"slug":"x","name":"X"}]`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

			_, err := NewFileStorage(dir, zerolog.Nop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "null entry")
		})
	}
}

func TestFileStorage_PingMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store := openFileStorage(t, dir)

	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, store.Ping(context.Background()))
}

func TestFileStorage_WriteFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	store := openFileStorage(t, dir)

	st, err := store.CreateStory(ctx, storyInput("stable"))
	require.NoError(t, err)

	// Removing the directory makes every subsequent write fail
	require.NoError(t, os.RemoveAll(dir))

	_, err = store.UpdateStoryStatus(ctx, st.ID, models.StoryStatusApproved)
	require.Error(t, err)

	got, err := store.GetStory(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StoryStatusPending, got.Status)

	_, err = store.CreateStory(ctx, storyInput("lost"))
	require.Error(t, err)
	all, err := store.GetStories(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
