package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/story-sharing-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StorageSuite holds the behaviour every backend must share. Each backend test
// file runs it with its own constructor.
type StorageSuite struct {
	suite.Suite
	ctx        context.Context
	newStorage func(t *testing.T) Storage
	store      Storage
}

func (s *StorageSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStorage(s.T())
	require.NoError(s.T(), SeedCategories(s.ctx, s.store, zerolog.Nop()))
}

func (s *StorageSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func storyInput(title string) *models.StoryInput {
	return &models.StoryInput{
		Title:       title,
		Content:     "Content of " + title,
		AuthorName:  "Alex Doe",
		AuthorEmail: "alex@example.com",
		Category:    "social-justice",
		Tags:        []string{"hope"},
	}
}

func (s *StorageSuite) create(in *models.StoryInput) *models.Story {
	story, err := s.store.CreateStory(s.ctx, in)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), story)
	return story
}

func (s *StorageSuite) approve(id int64) *models.Story {
	story, err := s.store.UpdateStoryStatus(s.ctx, id, models.StoryStatusApproved)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), story)
	return story
}

func ids(stories []*models.Story) []int64 {
	out := make([]int64, 0, len(stories))
	for _, st := range stories {
		out = append(out, st.ID)
	}
	return out
}

// assertSameStory compares field by field so timestamps are checked with Equal
func assertSameStory(t *testing.T, want, got *models.Story) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Content, got.Content)
	assert.Equal(t, want.AuthorName, got.AuthorName)
	assert.Equal(t, want.AuthorEmail, got.AuthorEmail)
	assert.Equal(t, want.Category, got.Category)
	assert.Equal(t, want.Tags, got.Tags)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Featured, got.Featured)
	assert.Equal(t, want.AllowComments, got.AllowComments)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt %v != %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt %v != %v", want.UpdatedAt, got.UpdatedAt)
}

func (s *StorageSuite) TestSeededCategories() {
	categories, err := s.store.GetCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 4)

	slugs := make([]string, 0, len(categories))
	for _, c := range categories {
		slugs = append(slugs, c.Slug)
	}
	s.Equal([]string{"social-justice", "identity-culture", "community-impact", "overcoming-challenges"}, slugs)

	// Seeding again is a no-op
	s.Require().NoError(SeedCategories(s.ctx, s.store, zerolog.Nop()))
	categories, err = s.store.GetCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(categories, 4)
}

func (s *StorageSuite) TestCreateCategory() {
	created, err := s.store.CreateCategory(s.ctx, &models.CategoryInput{
		Name:        "Family",
		Slug:        "family",
		Description: "Stories about family",
		Icon:        "fas fa-home",
		Gradient:    "from-primary to-accent",
	})
	s.Require().NoError(err)
	s.Greater(created.ID, int64(4))

	categories, err := s.store.GetCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 5)
	s.Equal("family", categories[4].Slug)
}

func (s *StorageSuite) TestCreateCategory_DuplicateSlug() {
	dupSlug := models.DefaultCategories[0]
	dupSlug.Name = "Another name"
	_, err := s.store.CreateCategory(s.ctx, &dupSlug)
	s.ErrorIs(err, models.ErrCategoryExists)

	dupName := models.DefaultCategories[1]
	dupName.Slug = "another-slug"
	_, err = s.store.CreateCategory(s.ctx, &dupName)
	s.ErrorIs(err, models.ErrCategoryExists)

	categories, err := s.store.GetCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(categories, len(models.DefaultCategories))
}

func (s *StorageSuite) TestCreateStory_Defaults() {
	in := storyInput("First story")
	in.Tags = []string{"a", "b"}

	story := s.create(in)

	s.Positive(story.ID)
	s.Equal(models.StoryStatusPending, story.Status)
	s.False(story.Featured)
	s.True(story.AllowComments)
	s.False(story.CreatedAt.IsZero())
	s.True(story.CreatedAt.Equal(story.UpdatedAt))
	s.Equal([]string{"a", "b"}, story.Tags)

	got, err := s.store.GetStory(s.ctx, story.ID)
	s.Require().NoError(err)
	assertSameStory(s.T(), story, got)
}

func (s *StorageSuite) TestCreateStory_AllowCommentsAndNilTags() {
	in := storyInput("Quiet story")
	off := false
	in.AllowComments = &off
	in.Tags = nil

	story := s.create(in)
	s.False(story.AllowComments)
	s.NotNil(story.Tags)
	s.Empty(story.Tags)
}

func (s *StorageSuite) TestCreateStory_IDsIncrease() {
	first := s.create(storyInput("one"))
	second := s.create(storyInput("two"))
	third := s.create(storyInput("three"))

	s.Less(first.ID, second.ID)
	s.Less(second.ID, third.ID)
}

func (s *StorageSuite) TestGetStory_Missing() {
	story, err := s.store.GetStory(s.ctx, 9999)
	s.NoError(err)
	s.Nil(story)
}

func (s *StorageSuite) TestGetStory_ReturnsCopy() {
	story := s.create(storyInput("Immutable"))
	story.Title = "changed by caller"
	story.Tags[0] = "changed"

	got, err := s.store.GetStory(s.ctx, story.ID)
	s.Require().NoError(err)
	s.Equal("Immutable", got.Title)
	s.Equal([]string{"hope"}, got.Tags)
}

func (s *StorageSuite) TestGetStories_FilterAndOrder() {
	a := s.create(storyInput("a"))
	b := s.create(storyInput("b"))
	c := s.create(storyInput("c"))
	s.approve(a.ID)
	s.approve(c.ID)
	_, err := s.store.UpdateStoryStatus(s.ctx, b.ID, models.StoryStatusRejected)
	s.Require().NoError(err)

	all, err := s.store.GetStories(s.ctx, "")
	s.Require().NoError(err)
	s.Equal([]int64{c.ID, b.ID, a.ID}, ids(all))

	approved, err := s.store.GetStories(s.ctx, models.StoryStatusApproved)
	s.Require().NoError(err)
	s.Equal([]int64{c.ID, a.ID}, ids(approved))
	for _, st := range approved {
		s.Equal(models.StoryStatusApproved, st.Status)
	}

	rejected, err := s.store.GetStories(s.ctx, models.StoryStatusRejected)
	s.Require().NoError(err)
	s.Equal([]int64{b.ID}, ids(rejected))

	pending, err := s.store.GetStories(s.ctx, models.StoryStatusPending)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *StorageSuite) TestUpdateStoryStatus() {
	story := s.create(storyInput("Moderate me"))

	first := s.approve(story.ID)
	s.Equal(models.StoryStatusApproved, first.Status)
	s.False(first.UpdatedAt.Before(story.UpdatedAt))
	s.True(first.CreatedAt.Equal(story.CreatedAt))

	second := s.approve(story.ID)
	s.Equal(models.StoryStatusApproved, second.Status)
	s.Equal(first.ID, second.ID)

	rejected, err := s.store.UpdateStoryStatus(s.ctx, story.ID, models.StoryStatusRejected)
	s.Require().NoError(err)
	s.Equal(models.StoryStatusRejected, rejected.Status)

	got, err := s.store.GetStory(s.ctx, story.ID)
	s.Require().NoError(err)
	s.Equal(models.StoryStatusRejected, got.Status)
}

func (s *StorageSuite) TestUpdateStoryStatus_Missing() {
	story, err := s.store.UpdateStoryStatus(s.ctx, 9999, models.StoryStatusApproved)
	s.NoError(err)
	s.Nil(story)
}

func (s *StorageSuite) TestFeaturedStories() {
	a := s.create(storyInput("A"))

	featured, err := s.store.SetStoryFeatured(s.ctx, a.ID, true)
	s.Require().NoError(err)
	s.True(featured.Featured)

	list, err := s.store.GetFeaturedStories(s.ctx)
	s.Require().NoError(err)
	s.Empty(list, "featured but pending must not be listed")

	s.approve(a.ID)
	list, err = s.store.GetFeaturedStories(s.ctx)
	s.Require().NoError(err)
	s.Equal([]int64{a.ID}, ids(list))

	_, err = s.store.SetStoryFeatured(s.ctx, a.ID, false)
	s.Require().NoError(err)
	list, err = s.store.GetFeaturedStories(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *StorageSuite) TestFeaturedStories_NewestFirstUncapped() {
	var created []int64
	for i := 0; i < 5; i++ {
		st := s.create(storyInput(fmt.Sprintf("featured %d", i)))
		s.approve(st.ID)
		_, err := s.store.SetStoryFeatured(s.ctx, st.ID, true)
		s.Require().NoError(err)
		created = append([]int64{st.ID}, created...)
	}

	list, err := s.store.GetFeaturedStories(s.ctx)
	s.Require().NoError(err)
	s.Equal(created, ids(list))
}

func (s *StorageSuite) TestSetStoryFeatured_Missing() {
	story, err := s.store.SetStoryFeatured(s.ctx, 9999, true)
	s.NoError(err)
	s.Nil(story)
}

func (s *StorageSuite) TestSearchStories() {
	inTitle := storyInput("Breaking Barriers")
	inContent := storyInput("Plain title")
	inContent.Content = "We organized a BARRIER-free festival."
	inTag := storyInput("Another")
	inTag.Tags = []string{"Accessibility", "Barriers"}
	noMatch := storyInput("Unrelated")
	hidden := storyInput("Hidden barrier story")

	a := s.create(inTitle)
	b := s.create(inContent)
	c := s.create(inTag)
	d := s.create(noMatch)
	s.create(hidden) // stays pending
	for _, id := range []int64{a.ID, b.ID, c.ID, d.ID} {
		s.approve(id)
	}

	results, err := s.store.SearchStories(s.ctx, "barrier")
	s.Require().NoError(err)
	s.Equal([]int64{c.ID, b.ID, a.ID}, ids(results))

	for _, st := range results {
		s.Equal(models.StoryStatusApproved, st.Status)
		matched := strings.Contains(strings.ToLower(st.Title), "barrier") ||
			strings.Contains(strings.ToLower(st.Content), "barrier")
		for _, tag := range st.Tags {
			matched = matched || strings.Contains(strings.ToLower(tag), "barrier")
		}
		s.True(matched, "story %d should contain the query", st.ID)
	}

	none, err := s.store.SearchStories(s.ctx, "nothing matches this")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *StorageSuite) TestSearchStories_LiteralWildcards() {
	plain := s.create(storyInput("100 percent"))
	s.approve(plain.ID)

	results, err := s.store.SearchStories(s.ctx, "%")
	s.Require().NoError(err)
	s.Empty(results, "percent sign must match literally")
}

func (s *StorageSuite) TestSearchStories_NonASCIICase() {
	in := storyInput("Retour à l'ÉCOLE")
	in.Tags = []string{"Ünité"}
	st := s.create(in)
	s.approve(st.ID)

	for _, query := range []string{"école", "ÉCOLE", "ünité"} {
		results, err := s.store.SearchStories(s.ctx, query)
		s.Require().NoError(err)
		s.Equal([]int64{st.ID}, ids(results), "query %q", query)
	}
}

func (s *StorageSuite) TestGetStoriesByCategory() {
	st := s.create(storyInput("Justice story"))
	other := storyInput("Community story")
	other.Category = "community-impact"
	o := s.create(other)
	s.approve(o.ID)

	before, err := s.store.GetStoriesByCategory(s.ctx, "social-justice")
	s.Require().NoError(err)
	s.Empty(before)

	s.approve(st.ID)
	after, err := s.store.GetStoriesByCategory(s.ctx, "social-justice")
	s.Require().NoError(err)
	s.Equal([]int64{st.ID}, ids(after))

	unknown, err := s.store.GetStoriesByCategory(s.ctx, "no-such-category")
	s.Require().NoError(err)
	s.Empty(unknown)
}

func (s *StorageSuite) TestStoryWithUnknownCategory() {
	in := storyInput("Orphan")
	in.Category = "not-a-category"
	st := s.create(in)
	s.approve(st.ID)

	list, err := s.store.GetStoriesByCategory(s.ctx, "not-a-category")
	s.Require().NoError(err)
	s.Equal([]int64{st.ID}, ids(list))
}

func (s *StorageSuite) TestDeleteStory() {
	st := s.create(storyInput("Temporary"))

	deleted, err := s.store.DeleteStory(s.ctx, st.ID)
	s.Require().NoError(err)
	s.True(deleted)

	got, err := s.store.GetStory(s.ctx, st.ID)
	s.Require().NoError(err)
	s.Nil(got)

	deleted, err = s.store.DeleteStory(s.ctx, st.ID)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *StorageSuite) TestUsers() {
	user, err := s.store.CreateUser(s.ctx, &models.UserInput{Username: "moderator", Password: "secret"})
	s.Require().NoError(err)
	s.Positive(user.ID)

	byID, err := s.store.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user, byID)

	byName, err := s.store.GetUserByUsername(s.ctx, "moderator")
	s.Require().NoError(err)
	s.Equal(user, byName)

	missing, err := s.store.GetUserByUsername(s.ctx, "nobody")
	s.NoError(err)
	s.Nil(missing)

	missing, err = s.store.GetUser(s.ctx, 9999)
	s.NoError(err)
	s.Nil(missing)

	_, err = s.store.CreateUser(s.ctx, &models.UserInput{Username: "moderator", Password: "other"})
	s.ErrorIs(err, models.ErrUsernameTaken)
}

func (s *StorageSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
