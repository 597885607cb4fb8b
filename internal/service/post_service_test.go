package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"
)

func TestPostService_ListPublished_ClampsLimit(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	repo := noopPostRepo()
	repo.listPublishedFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}
	svc := NewPostService(repo, 6)

	_, err := svc.ListPublished(context.Background(), 500, -3)
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, gotLimit)
	assert.Equal(t, 0, gotOffset)

	_, err = svc.ListPublished(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, gotLimit)
	assert.Equal(t, 10, gotOffset)
}

func TestPostService_ListForSyndication_Bounds(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	repo := noopPostRepo()
	repo.listPublishedFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}
	svc := NewPostService(repo, 6)

	_, err := svc.ListForSyndication(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, syndicationMaxItems, gotLimit)
	assert.Equal(t, 0, gotOffset)

	// A caller-supplied bound above the API page cap passes through untouched.
	_, err = svc.ListForSyndication(context.Background(), maxPageSize+30)
	require.NoError(t, err)
	assert.Equal(t, maxPageSize+30, gotLimit)

	_, err = svc.ListForSyndication(context.Background(), syndicationMaxItems+1)
	require.NoError(t, err)
	assert.Equal(t, syndicationMaxItems, gotLimit)
}

func TestPostService_GetBySlug_NotFound(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, _ string) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewPostService(repo, 6)

	_, err := svc.GetBySlug(context.Background(), "nope")
	assertNotFoundError(t, err)
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	t.Run("derives slug and defaults to draft", func(t *testing.T) {
		t.Parallel()
		var created *models.Post
		repo := noopPostRepo()
		repo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 7
			created = p
			return nil
		}
		svc := NewPostService(repo, 6)

		post, err := svc.CreatePost(context.Background(), CreatePostInput{
			Title:       "My Great Swim Workout!!",
			ContentHTML: "<p>warm up</p>",
		})
		require.NoError(t, err)
		assert.Equal(t, "my-great-swim-workout", created.Slug)
		assert.Equal(t, models.StatusDraft, created.Status)
		assert.Equal(t, uint(7), post.ID)
		assert.NotNil(t, created.Tags)
		assert.NotNil(t, created.Images)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), 6)
		_, err := svc.CreatePost(context.Background(), CreatePostInput{ContentHTML: "<p>x</p>"})
		assertValidationError(t, err)
	})

	t.Run("rejects failed status on manual creation", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), 6)
		_, err := svc.CreatePost(context.Background(), CreatePostInput{Title: "x", Status: models.StatusFailed})
		assertValidationError(t, err)
	})
}

func TestPostService_DeletePost_NotFound(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewPostService(repo, 6)

	err := svc.DeletePost(context.Background(), 404)
	assertNotFoundError(t, err)
}
