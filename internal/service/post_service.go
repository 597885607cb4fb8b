package service

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50

	// syndicationMaxItems bounds feed and sitemap reads, which list far more
	// entries than an API page.
	syndicationMaxItems = 500
)

type PostService struct {
	postRepo repository.PostRepository
	// slugMaxWords caps the words kept when deriving slugs for manual posts.
	slugMaxWords int
}

type CreatePostInput struct {
	Title           string
	MetaDescription string
	Tags            []string
	ContentHTML     string
	Status          models.PostStatus
	AuthorID        *uint
}

func NewPostService(postRepo repository.PostRepository, slugMaxWords int) *PostService {
	if slugMaxWords <= 0 {
		slugMaxWords = 6
	}
	return &PostService{postRepo: postRepo, slugMaxWords: slugMaxWords}
}

// ListPublished returns published posts newest-first, capped at maxPageSize.
func (s *PostService) ListPublished(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListPublished(ctx, clampLimit(limit), maxOffset(offset))
}

// ListForSyndication returns published posts for the feed and sitemap. A
// non-positive or oversized limit falls back to syndicationMaxItems, not the
// API page cap.
func (s *PostService) ListForSyndication(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 || limit > syndicationMaxItems {
		limit = syndicationMaxItems
	}
	return s.postRepo.ListPublished(ctx, limit, 0)
}

// ListAll returns every post regardless of status, for the admin views.
func (s *PostService) ListAll(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListAll(ctx, clampLimit(limit), maxOffset(offset))
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", slug)
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return post, nil
}

// CreatePost creates a manually authored post. Slug derivation matches the
// generation workflow; slug uniqueness is not enforced.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if status != models.StatusDraft && status != models.StatusPublished {
		return nil, models.NewValidationError("Status must be draft or published")
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	post := &models.Post{
		Slug:            models.Slugify(in.Title, s.slugMaxWords),
		Title:           in.Title,
		MetaDescription: in.MetaDescription,
		Tags:            tags,
		ContentHTML:     in.ContentHTML,
		Images:          []string{},
		Status:          status,
		AuthorID:        in.AuthorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return err
	}
	return s.postRepo.Delete(ctx, id)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func maxOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
