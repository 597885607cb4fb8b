package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Post, error)
	RecentPublishedTitles(ctx context.Context, limit int) ([]string, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePublishedList(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.StatusPublished).
		Order("created_at DESC").
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// publishedCacheSize is how many rows the cached first page holds. The entry
// is always fetched at this size and sliced per request, so callers with
// different limits share one entry without serving each other's page sizes.
const publishedCacheSize = 50

func (r *postRepository) ListPublished(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post

	// Only the first page is cached; it is what the public landing page and
	// the feed read. Larger reads (the sitemap) go straight to the database.
	if offset == 0 && limit <= publishedCacheSize {
		var page []*models.Post
		err := cache.Aside(ctx, cache.PublishedListKey, &page, cache.ListTTL, func() error {
			return r.publishedQuery(ctx).Limit(publishedCacheSize).Find(&page).Error
		})
		if err != nil {
			return nil, err
		}
		if len(page) > limit {
			page = page[:limit]
		}
		return page, nil
	}

	err := r.publishedQuery(ctx).Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// RecentPublishedTitles returns up to limit titles of the newest published
// posts, for the subject-finder's novelty context.
func (r *postRepository) RecentPublishedTitles(ctx context.Context, limit int) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", models.StatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Pluck("title", &titles).Error
	return titles, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Save(post).Error
	if err == nil {
		cache.InvalidatePost(ctx, post.ID)
	}
	return err
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

func (r *postRepository) publishedQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("status = ?", models.StatusPublished).
		Order("created_at DESC")
}
