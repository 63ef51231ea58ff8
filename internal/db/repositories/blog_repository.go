package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// BlogRepository handles news articles.
type BlogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// SlugExists reports whether a slug is already in use.
func (r *BlogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.BlogPost{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new article.
func (r *BlogRepository) Create(ctx context.Context, post *gormModels.BlogPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}
	return nil
}

// FindBySlug retrieves an article. publishedOnly restricts to published
// articles for the public site. Returns (nil, nil) when missing.
func (r *BlogRepository) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*gormModels.BlogPost, error) {
	query := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var post gormModels.BlogPost
	err := query.First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch blog post: %w", err)
	}
	return &post, nil
}

// FindByID retrieves an article by primary key. Returns (nil, nil) when
// missing.
func (r *BlogRepository) FindByID(ctx context.Context, id uint) (*gormModels.BlogPost, error) {
	var post gormModels.BlogPost
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch blog post: %w", err)
	}
	return &post, nil
}

// List returns a page of articles, newest first.
func (r *BlogRepository) List(ctx context.Context, page, limit int, publishedOnly bool) ([]gormModels.BlogPost, int64, error) {
	query := r.db.WithContext(ctx).Model(&gormModels.BlogPost{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}

	var posts []gormModels.BlogPost
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blog posts: %w", err)
	}

	return posts, total, nil
}

// Save persists all fields of an existing article.
func (r *BlogRepository) Save(ctx context.Context, post *gormModels.BlogPost) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return fmt.Errorf("failed to save blog post: %w", err)
	}
	return nil
}

// Delete removes an article.
func (r *BlogRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&gormModels.BlogPost{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete blog post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
