package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farhold/quarterdeck/internal/common"
	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// ErrPostNotFound marks a missing article.
var ErrPostNotFound = errors.New("post not found")

// ErrItemNotFound marks a missing item.
var ErrItemNotFound = errors.New("item not found")

// ContentService implements blog and item management.
type ContentService struct {
	blog  *repositories.BlogRepository
	items *repositories.ItemRepository
}

// NewContentService creates a new content service
func NewContentService(blog *repositories.BlogRepository, items *repositories.ItemRepository) *ContentService {
	return &ContentService{blog: blog, items: items}
}

// CreatePost stores an article under a slug derived from its title. Slug
// collisions get a numeric suffix rather than an error.
func (s *ContentService) CreatePost(ctx context.Context, post *gormModels.BlogPost) error {
	slug, err := s.uniqueBlogSlug(ctx, post.Title)
	if err != nil {
		return err
	}
	post.Slug = slug

	if post.IsPublished && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	return s.blog.Create(ctx, post)
}

// UpdatePost applies edits to an existing article. The slug never changes
// after creation so bookmarked URLs keep working.
func (s *ContentService) UpdatePost(ctx context.Context, id uint, apply func(*gormModels.BlogPost)) (*gormModels.BlogPost, error) {
	post, err := s.blog.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	wasPublished := post.IsPublished
	apply(post)
	if post.IsPublished && !wasPublished && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.blog.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *ContentService) uniqueBlogSlug(ctx context.Context, title string) (string, error) {
	base := common.Slugify(title)
	if base == "" {
		base = "post"
	}

	slug := base
	for counter := 1; ; counter++ {
		taken, err := s.blog.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// CreateItem stores an item under a slug derived from its name.
func (s *ContentService) CreateItem(ctx context.Context, item *gormModels.Item) error {
	base := common.Slugify(item.Name)
	if base == "" {
		base = "item"
	}

	slug := base
	for counter := 1; ; counter++ {
		taken, err := s.items.SlugExists(ctx, slug)
		if err != nil {
			return err
		}
		if !taken {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
	item.Slug = slug

	return s.items.Create(ctx, item)
}
