package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

func newTestContentService(t *testing.T) (*ContentService, *repositories.BlogRepository) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&gormModels.BlogPost{}, &gormModels.Item{}); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	blog := repositories.NewBlogRepository(gdb)
	items := repositories.NewItemRepository(gdb)
	return NewContentService(blog, items), blog
}

func TestContentService_CreatePost_SlugsAndPublish(t *testing.T) {
	svc, blog := newTestContentService(t)
	ctx := context.Background()

	draft := &gormModels.BlogPost{Title: "Patch Day Briefing", Content: "..."}
	if err := svc.CreatePost(ctx, draft); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if draft.Slug != "patch-day-briefing" {
		t.Errorf("Slug = %q", draft.Slug)
	}
	if draft.PublishedAt != nil {
		t.Error("Draft must not get a publish timestamp")
	}

	published := &gormModels.BlogPost{Title: "Patch Day Briefing", Content: "...", IsPublished: true}
	if err := svc.CreatePost(ctx, published); err != nil {
		t.Fatalf("Second create failed: %v", err)
	}
	if published.Slug != "patch-day-briefing-1" {
		t.Errorf("Second slug = %q", published.Slug)
	}
	if published.PublishedAt == nil {
		t.Error("Published post missing publish timestamp")
	}

	// Unpublished posts stay invisible to the public listing
	publicPosts, _, err := blog.List(ctx, 1, 10, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(publicPosts) != 1 || publicPosts[0].Slug != "patch-day-briefing-1" {
		t.Errorf("Public listing = %+v, want only the published post", publicPosts)
	}
}

func TestContentService_UpdatePost(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	post := &gormModels.BlogPost{Title: "Fleet Week Recap", Content: "draft"}
	if err := svc.CreatePost(ctx, post); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.UpdatePost(ctx, post.ID, func(p *gormModels.BlogPost) {
		p.Title = "Fleet Week Recap, Revised"
		p.Content = "final"
		p.IsPublished = true
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Slug != "fleet-week-recap" {
		t.Errorf("Slug changed on update: %q", updated.Slug)
	}
	if updated.PublishedAt == nil {
		t.Error("First publish must set the timestamp")
	}
	firstPublish := *updated.PublishedAt

	// Republishing keeps the original timestamp
	updated, err = svc.UpdatePost(ctx, post.ID, func(p *gormModels.BlogPost) {
		p.Content = "final v2"
	})
	if err != nil {
		t.Fatalf("Second update failed: %v", err)
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(firstPublish) {
		t.Errorf("PublishedAt = %v, want original %v", updated.PublishedAt, firstPublish)
	}

	if _, err := svc.UpdatePost(ctx, 9999, func(p *gormModels.BlogPost) {}); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Missing post: err = %v, want ErrPostNotFound", err)
	}
}

func TestContentService_CreateItem_Slugs(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	item := &gormModels.Item{Name: "FS-9 LMG", Category: "weapons"}
	if err := svc.CreateItem(ctx, item); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if item.Slug != "fs-9-lmg" {
		t.Errorf("Slug = %q", item.Slug)
	}

	dup := &gormModels.Item{Name: "FS-9 LMG", Category: "weapons"}
	if err := svc.CreateItem(ctx, dup); err != nil {
		t.Fatalf("Duplicate create failed: %v", err)
	}
	if dup.Slug != "fs-9-lmg-1" {
		t.Errorf("Duplicate slug = %q", dup.Slug)
	}
}
