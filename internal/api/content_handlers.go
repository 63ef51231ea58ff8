package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/models/dtos/requests"
	"farhold/quarterdeck/internal/models/dtos/responses"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/services"
)

// ContentHandlers serves blog posts, items, and the public contact form.
type ContentHandlers struct {
	contentSvc *services.ContentService
	blog       *repositories.BlogRepository
	items      *repositories.ItemRepository
	contact    *repositories.ContactRepository
}

// NewContentHandlers creates the content handler set.
func NewContentHandlers(
	contentSvc *services.ContentService,
	blog *repositories.BlogRepository,
	items *repositories.ItemRepository,
	contact *repositories.ContactRepository,
) *ContentHandlers {
	return &ContentHandlers{
		contentSvc: contentSvc,
		blog:       blog,
		items:      items,
		contact:    contact,
	}
}

// ListPosts handles GET /blog. Unauthenticated callers see published posts
// only; admins see drafts too.
func (h *ContentHandlers) ListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 10
		}

		claims := auth.GetUserClaims(r.Context())
		publishedOnly := claims == nil || !claims.IsAdmin()

		posts, total, err := h.blog.List(r.Context(), page, limit, publishedOnly)
		if err != nil {
			logging.Error("Failed to list blog posts", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to list posts")
			return
		}

		resp := responses.BlogPostListResponse{
			Posts: make([]responses.BlogPostResponse, 0, len(posts)),
			Total: total,
			Page:  page,
			Limit: limit,
		}
		for i := range posts {
			resp.Posts = append(resp.Posts, postToResponse(&posts[i], false))
		}

		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetPost handles GET /blog/{slug}.
func (h *ContentHandlers) GetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		claims := auth.GetUserClaims(r.Context())
		publishedOnly := claims == nil || !claims.IsAdmin()

		post, err := h.blog.FindBySlug(r.Context(), slug, publishedOnly)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch post")
			return
		}
		if post == nil {
			respondWithError(w, http.StatusNotFound, "Post not found")
			return
		}

		resp := postToResponse(post, true)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// CreatePost handles POST /admin/blog.
func (h *ContentHandlers) CreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		var req requests.BlogPostRequest
		if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Title) == "" || req.Content == "" {
			respondWithError(w, http.StatusBadRequest, "Title and content are required")
			return
		}

		post := &gormModels.BlogPost{
			Title:       strings.TrimSpace(req.Title),
			Summary:     req.Summary,
			Content:     req.Content,
			CoverURL:    req.CoverURL,
			IsPublished: req.IsPublished,
		}
		if claims != nil {
			authorID := claims.UserID
			post.AuthorID = &authorID
			post.AuthorName = claims.Username()
		}

		if err := h.contentSvc.CreatePost(r.Context(), post); err != nil {
			logging.Error("Failed to create blog post", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create post")
			return
		}

		resp := postToResponse(post, true)
		respondWithSuccess(w, http.StatusCreated, &resp)
	}
}

// UpdatePost handles PUT /admin/blog/{id}.
func (h *ContentHandlers) UpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid post id")
			return
		}

		var req requests.BlogPostRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		post, err := h.contentSvc.UpdatePost(r.Context(), id, func(p *gormModels.BlogPost) {
			if req.Title != "" {
				p.Title = strings.TrimSpace(req.Title)
			}
			if req.Content != "" {
				p.Content = req.Content
			}
			p.Summary = req.Summary
			p.CoverURL = req.CoverURL
			p.IsPublished = req.IsPublished
		})
		if errors.Is(err, services.ErrPostNotFound) {
			respondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to update post")
			return
		}

		resp := postToResponse(post, true)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// DeletePost handles DELETE /admin/blog/{id}.
func (h *ContentHandlers) DeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid post id")
			return
		}

		if err := h.blog.Delete(r.Context(), id); err != nil {
			respondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		msg := "Post deleted"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// ListItems handles GET /items with category and search filters.
func (h *ContentHandlers) ListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 200 {
			limit = 50
		}

		items, total, err := h.items.List(r.Context(), page, limit,
			r.URL.Query().Get("category"), r.URL.Query().Get("search"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list items")
			return
		}

		type itemPage struct {
			Items []gormModels.Item `json:"items"`
			Total int64             `json:"total"`
			Page  int               `json:"page"`
			Limit int               `json:"limit"`
		}
		resp := itemPage{Items: items, Total: total, Page: page, Limit: limit}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetItem handles GET /items/{slug}.
func (h *ContentHandlers) GetItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := h.items.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch item")
			return
		}
		if item == nil {
			respondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		respondWithSuccess(w, http.StatusOK, item)
	}
}

// CreateItem handles POST /admin/items.
func (h *ContentHandlers) CreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ItemRequest
		if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Name) == "" || req.Category == "" {
			respondWithError(w, http.StatusBadRequest, "Name and category are required")
			return
		}

		item := &gormModels.Item{
			Name:        strings.TrimSpace(req.Name),
			Category:    req.Category,
			SubCategory: req.SubCategory,
			Description: req.Description,
			Size:        req.Size,
			Grade:       req.Grade,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			IsAvailable: true,
		}
		if req.IsAvailable != nil {
			item.IsAvailable = *req.IsAvailable
		}

		if err := h.contentSvc.CreateItem(r.Context(), item); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to create item")
			return
		}
		respondWithSuccess(w, http.StatusCreated, item)
	}
}

// UpdateItem handles PUT /admin/items/{id}.
func (h *ContentHandlers) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid item id")
			return
		}

		item, err := h.items.FindByID(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch item")
			return
		}
		if item == nil {
			respondWithError(w, http.StatusNotFound, "Item not found")
			return
		}

		var req requests.ItemRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name != "" {
			item.Name = strings.TrimSpace(req.Name)
		}
		if req.Category != "" {
			item.Category = req.Category
		}
		item.SubCategory = req.SubCategory
		item.Description = req.Description
		item.Size = req.Size
		item.Grade = req.Grade
		item.Price = req.Price
		item.ImageURL = req.ImageURL
		if req.IsAvailable != nil {
			item.IsAvailable = *req.IsAvailable
		}

		if err := h.items.Save(r.Context(), item); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to update item")
			return
		}
		respondWithSuccess(w, http.StatusOK, item)
	}
}

// DeleteItem handles DELETE /admin/items/{id}.
func (h *ContentHandlers) DeleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid item id")
			return
		}
		if err := h.items.Delete(r.Context(), id); err != nil {
			respondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		msg := "Item deleted"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// SubmitContact handles POST /contact from the public site.
func (h *ContentHandlers) SubmitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ContactRequest
		if err := decodeJSON(r, &req); err != nil ||
			strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
			respondWithError(w, http.StatusBadRequest, "Name, email, and message are required")
			return
		}

		submission := &gormModels.ContactSubmission{
			Name:    strings.TrimSpace(req.Name),
			Email:   strings.TrimSpace(req.Email),
			Subject: req.Subject,
			Message: req.Message,
			Status:  constants.ContactStatusNew,
		}
		if err := h.contact.Create(r.Context(), submission); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to submit message")
			return
		}
		msg := "Message received"
		respondWithSuccess(w, http.StatusCreated, &msg)
	}
}

// ListContacts handles GET /admin/contact with a status filter.
func (h *ContentHandlers) ListContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 20)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 20
		}

		submissions, total, err := h.contact.List(r.Context(), page, limit, r.URL.Query().Get("status"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list submissions")
			return
		}

		type contactPage struct {
			Submissions []gormModels.ContactSubmission `json:"submissions"`
			Total       int64                          `json:"total"`
			Page        int                            `json:"page"`
			Limit       int                            `json:"limit"`
		}
		resp := contactPage{Submissions: submissions, Total: total, Page: page, Limit: limit}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// UpdateContactStatus handles PUT /admin/contact/{id}/status.
func (h *ContentHandlers) UpdateContactStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid submission id")
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		switch req.Status {
		case constants.ContactStatusNew, constants.ContactStatusRead,
			constants.ContactStatusReplied, constants.ContactStatusArchived:
		default:
			respondWithError(w, http.StatusBadRequest, "Invalid status")
			return
		}

		if err := h.contact.UpdateStatus(r.Context(), id, req.Status); err != nil {
			respondWithError(w, http.StatusNotFound, "Submission not found")
			return
		}
		msg := "Status updated"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

func postToResponse(post *gormModels.BlogPost, includeContent bool) responses.BlogPostResponse {
	resp := responses.BlogPostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Summary:     post.Summary,
		CoverURL:    post.CoverURL,
		AuthorName:  post.AuthorName,
		IsPublished: post.IsPublished,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
	}
	if includeContent {
		resp.Content = post.Content
	}
	return resp
}
