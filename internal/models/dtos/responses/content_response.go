package responses

import "time"

// BlogPostResponse is the public article view.
type BlogPostResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content,omitempty"`
	CoverURL    string     `json:"cover_url,omitempty"`
	AuthorName  string     `json:"author_name,omitempty"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BlogPostListResponse is a paginated article listing.
type BlogPostListResponse struct {
	Posts []BlogPostResponse `json:"posts"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// DatabaseStatus reports connectivity and row counts for the admin panel.
type DatabaseStatus struct {
	Connected bool             `json:"connected"`
	Driver    string           `json:"driver"`
	Latency   string           `json:"latency"`
	Tables    map[string]int64 `json:"tables,omitempty"`
	Error     string           `json:"error,omitempty"`
}
