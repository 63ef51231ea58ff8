package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"farhold/quarterdeck/internal/models/dtos/responses"
)

// AdminDatabaseHandlers serves the admin panel's database status endpoints
// through the raw sqlx handle.
type AdminDatabaseHandlers struct {
	db *sqlx.DB
}

// NewAdminDatabaseHandlers creates the database status handler set.
func NewAdminDatabaseHandlers(db *sqlx.DB) *AdminDatabaseHandlers {
	return &AdminDatabaseHandlers{db: db}
}

var statusTables = []string{
	"users", "members", "ships", "ship_manufacturers",
	"organizations", "organization_members",
	"fleet_ships", "squadrons", "blog_posts", "items",
}

// Status handles GET /admin/database/status: connectivity, latency, and row
// counts for the main tables.
func (h *AdminDatabaseHandlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := responses.DatabaseStatus{Driver: "postgres"}

		if h.db == nil {
			resp.Error = "not connected"
			respondWithSuccess(w, http.StatusOK, &resp)
			return
		}

		start := time.Now()
		if err := h.db.PingContext(r.Context()); err != nil {
			resp.Error = err.Error()
			respondWithSuccess(w, http.StatusOK, &resp)
			return
		}
		resp.Connected = true
		resp.Latency = time.Since(start).Round(time.Microsecond).String()

		resp.Tables = make(map[string]int64, len(statusTables))
		for _, table := range statusTables {
			var count int64
			// table names come from the fixed list above, not user input
			if err := h.db.GetContext(r.Context(), &count, "SELECT COUNT(*) FROM "+table); err != nil {
				continue
			}
			resp.Tables[table] = count
		}

		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// TestConnection handles POST /admin/database/test-connection.
func (h *AdminDatabaseHandlers) TestConnection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.db == nil {
			respondWithError(w, http.StatusServiceUnavailable, "Database not connected")
			return
		}
		if err := h.db.PingContext(r.Context()); err != nil {
			respondWithError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		msg := "Connection OK"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}
