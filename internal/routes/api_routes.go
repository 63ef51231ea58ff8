package routes

import (
	"farhold/quarterdeck/internal/api"
	"farhold/quarterdeck/internal/db"
	"farhold/quarterdeck/internal/metrics"
	"farhold/quarterdeck/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// This keeps API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, metricsReg *metrics.MetricsRegistry) {

	authHandlers := api.NewAuthHandlers(
		deps.Services.Auth,
		deps.Services.Identity,
		deps.Services.Discord,
		deps.Services.Tokens,
		deps.Repo.User,
		deps.Repo.Member,
		metricsReg,
	)
	adminUserHandlers := api.NewAdminUserHandlers(deps.Services.AdminUser)
	adminDBHandlers := api.NewAdminDatabaseHandlers(db.DB)
	catalogHandlers := api.NewCatalogHandlers(deps.Repo.Catalog)
	contentHandlers := api.NewContentHandlers(deps.Services.Content, deps.Repo.Blog, deps.Repo.Item, deps.Repo.Contact)
	memberHandlers := api.NewMemberHandlers(deps.Repo.Member, deps.Repo.Organization, deps.Services.Identity)
	fleetHandlers := api.NewFleetHandlers(deps.Services.Fleet, deps.Repo.Fleet)
	squadronHandlers := api.NewSquadronHandlers(deps.Services.Squadron, deps.Repo.Squadron)
	jobsHandlers := api.NewJobsHandlers(deps.Jobs.ShipSync, deps.Jobs.OrgSync, deps.Jobs.MemberSync, deps.Services.StarCitizen)

	r.Route("/api/v1", func(v1 chi.Router) {

		// Public routes
		v1.Get("/auth/discord/login", authHandlers.DiscordLogin())
		v1.Get("/auth/discord/callback", authHandlers.DiscordCallback())

		v1.Group(func(limited chi.Router) {
			limited.Use(middleware.RateLimitMiddleware)
			limited.Post("/auth/login", authHandlers.Login())
		})

		v1.Get("/blog", contentHandlers.ListPosts())
		v1.Get("/blog/{slug}", contentHandlers.GetPost())
		v1.Get("/items", contentHandlers.ListItems())
		v1.Get("/items/{id}", contentHandlers.GetItem())
		v1.Post("/contact", contentHandlers.SubmitContact())
		v1.Get("/ships", catalogHandlers.ListShips())
		v1.Get("/ships/{id}", catalogHandlers.GetShip())
		v1.Get("/manufacturers", catalogHandlers.ListManufacturers())
		v1.Get("/organization", memberHandlers.GetOrganization())
		v1.Get("/organization/roster", memberHandlers.ListRoster())
		v1.Get("/squadrons", squadronHandlers.ListSquadrons())
		v1.Get("/squadrons/{slug}", squadronHandlers.GetSquadron())

		// Authenticated routes
		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(deps.Services.Tokens, deps.Repo.User))

			authed.Get("/auth/me", authHandlers.Me())
			authed.Post("/auth/logout", authHandlers.Logout())
			authed.Post("/auth/change-password", authHandlers.ChangePassword())

			authed.Get("/members", memberHandlers.ListMembers())
			authed.Put("/members/me", memberHandlers.UpdateMyProfile())

			authed.Get("/fleet", fleetHandlers.ListFleet())
			authed.Post("/fleet", fleetHandlers.AddShip())
			authed.Put("/fleet/{id}", fleetHandlers.UpdateShip())
			authed.Delete("/fleet/{id}", fleetHandlers.RemoveShip())

			authed.Post("/squadrons/{slug}/join", squadronHandlers.Join())
			authed.Post("/squadrons/{slug}/leave", squadronHandlers.Leave())

			// Admin-only group
			authed.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())

				admin.Get("/admin/users", adminUserHandlers.ListUsers())
				admin.Get("/admin/users/{id}", adminUserHandlers.GetUser())
				admin.Put("/admin/users/{id}/role", adminUserHandlers.UpdateRole())
				admin.Put("/admin/users/{id}/rank", adminUserHandlers.UpdateRank())
				admin.Delete("/admin/users/{id}", adminUserHandlers.DeactivateUser())

				admin.Post("/admin/blog", contentHandlers.CreatePost())
				admin.Put("/admin/blog/{id}", contentHandlers.UpdatePost())
				admin.Delete("/admin/blog/{id}", contentHandlers.DeletePost())

				admin.Post("/admin/items", contentHandlers.CreateItem())
				admin.Put("/admin/items/{id}", contentHandlers.UpdateItem())
				admin.Delete("/admin/items/{id}", contentHandlers.DeleteItem())

				admin.Post("/admin/squadrons", squadronHandlers.CreateSquadron())
				admin.Put("/admin/squadrons/{id}", squadronHandlers.UpdateSquadron())

				admin.Get("/admin/contact", contentHandlers.ListContacts())
				admin.Put("/admin/contact/{id}/status", contentHandlers.UpdateContactStatus())

				admin.Get("/admin/database/status", adminDBHandlers.Status())
				admin.Post("/admin/database/test", adminDBHandlers.TestConnection())

				admin.Post("/admin/members/reconcile", memberHandlers.RepairProfiles())

				// Background jobs management
				admin.Post("/admin/jobs/sync-ships", jobsHandlers.TriggerShipSync())
				admin.Post("/admin/jobs/sync-organization", jobsHandlers.TriggerOrgSync())
				admin.Post("/admin/jobs/sync-members", jobsHandlers.TriggerMemberSync())
			})
		})
	})
}
