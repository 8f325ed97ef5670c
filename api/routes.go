package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public health check and the authenticated API
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Get("/health", handlers.healthHandler.health())

	r.Group(func(r chi.Router) {
		r.Use(auth.authenticate)

		r.Get("/sites", handlers.siteHandler.listSites())
		r.Get("/sites/{siteID}", handlers.siteHandler.getSite())
		r.Post("/sites/{siteID}/authenticate", handlers.connectHandler.authenticate())
		r.Delete("/sites/{siteID}/authenticate", handlers.connectHandler.disconnect())
		r.Get("/profiles", handlers.connectHandler.listProfiles())

		r.Get("/articles", handlers.articleHandler.listArticles())
		r.Post("/articles", handlers.articleHandler.createArticle())
		r.Get("/articles/{articleID}", handlers.articleHandler.getArticle())
		r.Put("/articles/{articleID}", handlers.articleHandler.updateArticle())
		r.Delete("/articles/{articleID}", handlers.articleHandler.deleteArticle())
		r.Get("/articles/{articleID}/publishings", handlers.articleHandler.listPublishings())
		r.Post("/articles/{articleID}/publish", handlers.publishHandler.publishArticle())

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(auth.requireAdmin)

			r.Post("/sites", handlers.siteHandler.createSite())
			r.Put("/sites/{siteID}/admin-credentials", handlers.siteHandler.updateAdminCredentials())
			r.Post("/sites/{siteID}/verify", handlers.siteHandler.verifySite())
			r.Post("/reconcile", handlers.reconcileHandler.reconcile())
		})
	})
}
