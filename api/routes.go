package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rankforge/site-backend/auth"
	"github.com/rankforge/site-backend/errs"
)

type routeLimits struct {
	login *auth.Limiter
	tools *auth.Limiter
}

// setupAdminRoutes mounts the content management API. Everything but login requires a token.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limits routeLimits) {
	r.Route("/api/admin", func(r chi.Router) {
		r.With(rateLimit(limits.login)).Post("/login", handlers.authHandler.login())
		r.Post("/logout", handlers.authHandler.logout())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/me", handlers.authHandler.me())

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", handlers.articleHandler.getAllArticles())
				r.Post("/", handlers.articleHandler.createArticle())
				r.Get("/{id}", handlers.articleHandler.getArticle())
				r.Put("/{id}", handlers.articleHandler.updateArticle())
				r.Delete("/{id}", handlers.articleHandler.deleteArticle())
			})

			r.Route("/authors", func(r chi.Router) {
				r.Get("/", handlers.authorHandler.getAllAuthors())
				r.Post("/", handlers.authorHandler.createAuthor())
				r.Get("/{id}", handlers.authorHandler.getAuthor())
				r.Put("/{id}", handlers.authorHandler.updateAuthor())
				r.Delete("/{id}", handlers.authorHandler.deleteAuthor())
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", handlers.categoryHandler.getAllCategories())
				r.Post("/", handlers.categoryHandler.createCategory())
				r.Get("/{id}", handlers.categoryHandler.getCategory())
				r.Put("/{id}", handlers.categoryHandler.updateCategory())
				r.Delete("/{id}", handlers.categoryHandler.deleteCategory())
			})

			r.Route("/images", func(r chi.Router) {
				r.Get("/", handlers.imageHandler.getAllImages())
				r.Post("/", handlers.imageHandler.uploadImage())
				r.Put("/{id}", handlers.imageHandler.updateImage())
				r.Delete("/{id}", handlers.imageHandler.deleteImage())
			})

			// PUT and DELETE also accept the id as a query parameter on the collection.
			r.Route("/redirections", func(r chi.Router) {
				r.Get("/", handlers.redirectionHandler.getAllRedirections())
				r.Post("/", handlers.redirectionHandler.createRedirection())
				r.Put("/", handlers.redirectionHandler.updateRedirection())
				r.Delete("/", handlers.redirectionHandler.deleteRedirection())
				r.Put("/{id}", handlers.redirectionHandler.updateRedirection())
				r.Delete("/{id}", handlers.redirectionHandler.deleteRedirection())
			})
		})
	})
}

func setupPublicRoutes(r chi.Router, handlers *routeHandlers, limits routeLimits) {
	r.Get("/health", handlers.publicHandler.health())

	r.Post("/api/contact", handlers.publicHandler.contact())
	r.Post("/api/newsletter", handlers.publicHandler.newsletter())
	r.With(rateLimit(limits.tools)).Post("/api/tools/meta-tags", handlers.publicHandler.suggestMetaTags())
	r.Get("/api/redirections/resolve", handlers.publicHandler.resolveRedirection())

	r.NotFound(handlers.publicHandler.notFound())
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, POST, PUT, DELETE, OPTIONS")
		handlers.publicHandler.responder.WriteError(w, r, "route", errs.NewApiErr(http.StatusMethodNotAllowed, "Method not allowed"))
	})
}
