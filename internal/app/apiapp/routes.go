package apiapp

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tiagocodinha/StagelinkApproval/internal/transport/http/handlers"
)

func newRouter(
	validator TokenValidator,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	contentHandler *handlers.ContentHandler,
	boardHandler *handlers.BoardHandler,
	mediaHandler *handlers.MediaHandler,
) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/healthz", healthHandler.Check)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(validator))
			r.Post("/logout_all", authHandler.LogoutAll)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(validator))

		r.Route("/content", func(r chi.Router) {
			r.Get("/", contentHandler.List)
			r.Post("/", contentHandler.Create)
			r.Get("/{id}", contentHandler.GetByID)
			r.Post("/{id}/status", contentHandler.UpdateStatus)
		})

		r.Route("/board", func(r chi.Router) {
			r.Get("/folders", boardHandler.Folders)
			r.Get("/calendar", boardHandler.Calendar)
			r.Get("/types", boardHandler.Types)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", boardHandler.Clients)
			r.Get("/emails", boardHandler.ClientEmails)
		})

		r.Post("/media/upload", mediaHandler.Upload)
	})

	return router
}
