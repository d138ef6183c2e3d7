// Package router sets up all HTTP routes and middleware chains for the
// SlideForge API. Everything except the health check lives under /api;
// editor and AI routes additionally require a completed 2FA login.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"slideforge/internal/handlers"
	"slideforge/internal/middleware"
	"slideforge/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	sessionStore *session.Store,
	auth *handlers.Auth,
	presentations *handlers.Presentations,
	editor *handlers.Editor,
	aiHandlers *handlers.AI,
	themes *handlers.Themes,
	assets *handlers.Assets,
	users *handlers.Users,
	aiLimiter *middleware.RateLimiter,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Login — reachable without a session.
		r.Post("/auth/login", auth.Login)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/auth/2fa/setup", auth.TwoFASetup)
			r.Post("/auth/2fa/verify", auth.TwoFAVerify)
			r.Get("/auth/me", auth.Me)
			r.Post("/auth/logout", auth.Logout)
		})

		// Authenticated + 2FA-verified application area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Theme catalog
			r.Get("/themes", themes.List)

			// Presentations
			r.Route("/presentations", func(r chi.Router) {
				r.Get("/", presentations.List)
				r.Post("/", presentations.Create)
				r.Get("/{id}", presentations.Get)
				r.Delete("/{id}", presentations.Delete)
				r.Post("/{id}/edit", editor.Open)
			})

			// Editor sessions — the slide mutation protocol.
			r.Route("/editor/{sid}", func(r chi.Router) {
				r.Get("/", editor.Snapshot)
				r.Get("/state", editor.State)
				r.Delete("/", editor.Close)
				r.Post("/select", editor.Select)
				r.Post("/slides", editor.AddSlide)
				r.Patch("/slide", editor.UpdateSlide)
				r.Post("/slide/move", editor.MoveSlide)
				r.Delete("/slides/{index}", editor.DeleteSlide)
				r.Post("/theme", editor.ApplyTheme)
				r.Post("/background", editor.ApplyBackground)
				r.Post("/gradient", editor.ApplyGradient)
				r.Post("/undo", editor.Undo)
				r.Post("/redo", editor.Redo)
				r.Get("/preview", editor.Preview)
				r.Post("/refine", editor.Refine)
				r.Get("/export", editor.Export)
			})

			// Image acquisition — rate limited, these burn provider quota.
			r.Route("/ai", func(r chi.Router) {
				r.Use(aiLimiter.Middleware)
				r.Post("/image", aiHandlers.GenerateImage)
				r.Post("/images", aiHandlers.GenerateImages)
				r.Get("/search", aiHandlers.SearchImages)
			})

			// Provider management — admin only.
			r.Route("/providers", func(r chi.Router) {
				r.Get("/", aiHandlers.Providers)
				r.With(middleware.RequireAdmin).Post("/", aiHandlers.SetProvider)
			})

			// Account management — admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", users.List)
				r.Post("/", users.Create)
				r.Delete("/{id}", users.Delete)
				r.Post("/{id}/reset-2fa", users.Reset2FA)
			})

			// Asset uploads
			r.Route("/assets", func(r chi.Router) {
				r.Post("/", assets.Upload)
				r.Delete("/", assets.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
