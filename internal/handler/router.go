package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/coinboard/coinboard/internal/middleware"
	"github.com/coinboard/coinboard/internal/session"
)

// NewRouter configures the chi router with all routes and middleware.
// hsts enables the Strict-Transport-Security header; it belongs on
// production deployments behind TLS.
func NewRouter(accounts *AccountHandler, health *HealthHandler, sessions *session.Manager, logger *slog.Logger, hsts bool) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(hsts))

	// Health endpoints (no session required)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Account pages; session resolution applies to all of them, the
	// gate only to protected views.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(sessions))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		})

		r.Get("/register", accounts.RegisterForm)
		r.Post("/register", accounts.Register)
		r.Get("/login", accounts.LoginForm)
		r.Post("/login", accounts.Login)
		r.Get("/logout", accounts.Logout)

		r.With(middleware.RequireUser("/login")).Get("/dashboard", accounts.Dashboard)
	})

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}
