// Package router assembles the chi mux and the middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spectral-labs/auth-api/internal/domain"
	"github.com/spectral-labs/auth-api/internal/transport/http/handlers"
	"github.com/spectral-labs/auth-api/internal/transport/http/middleware"
)

type Deps struct {
	Auth   *handlers.AuthHandler
	Health *handlers.HealthHandler

	Authenticator *middleware.Authenticator

	// Limiters may be nil; the routes then run unthrottled.
	RegisterLimiter middleware.RateLimiter
	LoginLimiter    middleware.RateLimiter
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", d.Health.Healthz)
	r.Get("/ready", d.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/", handlers.APIIndex)

		api.Route("/auth", func(ar chi.Router) {
			ar.With(middleware.RateLimit(d.RegisterLimiter, "register")).
				Post("/register", d.Auth.Register)
			ar.With(middleware.RateLimit(d.LoginLimiter, "login")).
				Post("/login", d.Auth.Login)
			ar.Post("/logout", d.Auth.Logout)

			ar.With(d.Authenticator.Require).Get("/me", d.Auth.Me)
		})

		api.Route("/admin", func(ad chi.Router) {
			ad.Use(d.Authenticator.Require)
			ad.Use(middleware.RequireAtLeast(domain.RoleAdmin))
			ad.Get("/users/{id}", d.Auth.AdminGetUser)
		})
	})

	return r
}
