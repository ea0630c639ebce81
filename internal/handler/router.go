package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminHandler "github.com/aseed/a-seed/backend/internal/handler/admin"
	authHandler "github.com/aseed/a-seed/backend/internal/handler/auth"
	chatHandler "github.com/aseed/a-seed/backend/internal/handler/chat"
	middlewarePkg "github.com/aseed/a-seed/backend/internal/middleware"
	"github.com/aseed/a-seed/backend/internal/model/user"
	aiservice "github.com/aseed/a-seed/backend/internal/service/ai"
	authservice "github.com/aseed/a-seed/backend/internal/service/auth"
	chatservice "github.com/aseed/a-seed/backend/internal/service/chat"
	"github.com/aseed/a-seed/backend/internal/service/stats"

	"github.com/aseed/a-seed/backend/internal/config"
)

// Deps carries everything the router wires together.
type Deps struct {
	Users    user.Store
	Sessions *authservice.Manager
	Store    *chatservice.Service
	AI       *aiservice.Service
	Stats    *stats.Service
	Admin    config.AdminConfig

	// Restart asks the process to exit gracefully so the supervisor
	// restarts it.
	Restart func()
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	r.Use(middlewarePkg.Observe(deps.Stats))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		authHandler.New(deps.Users, deps.Sessions).RegisterRoutes(api)
		adminHandler.New(deps.Sessions, deps.Stats, deps.Admin, deps.Restart).RegisterRoutes(api)

		api.Group(func(g chi.Router) {
			g.Use(middlewarePkg.RequireUser(deps.Sessions))
			chatHandler.New(deps.Store, deps.AI, deps.Sessions).RegisterRoutes(g)
		})
	})

	return r
}
