package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/notedeck/notedeck-be/internal/api/handlers"
	"github.com/notedeck/notedeck-be/internal/auth"
	"github.com/notedeck/notedeck-be/internal/monitoring"
	"github.com/notedeck/notedeck-be/internal/services"
	"github.com/notedeck/notedeck-be/internal/storage"
	"github.com/notedeck/notedeck-be/internal/websocket"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Tokens        *auth.Service
	Users         services.UserServiceProvider
	Events        services.EventServiceProvider
	Snapshots     services.SnapshotServiceProvider
	Store         *storage.UserFileStore
	Hub           *websocket.Hub
	Usage         *monitoring.UsageUpdater
	AllowedOrigin string
	SecureCookies bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Events, deps.Tokens, deps.SecureCookies)
	docsHandler := handlers.NewDocsHandler(deps.Store, deps.Tokens, deps.Events, deps.Hub)
	snapshotHandler := handlers.NewSnapshotHandler(deps.Snapshots, deps.Tokens, deps.Hub)
	eventHandler := handlers.NewEventHandler(deps.Events)
	systemHandler := handlers.NewSystemHandler(deps.Usage)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.Tokens)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket connection endpoint; applies the docs access rule itself.
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(deps.Tokens.Middleware()).Get("/check", authHandler.Check)
		})

		// Document routes resolve public/private access per request, so no
		// blanket auth middleware here. Named segments (list, info, rename,
		// mkdir, snapshots) take precedence over the document-path wildcard.
		r.Route("/docs/{userId}", func(r chi.Router) {
			r.Get("/list", docsHandler.List)
			r.Get("/info", docsHandler.Info)
			r.Post("/rename", docsHandler.Rename)
			r.Post("/mkdir", docsHandler.MkDir)

			r.Route("/snapshots", func(r chi.Router) {
				r.Get("/", snapshotHandler.GetAll)
				r.Post("/", snapshotHandler.Create)
				r.Delete("/{snapshotId}", snapshotHandler.Delete)
				r.Post("/{snapshotId}/restore", snapshotHandler.Restore)
			})

			r.Get("/*", docsHandler.Read)
			r.Post("/*", docsHandler.Save)
			r.Delete("/*", docsHandler.Delete)
		})

		r.With(deps.Tokens.Middleware()).Get("/events", eventHandler.GetRecent)
		r.Get("/system/stats", systemHandler.Stats)
	})

	return r
}
