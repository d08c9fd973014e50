// Package api provides the HTTP API server and handlers for Ladle.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ladleapp/ladle-server/internal/config"
	"github.com/ladleapp/ladle-server/internal/http/response"
	"github.com/ladleapp/ladle-server/internal/media/images"
	"github.com/ladleapp/ladle-server/internal/ratelimit"
	"github.com/ladleapp/ladle-server/internal/service"
	"github.com/ladleapp/ladle-server/internal/store"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	Profile    *service.ProfileService
	Tag        *service.TagService
	Ingredient *service.IngredientService
	Recipe     *service.RecipeService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Store
	services     *Services
	imageStorage *images.Storage
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
	tokenLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, imageStorage *images.Storage, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	tokenLimiter := ratelimit.New(cfg.Auth.TokenRPS, cfg.Auth.TokenBurst)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(tokenRateLimitMiddleware(tokenLimiter, logger))

	s := &Server{
		store:        st,
		services:     services,
		imageStorage: imageStorage,
		router:       router,
		logger:       logger,
		tokenLimiter: tokenLimiter,
	}

	// Methods huma never registered (like POST /api/v1/users/me) land here.
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", logger)
	})

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"token": {
			Type:   "http",
			Scheme: "bearer",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerUserRoutes()
	s.registerTagRoutes()
	s.registerIngredientRoutes()
	s.registerRecipeRoutes()
	s.registerMediaRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.tokenLimiter.Stop()
}
