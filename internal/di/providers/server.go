package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/ladleapp/ladle-server/internal/api"
	"github.com/ladleapp/ladle-server/internal/config"
	"github.com/ladleapp/ladle-server/internal/logger"
	"github.com/ladleapp/ladle-server/internal/media/images"
	"github.com/ladleapp/ladle-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	h.api.Close()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	imageStorage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Profile:    do.MustInvoke[*service.ProfileService](i),
		Tag:        do.MustInvoke[*service.TagService](i),
		Ingredient: do.MustInvoke[*service.IngredientService](i),
		Recipe:     do.MustInvoke[*service.RecipeService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, imageStorage, cfg, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
