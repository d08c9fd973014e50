// Package di provides dependency injection configuration for the Ladle server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/ladleapp/ladle-server/internal/config"
	"github.com/ladleapp/ladle-server/internal/di/providers"
	"github.com/ladleapp/ladle-server/internal/logger"
	"github.com/ladleapp/ladle-server/internal/media/images"
	"github.com/ladleapp/ladle-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideIngredientService)
	do.Provide(injector, providers.ProvideRecipeService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is running.
// This triggers lazy initialization of every provider in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*images.Processor](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.IngredientService](injector)
	_ = do.MustInvoke[*service.RecipeService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index if it is empty but recipes exist
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
