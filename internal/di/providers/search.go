package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/ladleapp/ladle-server/internal/config"
	"github.com/ladleapp/ladle-server/internal/logger"
	"github.com/ladleapp/ladle-server/internal/search"
	"github.com/ladleapp/ladle-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds the search index when it is empty
// but recipes exist in the store. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	recipeService := do.MustInvoke[*service.RecipeService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, err := recipeService.SearchDocumentCount()
	if err != nil || docCount > 0 {
		return
	}

	ctx := context.Background()
	userIDs, err := storeHandle.ListUserIDs(ctx)
	if err != nil || len(userIDs) == 0 {
		return
	}

	log.Info("Search index is empty, triggering initial reindex",
		"user_count", len(userIDs),
	)

	go func() {
		reindexCtx := context.Background()
		if err := recipeService.ReindexAll(reindexCtx, userIDs); err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		count, _ := recipeService.SearchDocumentCount()
		log.Info("Initial search reindex completed", "documents", count)
	}()
}
