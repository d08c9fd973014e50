package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/ladleapp/ladle-server/internal/config"
	"github.com/ladleapp/ladle-server/internal/logger"
	"github.com/ladleapp/ladle-server/internal/media/images"
)

// ProvideImageStorage provides the storage for uploaded recipe images.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.MediaPath())
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}

	log.Info("Image storage initialized", "path", cfg.MediaPath())

	return storage, nil
}

// ProvideImageProcessor provides the image processor for recipe photos.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(storage, log.Logger), nil
}
