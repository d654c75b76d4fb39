package gallery

import (
	"lunar/config"
	"lunar/processing"
	"lunar/storage"

	"gorm.io/gorm"
)

// NewFromConfig wires a Service the way the server and the tools run it
func NewFromConfig(db *gorm.DB, blobs storage.BlobStore, views Invalidator) *Service {
	return New(db, blobs, &processing.CoverNormalizer{MaxPixels: int64(config.MAX_IMAGE_PIXELS)}, views, Config{
		NormalizeSize: config.NORMALIZE_SIZE,
		DefaultTitle:  config.SITE_TITLE,
		Credentials: Credentials{
			Username: config.ADMIN_USERNAME,
			Password: config.ADMIN_PASSWORD,
		},
	})
}
