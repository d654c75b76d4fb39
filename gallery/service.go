// Package gallery holds the photo ingestion pipeline, the gallery queries and
// the admin mutations. Every mutating operation checks the caller's Identity
// itself, whatever the transport in front of it already checked.
package gallery

import (
	"context"
	"errors"
	"time"

	"lunar/models"
	"lunar/processing"
	"lunar/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultNormalizeSize = 1080

	ViewHome     = "/"
	ViewPhotos   = "/photos"
	ViewAlbums   = "/albums"
	ViewSettings = "/settings"
)

func AlbumView(id string) string {
	return ViewAlbums + "/" + id
}

// Identity answers whether the caller holds an authenticated admin session
type Identity interface {
	IsAdmin() bool
}

// Invalidator drops cached renderings of the given view paths
type Invalidator interface {
	Invalidate(paths ...string)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(...string) {}

// Credentials are the environment provided admin credentials, used until
// the first password change is stored in AdminConfig
type Credentials struct {
	Username string
	Password string
}

type Config struct {
	NormalizeSize int
	DefaultTitle  string
	Credentials   Credentials
}

type Service struct {
	db         *gorm.DB
	blobs      storage.BlobStore
	normalizer processing.Normalizer
	views      Invalidator
	config     Config

	now        func() time.Time
	newID      func() string
	bcryptCost int
}

func New(db *gorm.DB, blobs storage.BlobStore, normalizer processing.Normalizer, views Invalidator, config Config) *Service {
	if views == nil {
		views = nopInvalidator{}
	}
	if config.NormalizeSize <= 0 {
		config.NormalizeSize = DefaultNormalizeSize
	}
	return &Service{
		db:         db,
		blobs:      blobs,
		normalizer: normalizer,
		views:      views,
		config:     config,
		now: func() time.Time {
			// MySQL keeps milliseconds, keep the same everywhere so cursors compare equal
			return time.Now().UTC().Truncate(time.Millisecond)
		},
		newID:      uuid.NewString,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func isAdmin(who Identity) bool {
	return who != nil && who.IsAdmin()
}

func (s *Service) invalidatePhotoViews(albumIDs ...*string) {
	paths := []string{ViewHome, ViewPhotos, ViewAlbums}
	for _, id := range albumIDs {
		if id != nil {
			paths = append(paths, AlbumView(*id))
		}
	}
	s.views.Invalidate(paths...)
}

func (s *Service) findPhoto(ctx context.Context, id string) (*models.Photo, error) {
	photo := models.Photo{}
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("photo", id)
	}
	if err != nil {
		return nil, storageError("load photo", err)
	}
	return &photo, nil
}

func (s *Service) checkAlbumExists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Album{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return storageError("load album", err)
	}
	if count == 0 {
		return notFound("album", id)
	}
	return nil
}
