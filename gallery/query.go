package gallery

import (
	"context"
	"encoding/base64"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"lunar/models"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	albumSummarySelect = "albums.*, (select count(*) from photos where photos.album_id = albums.id) as photo_count"
	photoOrder         = "created_at DESC, id DESC"
)

type AlbumSummary struct {
	models.Album `gorm:"embedded"`
	PhotoCount   int64 `json:"photoCount"`
}

// PhotoFilter selects all photos (zero value), the photos of one album or
// the uncategorized ones
type PhotoFilter struct {
	AlbumID       *string
	Uncategorized bool
}

func ByAlbum(id string) PhotoFilter {
	return PhotoFilter{AlbumID: &id}
}

func UncategorizedOnly() PhotoFilter {
	return PhotoFilter{Uncategorized: true}
}

func (f PhotoFilter) apply(tx *gorm.DB) *gorm.DB {
	if f.AlbumID != nil {
		return tx.Where("album_id = ?", *f.AlbumID)
	}
	if f.Uncategorized {
		return tx.Where("album_id IS NULL")
	}
	return tx
}

func (s *Service) ListAlbums(ctx context.Context) ([]AlbumSummary, error) {
	result := []AlbumSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.Album{}).
		Select(albumSummarySelect).
		Order("albums.created_at DESC, albums.id DESC").
		Scan(&result).Error
	if err != nil {
		return nil, storageError("list albums", err)
	}
	return result, nil
}

func (s *Service) GetAlbum(ctx context.Context, id string) (*AlbumSummary, error) {
	result := []AlbumSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.Album{}).
		Select(albumSummarySelect).
		Where("albums.id = ?", id).
		Limit(1).
		Scan(&result).Error
	if err != nil {
		return nil, storageError("load album", err)
	}
	if len(result) == 0 {
		return nil, notFound("album", id)
	}
	return &result[0], nil
}

// ListPhotos returns one page, newest first. Fewer than pageSize results
// means there is nothing after this page. Offsets shift when photos are added
// between two calls, ListPhotosAfter does not have that problem.
func (s *Service) ListPhotos(ctx context.Context, filter PhotoFilter, page, pageSize int) ([]models.Photo, error) {
	if page < 0 {
		return nil, invalid("page must not be negative")
	}
	pageSize = clampPageSize(pageSize)
	if page > math.MaxInt/pageSize {
		return nil, invalid("page is out of range")
	}
	result := []models.Photo{}
	err := filter.apply(s.db.WithContext(ctx)).
		Order(photoOrder).
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&result).Error
	if err != nil {
		return nil, storageError("list photos", err)
	}
	return result, nil
}

// ListAllPhotos is ListPhotos without pagination
func (s *Service) ListAllPhotos(ctx context.Context, filter PhotoFilter) ([]models.Photo, error) {
	result := []models.Photo{}
	if err := filter.apply(s.db.WithContext(ctx)).Order(photoOrder).Find(&result).Error; err != nil {
		return nil, storageError("list photos", err)
	}
	return result, nil
}

// Cursor points at the last photo of a page in (createdAt, id) order
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

func CursorOf(p *models.Photo) Cursor {
	return Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
}

func (c Cursor) String() string {
	raw := strconv.FormatInt(c.CreatedAt.UnixMilli(), 10) + "_" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func ParseCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, invalid("invalid cursor")
	}
	millis, id, ok := strings.Cut(string(raw), "_")
	if !ok || id == "" {
		return Cursor{}, invalid("invalid cursor")
	}
	ms, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return Cursor{}, invalid("invalid cursor")
	}
	return Cursor{CreatedAt: time.UnixMilli(ms).UTC(), ID: id}, nil
}

// ListPhotosAfter is keyset pagination: it returns up to limit photos
// strictly after the cursor (nil for the first page) and the cursor of the
// next page, nil once the end is reached
func (s *Service) ListPhotosAfter(ctx context.Context, filter PhotoFilter, after *Cursor, limit int) ([]models.Photo, *Cursor, error) {
	limit = clampPageSize(limit)
	tx := filter.apply(s.db.WithContext(ctx))
	if after != nil {
		tx = tx.Where("(created_at < ? OR (created_at = ? AND id < ?))", after.CreatedAt, after.CreatedAt, after.ID)
	}
	result := []models.Photo{}
	if err := tx.Order(photoOrder).Limit(limit).Find(&result).Error; err != nil {
		return nil, nil, storageError("list photos", err)
	}
	if len(result) < limit {
		return result, nil, nil
	}
	next := CursorOf(&result[len(result)-1])
	return result, &next, nil
}

func clampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	return min(pageSize, MaxPageSize)
}

type Stats struct {
	Albums       int64  `json:"albums"`
	Photos       int64  `json:"photos"`
	UploadsFree  uint64 `json:"uploadsFree"`
	UploadsTotal uint64 `json:"uploadsTotal"`
}

// SpaceReporter is implemented by blob stores that know their free space
type SpaceReporter interface {
	Space() (free, total uint64, err error)
}

func (s *Service) Stats(ctx context.Context, who Identity) (Stats, error) {
	result := Stats{}
	if !isAdmin(who) {
		return result, ErrUnauthorized
	}
	tx := s.db.WithContext(ctx)
	if err := tx.Model(&models.Album{}).Count(&result.Albums).Error; err != nil {
		return result, storageError("count albums", err)
	}
	if err := tx.Model(&models.Photo{}).Count(&result.Photos).Error; err != nil {
		return result, storageError("count photos", err)
	}
	if reporter, ok := s.blobs.(SpaceReporter); ok {
		free, total, err := reporter.Space()
		if err != nil {
			log.Printf("Stats: cannot read upload space: %v", err)
		} else {
			result.UploadsFree, result.UploadsTotal = free, total
		}
	}
	return result, nil
}
