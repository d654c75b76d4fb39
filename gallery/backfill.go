package gallery

import (
	"bytes"
	"context"
	"image"
	"log"
	"path/filepath"
	"strings"

	"lunar/models"

	"gorm.io/gorm"
)

type BackfillReport struct {
	Resized int
	Skipped int
	Failed  int
}

// Backfill normalizes photos stored before every upload went through the
// normalizer. Files are overwritten in place so URLs do not change. Photos
// pointing outside of our blob store are skipped.
func (s *Service) Backfill(ctx context.Context) (BackfillReport, error) {
	report := BackfillReport{}
	size := s.config.NormalizeSize
	photos := []models.Photo{}
	err := s.db.WithContext(ctx).FindInBatches(&photos, 50, func(tx *gorm.DB, batch int) error {
		for i := range photos {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch s.backfillOne(ctx, &photos[i], size) {
			case backfillResized:
				report.Resized++
			case backfillSkipped:
				report.Skipped++
			default:
				report.Failed++
			}
		}
		return nil
	}).Error
	if err != nil {
		return report, storageError("backfill", err)
	}
	if report.Resized > 0 {
		s.invalidatePhotoViews()
	}
	return report, nil
}

const (
	backfillFailed = iota
	backfillSkipped
	backfillResized
)

func (s *Service) backfillOne(ctx context.Context, photo *models.Photo, size int) int {
	name, ok := s.blobs.NameFromURL(photo.URL)
	if !ok || photo.IsNormalized(size) {
		return backfillSkipped
	}
	var buf bytes.Buffer
	if _, err := s.blobs.Load(name, &buf); err != nil {
		log.Printf("Backfill %s: cannot load %s: %v", photo.ID, name, err)
		return backfillFailed
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		log.Printf("Backfill %s: cannot decode %s: %v", photo.ID, name, err)
		return backfillFailed
	}
	// Files already at the target size only need their dimensions recorded
	result := backfillSkipped
	if cfg.Width != size || cfg.Height != size {
		normalized, err := s.normalizer.Normalize(buf.Bytes(), size)
		if err != nil {
			log.Printf("Backfill %s: cannot normalize %s: %v", photo.ID, name, err)
			return backfillFailed
		}
		// The name, and with it the URL and the served content type, stays the same
		if ext := normalized.Ext(name); !strings.EqualFold(ext, filepath.Ext(name)) {
			log.Printf("Backfill %s: %s would become %s, left as is", photo.ID, name, ext)
			return backfillFailed
		}
		if _, err = s.blobs.Save(name, bytes.NewReader(normalized.Data)); err != nil {
			log.Printf("Backfill %s: cannot save %s: %v", photo.ID, name, err)
			return backfillFailed
		}
		log.Printf("Backfill %s: %s resized from %dx%d", photo.ID, name, cfg.Width, cfg.Height)
		result = backfillResized
	}
	err = s.db.WithContext(ctx).Model(&models.Photo{}).Where("id = ?", photo.ID).
		Updates(map[string]interface{}{"width": size, "height": size}).Error
	if err != nil {
		log.Printf("Backfill %s: cannot update dimensions: %v", photo.ID, err)
		return backfillFailed
	}
	return result
}
