package gallery

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"lunar/models"
	"lunar/storage"
)

// UploadPhoto normalizes the uploaded image, stores it and records a Photo.
// No Photo row exists unless the file was stored first. A failed insert
// leaves the stored file behind, it is logged and not cleaned up.
func (s *Service) UploadPhoto(ctx context.Context, who Identity, cmd UploadPhotoCommand) (*models.Photo, error) {
	if !isAdmin(who) {
		return nil, ErrUnauthorized
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	albumID := clean(cmd.AlbumID)
	if albumID != nil {
		if err := s.checkAlbumExists(ctx, *albumID); err != nil {
			return nil, err
		}
	}
	url, err := s.storeNormalized(cmd.FileName, cmd.Data)
	if err != nil {
		return nil, err
	}

	title := clean(cmd.Title)
	if title == nil {
		fileName := cmd.FileName
		title = &fileName
	}
	width, height := s.config.NormalizeSize, s.config.NormalizeSize
	photo := models.Photo{
		ID:          s.newID(),
		URL:         url,
		Title:       title,
		Description: clean(cmd.Description),
		Width:       &width,
		Height:      &height,
		AlbumID:     albumID,
		CreatedAt:   s.now(),
	}
	if err = s.db.WithContext(ctx).Create(&photo).Error; err != nil {
		log.Printf("UploadPhoto: %s stored but the photo record failed: %v", url, err)
		return nil, storageError("insert photo", err)
	}
	s.invalidatePhotoViews(photo.AlbumID)
	return &photo, nil
}

// storeNormalized runs the normalizer and saves the result under a
// "<ms>-<sanitized name>" file name. The original bytes are never stored.
func (s *Service) storeNormalized(fileName string, data []byte) (string, error) {
	normalized, err := s.normalizer.Normalize(data, s.config.NormalizeSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	name := storage.FileName(s.now(), fileName, normalized.Ext(fileName))
	url, err := s.blobs.Save(name, bytes.NewReader(normalized.Data))
	if err != nil {
		return "", storageError("save "+name, err)
	}
	return url, nil
}
