package gallery

import (
	"context"
	"log"

	"lunar/models"
	"lunar/storage"
)

// DeletePhoto removes the stored file (best effort) and then the record
func (s *Service) DeletePhoto(ctx context.Context, who Identity, id string) error {
	if !isAdmin(who) {
		return ErrUnauthorized
	}
	photo, err := s.findPhoto(ctx, id)
	if err != nil {
		return err
	}
	if name, ok := s.blobs.NameFromURL(photo.URL); ok {
		status, err := s.blobs.Delete(name)
		if status == storage.DeleteFailed {
			log.Printf("DeletePhoto %s: cannot delete file %s: %v", id, name, err)
		} else if status == storage.DeleteAbsent {
			log.Printf("DeletePhoto %s: file %s was already gone", id, name)
		}
	}
	result := s.db.WithContext(ctx).Delete(&models.Photo{}, "id = ?", id)
	if result.Error != nil {
		return storageError("delete photo", result.Error)
	}
	if result.RowsAffected == 0 {
		// Deleted by someone else in the meantime
		return notFound("photo", id)
	}
	s.invalidatePhotoViews(photo.AlbumID)
	return nil
}

func (s *Service) UpdatePhoto(ctx context.Context, who Identity, id string, cmd UpdatePhotoCommand) (*models.Photo, error) {
	if !isAdmin(who) {
		return nil, ErrUnauthorized
	}
	photo, err := s.findPhoto(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if cmd.Title != nil {
		photo.Title = clean(cmd.Title)
		updates["title"] = photo.Title
	}
	if cmd.Description != nil {
		photo.Description = clean(cmd.Description)
		updates["description"] = photo.Description
	}
	if len(updates) > 0 {
		// RowsAffected is 0 on MySQL when nothing changed, so it says nothing about existence
		err = s.db.WithContext(ctx).Model(&models.Photo{}).Where("id = ?", id).Updates(updates).Error
		if err != nil {
			return nil, storageError("update photo", err)
		}
	}
	s.invalidatePhotoViews(photo.AlbumID)
	return photo, nil
}

// MovePhoto puts the photo into targetAlbumID, nil makes it uncategorized
func (s *Service) MovePhoto(ctx context.Context, who Identity, id string, targetAlbumID *string) (*models.Photo, error) {
	if !isAdmin(who) {
		return nil, ErrUnauthorized
	}
	photo, err := s.findPhoto(ctx, id)
	if err != nil {
		return nil, err
	}
	target := clean(targetAlbumID)
	if target != nil {
		if err = s.checkAlbumExists(ctx, *target); err != nil {
			return nil, err
		}
	}
	result := s.db.WithContext(ctx).Model(&models.Photo{}).Where("id = ?", id).Update("album_id", target)
	if result.Error != nil {
		return nil, storageError("move photo", result.Error)
	}
	previous := photo.AlbumID
	photo.AlbumID = target
	s.invalidatePhotoViews(previous, target)
	return photo, nil
}

func (s *Service) CreateAlbum(ctx context.Context, who Identity, cmd CreateAlbumCommand) (*models.Album, error) {
	if !isAdmin(who) {
		return nil, ErrUnauthorized
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	album := models.Album{
		ID:          s.newID(),
		Name:        *clean(&cmd.Name),
		Description: clean(cmd.Description),
	}
	if len(cmd.Cover) > 0 {
		url, err := s.storeNormalized(cmd.CoverFileName, cmd.Cover)
		if err != nil {
			return nil, err
		}
		album.CoverImage = &url
	}
	album.CreatedAt = s.now()
	if err := s.db.WithContext(ctx).Create(&album).Error; err != nil {
		log.Printf("CreateAlbum: insert failed: %v", err)
		return nil, storageError("insert album", err)
	}
	s.views.Invalidate(ViewHome, ViewAlbums)
	return &album, nil
}
