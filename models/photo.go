package models

import "time"

type Photo struct {
	ID          string    `gorm:"primaryKey;type:varchar(36);index:album_photo_created,priority:3" json:"id"`
	URL         string    `gorm:"type:varchar(500);not null" json:"url"`
	Title       *string   `gorm:"type:varchar(300)" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Width       *int      `json:"width"`  // nil for legacy records that were never normalized
	Height      *int      `json:"height"` // nil for legacy records that were never normalized
	AlbumID     *string   `gorm:"type:varchar(36);index:album_photo_created,priority:1" json:"albumId"` // nil means uncategorized
	Album       *Album    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	CreatedAt   time.Time `gorm:"index:album_photo_created,priority:2;index:photo_created" json:"createdAt"`
}

// IsNormalized reports whether the stored file is known to be a size x size image
func (p *Photo) IsNormalized(size int) bool {
	return p.Width != nil && p.Height != nil && *p.Width == size && *p.Height == size
}
