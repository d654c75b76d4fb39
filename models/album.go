package models

import "time"

type Album struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `gorm:"type:varchar(300);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CoverImage  *string   `gorm:"type:varchar(500)" json:"coverImage"` // set at creation only
	CreatedAt   time.Time `gorm:"index:album_created" json:"createdAt"`
}
