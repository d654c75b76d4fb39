package models

import "time"

// AdminConfigID is the primary key of the only AdminConfig row
const AdminConfigID = "admin"

type AdminConfig struct {
	ID        string  `gorm:"primaryKey;type:varchar(20)"`
	Username  string  `gorm:"type:varchar(100)"` // empty falls back to the configured username
	Password  string  `gorm:"type:varchar(100)"` // bcrypt hash, empty until the first password change
	SiteTitle *string `gorm:"type:varchar(200)"`
	UpdatedAt time.Time
}

// HasPassword reports whether this row overrides the configured password
func (a *AdminConfig) HasPassword() bool {
	return a != nil && a.Password != ""
}
