package gallery

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"

	"lunar/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// adminConfig returns nil when the row was never created
func (s *Service) adminConfig(ctx context.Context) (*models.AdminConfig, error) {
	cfg := models.AdminConfig{}
	err := s.db.WithContext(ctx).Where("id = ?", models.AdminConfigID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("load admin config", err)
	}
	return &cfg, nil
}

func (s *Service) adminUsername(cfg *models.AdminConfig) string {
	if cfg != nil && cfg.Username != "" {
		return cfg.Username
	}
	return s.config.Credentials.Username
}

// checkPassword prefers the stored hash. The configured plain text password
// only counts while no password change was ever stored.
func (s *Service) checkPassword(cfg *models.AdminConfig, password string) bool {
	if cfg.HasPassword() {
		return bcrypt.CompareHashAndPassword([]byte(cfg.Password), []byte(password)) == nil
	}
	if s.config.Credentials.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.config.Credentials.Password)) == 1
}

// Authenticate returns ErrInvalidCredentials for an unknown user and for a
// wrong password alike
func (s *Service) Authenticate(ctx context.Context, username, password string) error {
	cfg, err := s.adminConfig(ctx)
	if err != nil {
		return err
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername(cfg))) == 1
	passOK := s.checkPassword(cfg, password)
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) SiteTitle(ctx context.Context) (string, error) {
	cfg, err := s.adminConfig(ctx)
	if err != nil {
		return s.config.DefaultTitle, err
	}
	if cfg != nil && cfg.SiteTitle != nil && *cfg.SiteTitle != "" {
		return *cfg.SiteTitle, nil
	}
	return s.config.DefaultTitle, nil
}

// UpdateSiteTitle sets the title override, a blank title removes it
func (s *Service) UpdateSiteTitle(ctx context.Context, who Identity, title string) error {
	if !isAdmin(who) {
		return ErrUnauthorized
	}
	cfg := models.AdminConfig{
		ID:        models.AdminConfigID,
		SiteTitle: clean(&title),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"site_title", "updated_at"}),
	}).Create(&cfg).Error
	if err != nil {
		return storageError("save site title", err)
	}
	s.views.Invalidate(ViewHome, ViewSettings)
	return nil
}

// ChangePassword stores the new password hash. From then on the stored hash
// is the only password that works, there is no way back to the configured one.
func (s *Service) ChangePassword(ctx context.Context, who Identity, cmd ChangePasswordCommand) error {
	if !isAdmin(who) {
		return ErrUnauthorized
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	current, err := s.adminConfig(ctx)
	if err != nil {
		return err
	}
	if !s.checkPassword(current, cmd.Current) {
		return invalid("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.New), s.bcryptCost)
	if err != nil {
		return err
	}
	cfg := models.AdminConfig{
		ID:       models.AdminConfigID,
		Password: string(hash),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "updated_at"}),
	}).Create(&cfg).Error
	if err != nil {
		return storageError("save password", err)
	}
	if !current.HasPassword() {
		log.Println("ChangePassword: stored admin password now replaces the configured one")
	}
	return nil
}
