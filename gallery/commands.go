package gallery

import "strings"

const MinPasswordLength = 6

type UploadPhotoCommand struct {
	FileName    string // original name, sanitized before it reaches storage
	Data        []byte
	AlbumID     *string // nil or blank: uncategorized
	Title       *string // nil or blank: FileName
	Description *string
}

func (c *UploadPhotoCommand) Validate() error {
	if len(c.Data) == 0 {
		return invalid("no file uploaded")
	}
	return nil
}

type CreateAlbumCommand struct {
	Name          string
	Description   *string
	CoverFileName string
	Cover         []byte // optional
}

func (c *CreateAlbumCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name is required")
	}
	return nil
}

// UpdatePhotoCommand is a partial update: nil fields are left alone,
// blank ones are cleared
type UpdatePhotoCommand struct {
	Title       *string
	Description *string
}

type ChangePasswordCommand struct {
	Current string
	New     string
	Confirm string
}

func (c *ChangePasswordCommand) Validate() error {
	if c.Current == "" {
		return invalid("current password is required")
	}
	if len(c.New) < MinPasswordLength {
		return invalid("new password must be at least 6 characters")
	}
	if c.New != c.Confirm {
		return invalid("new passwords do not match")
	}
	return nil
}

// clean turns blank optional text into nil
func clean(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
