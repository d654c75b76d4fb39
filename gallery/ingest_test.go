package gallery

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"testing"

	"lunar/models"
	"lunar/processing"
	"lunar/storage"
)

var ctx = context.Background()

func TestUploadPhoto(t *testing.T) {
	s, blobs, _ := newTestService(t)
	album := mustCreateAlbum(t, s, "Nebula")

	tests := []struct {
		name      string
		who       Identity
		cmd       UploadPhotoCommand
		wantErr   error
		wantTitle string
		wantAlbum *string
	}{
		{
			name:    "anonymous",
			who:     anonymous,
			cmd:     UploadPhotoCommand{FileName: "moon.jpg", Data: []byte("moon")},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "nil identity",
			who:     nil,
			cmd:     UploadPhotoCommand{FileName: "moon.jpg", Data: []byte("moon")},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "broken image",
			who:     admin,
			cmd:     UploadPhotoCommand{FileName: "moon.jpg", Data: []byte("broken moon")},
			wantErr: ErrProcessing,
		},
		{
			name:    "unknown album",
			who:     admin,
			cmd:     UploadPhotoCommand{FileName: "moon.jpg", Data: []byte("moon"), AlbumID: strPtr("nope")},
			wantErr: ErrNotFound,
		},
		{
			name:      "title falls back to file name",
			who:       admin,
			cmd:       UploadPhotoCommand{FileName: "full moon.jpg", Data: []byte("moon"), Title: strPtr("  ")},
			wantTitle: "full moon.jpg",
		},
		{
			name:      "into album with title",
			who:       admin,
			cmd:       UploadPhotoCommand{FileName: "orion.jpg", Data: []byte("orion"), Title: strPtr("Orion"), AlbumID: &album.ID},
			wantTitle: "Orion",
			wantAlbum: &album.ID,
		},
		{
			name:      "blank album id is uncategorized",
			who:       admin,
			cmd:       UploadPhotoCommand{FileName: "comet.jpg", Data: []byte("comet"), AlbumID: strPtr("")},
			wantTitle: "comet.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobsBefore := blobs.count()
			photo, err := s.UploadPhoto(ctx, tt.who, tt.cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UploadPhoto() error = %v, want %v", err, tt.wantErr)
				}
				if blobs.count() != blobsBefore {
					t.Errorf("a file was stored for a failed upload")
				}
				return
			}
			if err != nil {
				t.Fatalf("UploadPhoto() error = %v", err)
			}
			if photo.Title == nil || *photo.Title != tt.wantTitle {
				t.Errorf("Title = %v, want %q", photo.Title, tt.wantTitle)
			}
			if (photo.AlbumID == nil) != (tt.wantAlbum == nil) || (photo.AlbumID != nil && *photo.AlbumID != *tt.wantAlbum) {
				t.Errorf("AlbumID = %v, want %v", photo.AlbumID, tt.wantAlbum)
			}
			if !photo.IsNormalized(1080) {
				t.Errorf("photo is not recorded as 1080x1080")
			}
			if !blobs.has(photo.URL) {
				t.Errorf("no file stored at %s", photo.URL)
			}
			stored, err := s.findPhoto(ctx, photo.ID)
			if err != nil || stored.URL != photo.URL {
				t.Errorf("stored photo = %+v, %v", stored, err)
			}
		})
	}

	var count int64
	s.db.Model(&models.Photo{}).Count(&count)
	if count != 3 {
		t.Errorf("%d photo rows, want 3", count)
	}
}

func TestUploadPhoto_emptyFile(t *testing.T) {
	s, _, _ := newTestService(t)
	_, err := s.UploadPhoto(ctx, admin, UploadPhotoCommand{FileName: "empty.jpg"})
	if !IsValidation(err) {
		t.Errorf("UploadPhoto() error = %v, want a validation error", err)
	}
}

func TestUploadPhoto_invalidatesViews(t *testing.T) {
	s, _, views := newTestService(t)
	album := mustCreateAlbum(t, s, "Galaxies")
	views.reset()

	mustUpload(t, s, "andromeda.jpg", &album.ID)
	for _, path := range []string{ViewHome, ViewPhotos, AlbumView(album.ID)} {
		if !views.has(path) {
			t.Errorf("%s was not invalidated", path)
		}
	}
}

func TestUploadPhoto_failedInsertKeepsFile(t *testing.T) {
	s, blobs, _ := newTestService(t)
	if err := s.db.Migrator().DropTable(&models.Photo{}); err != nil {
		t.Fatal(err)
	}
	_, err := s.UploadPhoto(ctx, admin, UploadPhotoCommand{FileName: "moon.jpg", Data: []byte("moon")})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("UploadPhoto() error = %v, want ErrStorage", err)
	}
	if blobs.count() != 1 {
		t.Errorf("%d files stored, want the orphaned one", blobs.count())
	}
}

func TestUploadPhoto_realPipeline(t *testing.T) {
	s, _, _ := newTestService(t)
	disk := storage.NewDiskStorage(t.TempDir(), "/uploads/")
	s.blobs = disk
	s.normalizer = &processing.CoverNormalizer{}

	tests := []struct {
		name string
		w, h int
	}{
		{"landscape", 400, 100},
		{"portrait", 90, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			img.Set(1, 1, color.White)
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				t.Fatal(err)
			}
			photo, err := s.UploadPhoto(ctx, admin, UploadPhotoCommand{FileName: "moon shot.png", Data: buf.Bytes()})
			if err != nil {
				t.Fatalf("UploadPhoto() error = %v", err)
			}
			if !regexp.MustCompile(`^/uploads/\d+-moon-shot\.png$`).MatchString(photo.URL) {
				t.Errorf("URL = %s", photo.URL)
			}
			name, _ := disk.NameFromURL(photo.URL)
			var stored bytes.Buffer
			if _, err = disk.Load(name, &stored); err != nil {
				t.Fatal(err)
			}
			cfg, _, err := image.DecodeConfig(&stored)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Width != 1080 || cfg.Height != 1080 {
				t.Errorf("stored image is %dx%d, want 1080x1080", cfg.Width, cfg.Height)
			}
		})
	}
}
