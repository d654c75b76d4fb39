package gallery

import (
	"errors"
	"strings"
	"testing"
)

func TestDeletePhoto(t *testing.T) {
	s, blobs, views := newTestService(t)
	album := mustCreateAlbum(t, s, "Moons")
	photo := mustUpload(t, s, "io.jpg", &album.ID)
	views.reset()

	if err := s.DeletePhoto(ctx, anonymous, photo.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("DeletePhoto(anonymous) error = %v, want ErrUnauthorized", err)
	}
	if !blobs.has(photo.URL) {
		t.Fatalf("anonymous delete removed the file")
	}

	if err := s.DeletePhoto(ctx, admin, photo.ID); err != nil {
		t.Fatalf("DeletePhoto() error = %v", err)
	}
	if blobs.has(photo.URL) {
		t.Errorf("file %s still stored", photo.URL)
	}
	if _, err := s.findPhoto(ctx, photo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("photo still found after delete: %v", err)
	}
	for _, path := range []string{ViewHome, ViewPhotos, AlbumView(album.ID)} {
		if !views.has(path) {
			t.Errorf("%s was not invalidated", path)
		}
	}

	if err := s.DeletePhoto(ctx, admin, photo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeletePhoto() error = %v, want ErrNotFound", err)
	}
}

func TestDeletePhoto_fileProblems(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(blobs *memStore, url string)
	}{
		{"file already gone", func(blobs *memStore, url string) {
			name, _ := blobs.NameFromURL(url)
			delete(blobs.files, name)
		}},
		{"file delete fails", func(blobs *memStore, url string) {
			blobs.failDelete = true
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, blobs, _ := newTestService(t)
			photo := mustUpload(t, s, "europa.jpg", nil)
			tt.prepare(blobs, photo.URL)

			if err := s.DeletePhoto(ctx, admin, photo.ID); err != nil {
				t.Fatalf("DeletePhoto() error = %v", err)
			}
			if _, err := s.findPhoto(ctx, photo.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("photo record survived: %v", err)
			}
		})
	}
}

func TestUpdatePhoto(t *testing.T) {
	s, _, _ := newTestService(t)
	photo, err := s.UploadPhoto(ctx, admin, UploadPhotoCommand{
		FileName:    "titan.jpg",
		Data:        []byte("titan"),
		Title:       strPtr("Titan"),
		Description: strPtr("Largest moon of Saturn"),
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		cmd       UpdatePhotoCommand
		wantTitle *string
		wantDesc  *string
	}{
		{"nothing", UpdatePhotoCommand{}, strPtr("Titan"), strPtr("Largest moon of Saturn")},
		{"title only", UpdatePhotoCommand{Title: strPtr(" Titan at dusk ")}, strPtr("Titan at dusk"), strPtr("Largest moon of Saturn")},
		{"clear description", UpdatePhotoCommand{Description: strPtr(" ")}, strPtr("Titan at dusk"), nil},
		{"both", UpdatePhotoCommand{Title: strPtr("T"), Description: strPtr("D")}, strPtr("T"), strPtr("D")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.UpdatePhoto(ctx, admin, photo.ID, tt.cmd); err != nil {
				t.Fatalf("UpdatePhoto() error = %v", err)
			}
			stored, err := s.findPhoto(ctx, photo.ID)
			if err != nil {
				t.Fatal(err)
			}
			if !equalText(stored.Title, tt.wantTitle) {
				t.Errorf("Title = %v, want %v", deref(stored.Title), deref(tt.wantTitle))
			}
			if !equalText(stored.Description, tt.wantDesc) {
				t.Errorf("Description = %v, want %v", deref(stored.Description), deref(tt.wantDesc))
			}
		})
	}

	if _, err = s.UpdatePhoto(ctx, admin, "missing", UpdatePhotoCommand{Title: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePhoto(missing) error = %v, want ErrNotFound", err)
	}
	if _, err = s.UpdatePhoto(ctx, anonymous, photo.ID, UpdatePhotoCommand{Title: strPtr("x")}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("UpdatePhoto(anonymous) error = %v, want ErrUnauthorized", err)
	}
}

func equalText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestMovePhoto(t *testing.T) {
	s, _, views := newTestService(t)
	a := mustCreateAlbum(t, s, "A")
	b := mustCreateAlbum(t, s, "B")
	photo := mustUpload(t, s, "rigel.jpg", &a.ID)
	views.reset()

	moved, err := s.MovePhoto(ctx, admin, photo.ID, &b.ID)
	if err != nil {
		t.Fatalf("MovePhoto() error = %v", err)
	}
	if moved.AlbumID == nil || *moved.AlbumID != b.ID {
		t.Errorf("AlbumID = %v, want %s", moved.AlbumID, b.ID)
	}
	for _, path := range []string{AlbumView(a.ID), AlbumView(b.ID), ViewPhotos} {
		if !views.has(path) {
			t.Errorf("%s was not invalidated", path)
		}
	}
	countOf := func(id string) int64 {
		album, err := s.GetAlbum(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		return album.PhotoCount
	}
	if countOf(a.ID) != 0 || countOf(b.ID) != 1 {
		t.Errorf("counts after move: A=%d B=%d", countOf(a.ID), countOf(b.ID))
	}

	if _, err = s.MovePhoto(ctx, admin, photo.ID, strPtr("nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("MovePhoto(unknown album) error = %v, want ErrNotFound", err)
	}
	if countOf(b.ID) != 1 {
		t.Errorf("failed move changed the album")
	}

	if _, err = s.MovePhoto(ctx, admin, photo.ID, nil); err != nil {
		t.Fatalf("MovePhoto(nil) error = %v", err)
	}
	loose, err := s.ListAllPhotos(ctx, UncategorizedOnly())
	if err != nil {
		t.Fatal(err)
	}
	if len(loose) != 1 || loose[0].ID != photo.ID {
		t.Errorf("uncategorized = %v, want [%s]", photoIDs(loose), photo.ID)
	}

	if _, err = s.MovePhoto(ctx, anonymous, photo.ID, &a.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("MovePhoto(anonymous) error = %v, want ErrUnauthorized", err)
	}
	if _, err = s.MovePhoto(ctx, admin, "missing", &a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("MovePhoto(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCreateAlbum(t *testing.T) {
	tests := []struct {
		name      string
		who       Identity
		cmd       CreateAlbumCommand
		wantErr   error
		wantValid bool
		wantCover bool
	}{
		{name: "anonymous", who: anonymous, cmd: CreateAlbumCommand{Name: "X"}, wantErr: ErrUnauthorized},
		{name: "blank name", who: admin, cmd: CreateAlbumCommand{Name: "  "}, wantValid: true},
		{name: "broken cover", who: admin, cmd: CreateAlbumCommand{Name: "X", CoverFileName: "c.jpg", Cover: []byte("broken")}, wantErr: ErrProcessing},
		{name: "no cover", who: admin, cmd: CreateAlbumCommand{Name: " Deep Sky ", Description: strPtr("far away")}},
		{name: "with cover", who: admin, cmd: CreateAlbumCommand{Name: "Deep Sky", CoverFileName: "m31.jpg", Cover: []byte("m31")}, wantCover: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, blobs, views := newTestService(t)
			album, err := s.CreateAlbum(ctx, tt.who, tt.cmd)
			switch {
			case tt.wantValid:
				if !IsValidation(err) {
					t.Fatalf("CreateAlbum() error = %v, want a validation error", err)
				}
				return
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateAlbum() error = %v, want %v", err, tt.wantErr)
				}
				if blobs.count() != 0 {
					t.Errorf("file stored for a failed album")
				}
				return
			case err != nil:
				t.Fatalf("CreateAlbum() error = %v", err)
			}
			if album.Name != "Deep Sky" {
				t.Errorf("Name = %q", album.Name)
			}
			if tt.wantCover {
				if album.CoverImage == nil || !strings.HasPrefix(*album.CoverImage, "/uploads/") || !blobs.has(*album.CoverImage) {
					t.Errorf("CoverImage = %v", album.CoverImage)
				}
			} else if album.CoverImage != nil {
				t.Errorf("CoverImage = %v, want nil", *album.CoverImage)
			}
			if !views.has(ViewAlbums) {
				t.Errorf("%s was not invalidated", ViewAlbums)
			}
			if _, err = s.GetAlbum(ctx, album.ID); err != nil {
				t.Errorf("GetAlbum() error = %v", err)
			}
		})
	}
}

func TestUncategorizedScenario(t *testing.T) {
	s, _, _ := newTestService(t)
	nebula := mustCreateAlbum(t, s, "Nebula")
	inAlbum := mustUpload(t, s, "crab.jpg", &nebula.ID)
	loose := mustUpload(t, s, "moon.jpg", nil)

	uncategorized, err := s.ListPhotos(ctx, UncategorizedOnly(), 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if got := photoIDs(uncategorized); len(got) != 1 || got[0] != loose.ID {
		t.Errorf("uncategorized = %v, want [%s]", got, loose.ID)
	}
	inNebula, err := s.ListPhotos(ctx, ByAlbum(nebula.ID), 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if got := photoIDs(inNebula); len(got) != 1 || got[0] != inAlbum.ID {
		t.Errorf("album photos = %v, want [%s]", got, inAlbum.ID)
	}
}
