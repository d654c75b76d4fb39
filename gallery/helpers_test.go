package gallery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"lunar/models"
	"lunar/processing"
	"lunar/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type identity bool

func (i identity) IsAdmin() bool {
	return bool(i)
}

const (
	admin     = identity(true)
	anonymous = identity(false)
)

type memStore struct {
	storage.Storage
	mu         sync.Mutex
	files      map[string][]byte
	failDelete bool
}

func newMemStore() *memStore {
	return &memStore{
		Storage: storage.Storage{URLPrefix: "/uploads/"},
		files:   map[string][]byte{},
	}
}

func (m *memStore) Save(name string, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
	return m.URL(name), nil
}

func (m *memStore) Load(name string, writer io.Writer) (int64, error) {
	m.mu.Lock()
	data, ok := m.files[name]
	m.mu.Unlock()
	if !ok {
		return 0, errors.New("no such file")
	}
	n, err := writer.Write(data)
	return int64(n), err
}

func (m *memStore) Delete(name string) (storage.DeleteStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete {
		return storage.DeleteFailed, errors.New("disk on fire")
	}
	if _, ok := m.files[name]; !ok {
		return storage.DeleteAbsent, nil
	}
	delete(m.files, name)
	return storage.DeleteDone, nil
}

func (m *memStore) Serve(name string, request *http.Request, writer http.ResponseWriter) {
	http.NotFound(writer, request)
}

func (m *memStore) has(url string) bool {
	name, ok := m.NameFromURL(url)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok = m.files[name]
	return ok
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// fakeNormalizer fails for payloads starting with "broken"
type fakeNormalizer struct{}

func (fakeNormalizer) Normalize(data []byte, size int) (processing.Normalized, error) {
	if bytes.HasPrefix(data, []byte("broken")) {
		return processing.Normalized{}, processing.ErrDecode
	}
	return processing.Normalized{
		Data:   append([]byte(fmt.Sprintf("%dx%d:", size, size)), data...),
		Format: "jpeg",
	}, nil
}

type spyViews struct {
	mu    sync.Mutex
	paths map[string]int
}

func (s *spyViews) Invalidate(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paths == nil {
		s.paths = map[string]int{}
	}
	for _, p := range paths {
		s.paths[p]++
	}
}

func (s *spyViews) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paths[path] > 0
}

func (s *spyViews) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = nil
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService(t *testing.T) (*Service, *memStore, *spyViews) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gallery.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err = models.Init(db); err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	blobs := newMemStore()
	views := &spyViews{}
	s := New(db, blobs, fakeNormalizer{}, views, Config{
		NormalizeSize: 1080,
		DefaultTitle:  "Lunar Gallery",
		Credentials:   Credentials{Username: "admin", Password: "admin123"},
	})
	clock := &testClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.now = clock.now
	s.bcryptCost = bcrypt.MinCost
	return s, blobs, views
}

func strPtr(s string) *string {
	return &s
}

func mustCreateAlbum(t *testing.T, s *Service, name string) *models.Album {
	t.Helper()
	album, err := s.CreateAlbum(ctx, admin, CreateAlbumCommand{Name: name})
	if err != nil {
		t.Fatalf("CreateAlbum(%s) error = %v", name, err)
	}
	return album
}

func mustUpload(t *testing.T, s *Service, fileName string, albumID *string) *models.Photo {
	t.Helper()
	photo, err := s.UploadPhoto(ctx, admin, UploadPhotoCommand{
		FileName: fileName,
		Data:     []byte("pixels of " + fileName),
		AlbumID:  albumID,
	})
	if err != nil {
		t.Fatalf("UploadPhoto(%s) error = %v", fileName, err)
	}
	return photo
}

func photoIDs(photos []models.Photo) []string {
	ids := make([]string, len(photos))
	for i, p := range photos {
		ids[i] = p.ID
	}
	return ids
}
