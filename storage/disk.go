package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"lunar/utils"
)

type DiskStorage struct {
	Storage
	// BasePath is the uploads directory, writable by the current process
	BasePath  string
	dirReady  bool
	dirsMutex sync.Mutex
}

func NewDiskStorage(basePath, urlPrefix string) *DiskStorage {
	return &DiskStorage{
		Storage:  Storage{URLPrefix: urlPrefix},
		BasePath: basePath,
	}
}

func (s *DiskStorage) createDir() error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if s.dirReady {
		return nil
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return err
	}
	s.dirReady = true
	return nil
}

func (s *DiskStorage) GetFullPath(name string) string {
	return filepath.Join(s.BasePath, name)
}

func (s *DiskStorage) Save(name string, reader io.Reader) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := s.createDir(); err != nil {
		return "", err
	}
	// Write next to the target and rename, so readers never see half a file
	tmp, err := os.CreateTemp(s.BasePath, ".upload-*")
	if err != nil {
		return "", err
	}
	_, err = io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), s.GetFullPath(name))
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return s.URL(name), nil
}

func (s *DiskStorage) Load(name string, writer io.Writer) (int64, error) {
	if !ValidName(name) {
		return 0, fmt.Errorf("invalid file name %q", name)
	}
	file, err := os.Open(s.GetFullPath(name))
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(writer, file)
	file.Close()
	return result, err
}

func (s *DiskStorage) Serve(name string, request *http.Request, writer http.ResponseWriter) {
	if !ValidName(name) {
		http.NotFound(writer, request)
		return
	}
	// Handles Byte-ranges too
	http.ServeFile(writer, request, s.GetFullPath(name))
}

func (s *DiskStorage) Delete(name string) (DeleteStatus, error) {
	if !ValidName(name) {
		return DeleteFailed, fmt.Errorf("invalid file name %q", name)
	}
	err := os.Remove(s.GetFullPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return DeleteAbsent, nil
	}
	if err != nil {
		return DeleteFailed, err
	}
	return DeleteDone, nil
}

func (s *DiskStorage) Space() (free, total uint64, err error) {
	if err = s.createDir(); err != nil {
		return 0, 0, err
	}
	return utils.DiskSpace(s.BasePath)
}
