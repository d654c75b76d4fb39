package storage

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type DeleteStatus uint8

const (
	DeleteDone DeleteStatus = iota
	DeleteAbsent
	DeleteFailed
)

func (s DeleteStatus) String() string {
	switch s {
	case DeleteDone:
		return "deleted"
	case DeleteAbsent:
		return "already absent"
	}
	return "failed"
}

// BlobStore keeps normalized image files in a flat namespace of file names.
// Files are exposed to the rest of the system as <prefix><name> URLs.
type BlobStore interface {
	// Save stores (or overwrites) the named file and returns its public URL
	Save(name string, reader io.Reader) (url string, err error)
	Load(name string, writer io.Writer) (int64, error)
	// Delete never fails on a missing file, it reports DeleteAbsent instead
	Delete(name string) (DeleteStatus, error)
	Serve(name string, request *http.Request, writer http.ResponseWriter)
	URL(name string) string
	NameFromURL(url string) (name string, ok bool)
}

// Storage holds what all blob stores share: the URL layout
type Storage struct {
	URLPrefix string // e.g. "/uploads/"
}

func (s *Storage) URL(name string) string {
	return s.URLPrefix + name
}

// NameFromURL returns the file name of a URL produced by this store.
// URLs pointing anywhere else (e.g. remote seed images) are not ours.
func (s *Storage) NameFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, s.URLPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, s.URLPrefix)
	return name, ValidName(name)
}

// ValidName rejects anything that could escape the flat uploads directory
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, "..")
}

// SanitizeName keeps [a-zA-Z0-9._-] from the base of the original file name,
// whitespace becomes '-' and everything else '_'
func SanitizeName(original string) string {
	original = strings.ReplaceAll(original, `\`, "/")
	original = filepath.Base(original)
	var name strings.Builder
	for i, c := range original {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			(c == '.' && i > 0) || (c == '-') || (c == '_') {

			name.WriteRune(c)
		} else if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			name.WriteString("-")
		} else {
			name.WriteString("_")
		}
	}
	if result := strings.Trim(name.String(), "."); result != "" && result != "_" {
		return result
	}
	return "image"
}

// FileName builds "<millisecond-timestamp>-<sanitized-name>". When ext is given
// (e.g. ".jpg") it replaces the original extension.
func FileName(now time.Time, original, ext string) string {
	name := SanitizeName(original)
	if ext != "" && !strings.EqualFold(filepath.Ext(name), ext) {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + name
}
