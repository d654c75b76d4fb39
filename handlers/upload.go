package handlers

import (
	"errors"
	"io"
	"net/http"

	"lunar/auth"

	"github.com/gin-gonic/gin"
)

var errTooLarge = errors.New("file too large")

// limitBody caps the request body, multipart parsing fails once it is exceeded
func (h *Handlers) limitBody(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
}

// readFormFile returns the uploaded file of the given field, or no data at
// all when the field is missing
func readFormFile(c *gin.Context, field string) (string, []byte, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, uploadError(err)
	}
	file, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, uploadError(err)
	}
	return header.Filename, data, nil
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errTooLarge
	}
	return err
}

// respondUploadError handles errors of reading the request itself
func respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, errTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, TooLargeResponse)
		return
	}
	bindError(c, err)
}

func (h *Handlers) UploadFetch(c *gin.Context, _ *auth.Session) {
	// Backfill may rewrite a file in place, so this is not immutable
	c.Header("cache-control", "public, max-age=86400")
	h.Blobs.Serve(c.Param("name"), c.Request, c.Writer)
}
