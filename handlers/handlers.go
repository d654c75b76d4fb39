package handlers

import (
	"errors"
	"log"
	"net/http"

	"lunar/gallery"
	"lunar/storage"
	"lunar/utils"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

var (
	OKResponse       = Response{}
	NopeResponse     = Response{"access denied"}
	TooLargeResponse = Response{"file too large"}
	InternalResponse = Response{"internal error"}
)

// Handlers is the HTTP side of the gallery. It only translates requests into
// gallery calls and gallery errors into status codes.
type Handlers struct {
	Gallery        *gallery.Service
	Blobs          storage.BlobStore
	Views          *utils.ViewCache
	MaxUploadBytes int64
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gallery.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, NopeResponse)
	case errors.Is(err, gallery.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, Response{err.Error()})
	case gallery.IsValidation(err):
		c.JSON(http.StatusBadRequest, Response{err.Error()})
	case errors.Is(err, gallery.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{err.Error()})
	case errors.Is(err, gallery.ErrProcessing):
		c.JSON(http.StatusUnprocessableEntity, Response{gallery.ErrProcessing.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, InternalResponse)
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{err.Error()})
}
