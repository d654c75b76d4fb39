package handlers

import (
	"net/http"

	"lunar/auth"
	"lunar/gallery"
	"lunar/models"

	"github.com/gin-gonic/gin"
)

type AlbumCreateRequest struct {
	Name        string  `form:"name" binding:"required"`
	Description *string `form:"description"`
}

type AlbumResponse struct {
	Album  *gallery.AlbumSummary `json:"album"`
	Photos []models.Photo        `json:"photos"`
}

func (h *Handlers) AlbumList(c *gin.Context, _ *auth.Session) {
	if h.Views.NotModified(c, gallery.ViewAlbums) {
		return
	}
	albums, err := h.Gallery.ListAlbums(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, albums)
}

func (h *Handlers) AlbumGet(c *gin.Context, _ *auth.Session) {
	id := c.Param("id")
	if h.Views.NotModified(c, gallery.ViewAlbums, gallery.AlbumView(id)) {
		return
	}
	album, err := h.Gallery.GetAlbum(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	photos, err := h.Gallery.ListAllPhotos(c.Request.Context(), gallery.ByAlbum(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AlbumResponse{Album: album, Photos: photos})
}

func (h *Handlers) AlbumCreate(c *gin.Context, session *auth.Session) {
	h.limitBody(c)
	r := AlbumCreateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		respondUploadError(c, uploadError(err))
		return
	}
	coverName, cover, err := readFormFile(c, "cover_image")
	if err != nil {
		respondUploadError(c, err)
		return
	}
	album, err := h.Gallery.CreateAlbum(c.Request.Context(), session, gallery.CreateAlbumCommand{
		Name:          r.Name,
		Description:   r.Description,
		CoverFileName: coverName,
		Cover:         cover,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}
