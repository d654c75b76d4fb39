package handlers

import (
	"net/http"

	"lunar/auth"
	"lunar/gallery"
	"lunar/models"

	"github.com/gin-gonic/gin"
)

type PhotoFilterRequest struct {
	AlbumID       string `form:"album_id"`
	Uncategorized bool   `form:"uncategorized"`
}

func (r *PhotoFilterRequest) filter() (gallery.PhotoFilter, []string) {
	if r.AlbumID != "" {
		return gallery.ByAlbum(r.AlbumID), []string{gallery.ViewPhotos, gallery.AlbumView(r.AlbumID)}
	}
	if r.Uncategorized {
		return gallery.UncategorizedOnly(), []string{gallery.ViewPhotos}
	}
	return gallery.PhotoFilter{}, []string{gallery.ViewPhotos}
}

type PhotoListRequest struct {
	PhotoFilterRequest
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

type PhotoListAfterRequest struct {
	PhotoFilterRequest
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"`
}

type PhotoPageResponse struct {
	Photos []models.Photo `json:"photos"`
	Next   string         `json:"next"` // empty on the last page
}

type PhotoUploadRequest struct {
	AlbumID     *string `form:"album_id"`
	Title       *string `form:"title"`
	Description *string `form:"description"`
}

type PhotoIDRequest struct {
	ID string `form:"id" binding:"required"`
}

type PhotoUpdateRequest struct {
	ID          string  `form:"id" binding:"required"`
	Title       *string `form:"title"`
	Description *string `form:"description"`
}

type PhotoMoveRequest struct {
	ID      string `form:"id" binding:"required"`
	AlbumID string `form:"album_id"` // empty makes the photo uncategorized
}

func (h *Handlers) PhotoList(c *gin.Context, _ *auth.Session) {
	r := PhotoListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		bindError(c, err)
		return
	}
	filter, views := r.filter()
	if h.Views.NotModified(c, views...) {
		return
	}
	photos, err := h.Gallery.ListPhotos(c.Request.Context(), filter, r.Page, r.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (h *Handlers) PhotoListAfter(c *gin.Context, _ *auth.Session) {
	r := PhotoListAfterRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		bindError(c, err)
		return
	}
	var after *gallery.Cursor
	if r.Cursor != "" {
		cursor, err := gallery.ParseCursor(r.Cursor)
		if err != nil {
			respondError(c, err)
			return
		}
		after = &cursor
	}
	filter, views := r.filter()
	if h.Views.NotModified(c, views...) {
		return
	}
	photos, next, err := h.Gallery.ListPhotosAfter(c.Request.Context(), filter, after, r.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	response := PhotoPageResponse{Photos: photos}
	if next != nil {
		response.Next = next.String()
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handlers) PhotoUpload(c *gin.Context, session *auth.Session) {
	h.limitBody(c)
	fileName, data, err := readFormFile(c, "file")
	if err != nil {
		respondUploadError(c, err)
		return
	}
	r := PhotoUploadRequest{}
	if err = c.ShouldBind(&r); err != nil {
		bindError(c, err)
		return
	}
	photo, err := h.Gallery.UploadPhoto(c.Request.Context(), session, gallery.UploadPhotoCommand{
		FileName:    fileName,
		Data:        data,
		AlbumID:     r.AlbumID,
		Title:       r.Title,
		Description: r.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

func (h *Handlers) PhotoDelete(c *gin.Context, session *auth.Session) {
	r := PhotoIDRequest{}
	if err := c.ShouldBind(&r); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Gallery.DeletePhoto(c.Request.Context(), session, r.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) PhotoUpdate(c *gin.Context, session *auth.Session) {
	r := PhotoUpdateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		bindError(c, err)
		return
	}
	photo, err := h.Gallery.UpdatePhoto(c.Request.Context(), session, r.ID, gallery.UpdatePhotoCommand{
		Title:       r.Title,
		Description: r.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

func (h *Handlers) PhotoMove(c *gin.Context, session *auth.Session) {
	r := PhotoMoveRequest{}
	if err := c.ShouldBind(&r); err != nil {
		bindError(c, err)
		return
	}
	photo, err := h.Gallery.MovePhoto(c.Request.Context(), session, r.ID, &r.AlbumID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}
