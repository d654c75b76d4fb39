package handlers

import (
	"net/http"

	"lunar/auth"
	"lunar/gallery"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type SiteTitleRequest struct {
	Title string `form:"title"`
}

type PasswordChangeRequest struct {
	Current string `form:"current_password"`
	New     string `form:"new_password"`
	Confirm string `form:"confirm_password"`
}

func (h *Handlers) Login(c *gin.Context, session *auth.Session) {
	r := LoginRequest{}
	if err := c.ShouldBind(&r); err != nil {
		// Same answer as a wrong password
		respondError(c, gallery.ErrInvalidCredentials)
		return
	}
	if err := h.Gallery.Authenticate(c.Request.Context(), r.Username, r.Password); err != nil {
		respondError(c, err)
		return
	}
	if err := session.LoginAdmin(r.Username); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "username": r.Username})
}

func (h *Handlers) Logout(c *gin.Context, session *auth.Session) {
	if err := session.Logout(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) SiteTitle(c *gin.Context, _ *auth.Session) {
	if h.Views.NotModified(c, gallery.ViewSettings) {
		return
	}
	title, err := h.Gallery.SiteTitle(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": title})
}

func (h *Handlers) SiteTitleSave(c *gin.Context, session *auth.Session) {
	r := SiteTitleRequest{}
	if err := c.ShouldBind(&r); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Gallery.UpdateSiteTitle(c.Request.Context(), session, r.Title); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) PasswordChange(c *gin.Context, session *auth.Session) {
	r := PasswordChangeRequest{}
	if err := c.ShouldBind(&r); err != nil {
		bindError(c, err)
		return
	}
	err := h.Gallery.ChangePassword(c.Request.Context(), session, gallery.ChangePasswordCommand{
		Current: r.Current,
		New:     r.New,
		Confirm: r.Confirm,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) Stats(c *gin.Context, session *auth.Session) {
	stats, err := h.Gallery.Stats(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
