package handlers

import "lunar/auth"

func (h *Handlers) Routes(r *auth.Router) {
	// Session
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	// Albums
	r.GET("/albums", h.AlbumList)
	r.GET("/albums/:id", h.AlbumGet)
	r.POST("/albums/create", h.AlbumCreate, auth.RequireAdmin)
	// Photos
	r.GET("/photos", h.PhotoList)
	r.GET("/photos/after", h.PhotoListAfter)
	r.POST("/photos/upload", h.PhotoUpload, auth.RequireAdmin)
	r.POST("/photos/delete", h.PhotoDelete, auth.RequireAdmin)
	r.POST("/photos/update", h.PhotoUpdate, auth.RequireAdmin)
	r.POST("/photos/move", h.PhotoMove, auth.RequireAdmin)
	// Settings
	r.GET("/settings/title", h.SiteTitle)
	r.GET("/settings/stats", h.Stats, auth.RequireAdmin)
	r.POST("/settings/title", h.SiteTitleSave, auth.RequireAdmin)
	r.POST("/settings/password", h.PasswordChange, auth.RequireAdmin)
	// Stored files
	r.GET("/uploads/:name", h.UploadFetch)
}
