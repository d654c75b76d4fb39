package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Requirement uint8

const (
	RequireAdmin Requirement = iota + 1
)

// HandlerFunc receives the loaded session, anonymous unless a requirement asked otherwise
type HandlerFunc func(c *gin.Context, session *Session)

// Router is a wrapper that loads the session and checks requirements before
// calling the handler. Handlers pass the session down so the gallery can
// check it again.
type Router struct {
	Base gin.IRoutes
}

func (r *Router) baseExec(c *gin.Context, handler HandlerFunc, required []Requirement) {
	session := LoadSession(c)
	for _, req := range required {
		if req == RequireAdmin && !session.IsAdmin() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
			return
		}
	}
	handler(c, session)
}

func (r *Router) POST(path string, handler HandlerFunc, required ...Requirement) {
	r.Base.POST(path, func(c *gin.Context) {
		r.baseExec(c, handler, required)
	})
}

func (r *Router) GET(path string, handler HandlerFunc, required ...Requirement) {
	r.Base.GET(path, func(c *gin.Context) {
		r.baseExec(c, handler, required)
	})
}
