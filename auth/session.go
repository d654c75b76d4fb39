package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	adminKey    = "admin"
	usernameKey = "username"
)

// Session is the cookie session of the current request. It implements
// gallery.Identity.
type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) IsAdmin() bool {
	admin, _ := s.Get(adminKey).(bool)
	return admin
}

func (s *Session) Username() string {
	username, _ := s.Get(usernameKey).(string)
	return username
}

func (s *Session) LoginAdmin(username string) error {
	s.Clear()
	s.Set(adminKey, true)
	s.Set(usernameKey, username)
	return s.Save()
}

func (s *Session) Logout() error {
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}
