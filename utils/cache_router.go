package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
)

// CacheRouter sets cache-control for every response passing through it.
// Handlers using ViewCache.NotModified override the header afterwards.
type CacheRouter struct {
	CacheTime int // seconds, defaults to CacheNoCache = 0
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch cr.CacheTime {
		case CacheCustom:
		case CacheNoCache:
			c.Header("cache-control", "no-cache")
		default:
			c.Header("cache-control", "public, max-age="+strconv.Itoa(cr.CacheTime))
		}
		c.Next()
	}
}
