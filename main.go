package main

import (
	"log"
	"strings"
	"time"

	"lunar/auth"
	"lunar/config"
	"lunar/db"
	"lunar/gallery"
	"lunar/handlers"
	"lunar/models"
	"lunar/storage"
	"lunar/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 30 * 86400 // 30 days
)

func main() {
	db.Init(config.MYSQL_DSN, config.SQLITE_FILE)
	if err := models.Init(db.Instance); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	blobs, err := storage.Init()
	if err != nil {
		log.Fatalf("Storage init failed: %v", err)
	}
	if config.ADMIN_PASSWORD == "" {
		log.Println("ADMIN_PASSWORD is not set, admin login only works with a stored password")
	}
	views := utils.NewViewCache()
	h := &handlers.Handlers{
		Gallery:        gallery.NewFromConfig(db.Instance, blobs, views),
		Blobs:          blobs,
		Views:          views,
		MaxUploadBytes: int64(config.MAX_UPLOAD_MB) << 20,
	}

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "If-None-Match"},
		ExposeHeaders:    []string{"Content-Length", "ETag"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		// Images are already compressed
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{config.UPLOAD_URL_PREFIX})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that
	h.Routes(&auth.Router{Base: router})

	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
