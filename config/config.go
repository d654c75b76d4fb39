package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS       = "" // e.g. "example.com,example2.com"
	MYSQL_DSN         = "" // MySQL will be used if this is set
	SQLITE_FILE       = "gallery.db"
	BIND_ADDRESS      = "0.0.0.0:8080"
	UPLOAD_DIR        = "public/uploads"
	UPLOAD_URL_PREFIX = "/uploads/"
	// S3 blob storage is used instead of UPLOAD_DIR when S3_BUCKET is set
	S3_BUCKET   = ""
	S3_REGION   = "us-east-1"
	S3_ENDPOINT = "" // for S3 compatible services (MinIO, etc)
	S3_PREFIX   = "uploads"
	S3_KEY      = ""
	S3_SECRET   = ""
	// Admin credentials used until the first password change is stored in the DB
	ADMIN_USERNAME = "admin"
	ADMIN_PASSWORD = ""
	SESSION_KEY    = "change me, this is not a secret"
	SITE_TITLE     = "Lunar Gallery"
	NORMALIZE_SIZE = 1080
	MAX_UPLOAD_MB  = 32
	DEBUG_MODE     = false
	// Uploads decoding to more pixels than this are rejected
	MAX_IMAGE_PIXELS = 268402689
)

func init() {
	// .env is optional, production usually sets real environment variables
	_ = godotenv.Load()
	Load()
}

// Load (re)reads all settings from the environment
func Load() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("UPLOAD_DIR", &UPLOAD_DIR)
	readEnvString("UPLOAD_URL_PREFIX", &UPLOAD_URL_PREFIX)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_PREFIX", &S3_PREFIX)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvString("ADMIN_USERNAME", &ADMIN_USERNAME)
	readEnvString("ADMIN_PASSWORD", &ADMIN_PASSWORD)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvString("SITE_TITLE", &SITE_TITLE)
	readEnvInt("NORMALIZE_SIZE", &NORMALIZE_SIZE)
	readEnvInt("MAX_IMAGE_PIXELS", &MAX_IMAGE_PIXELS)
	readEnvInt("MAX_UPLOAD_MB", &MAX_UPLOAD_MB)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	if !strings.HasSuffix(UPLOAD_URL_PREFIX, "/") {
		UPLOAD_URL_PREFIX += "/"
	}
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = i
}
