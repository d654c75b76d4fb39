// Command backfill normalizes photos uploaded before every image went
// through the normalizer, and records their dimensions.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"lunar/config"
	"lunar/db"
	"lunar/gallery"
	"lunar/models"
	"lunar/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db.Init(config.MYSQL_DSN, config.SQLITE_FILE)
	if err := models.Init(db.Instance); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	blobs, err := storage.Init()
	if err != nil {
		log.Fatalf("Storage init failed: %v", err)
	}
	// A running server keeps its ETags until it restarts
	service := gallery.NewFromConfig(db.Instance, blobs, nil)
	report, err := service.Backfill(ctx)
	log.Printf("Backfill: %d resized, %d skipped, %d failed", report.Resized, report.Skipped, report.Failed)
	if err != nil {
		log.Fatalf("Backfill stopped: %v", err)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}
