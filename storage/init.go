package storage

import (
	"log"

	"lunar/config"
)

// Init picks the S3 bucket when one is configured, the upload directory otherwise
func Init() (BlobStore, error) {
	if config.S3_BUCKET == "" {
		log.Printf("Storing uploads in %s", config.UPLOAD_DIR)
		return NewDiskStorage(config.UPLOAD_DIR, config.UPLOAD_URL_PREFIX), nil
	}
	bucket := Bucket{
		Name:     config.S3_BUCKET,
		Region:   config.S3_REGION,
		Endpoint: config.S3_ENDPOINT,
		Prefix:   config.S3_PREFIX,
		Key:      config.S3_KEY,
		Secret:   config.S3_SECRET,
	}
	s3Storage, err := NewS3Storage(bucket, config.UPLOAD_URL_PREFIX)
	if err != nil {
		return nil, err
	}
	log.Printf("Storing uploads in S3 bucket %s", bucket.Name)
	return s3Storage, nil
}
