package storage

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Bucket describes a S3 (or S3 compatible) bucket used as a blob store
type Bucket struct {
	Name     string
	Region   string
	Endpoint string // empty for AWS, set for MinIO and friends
	Prefix   string // "directory" inside the bucket
	Key      string
	Secret   string
}

func (b *Bucket) GetRemotePath(name string) string {
	if b.Prefix == "" {
		return name
	}
	return b.Prefix + "/" + name
}

func (b *Bucket) CreateSVC() (*s3.S3, error) {
	cfg := aws.NewConfig().WithRegion(b.Region)
	if b.Key != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(b.Key, b.Secret, ""))
	}
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}
