package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const presignViewURLFor = 15 * time.Minute

type S3Storage struct {
	Storage
	Bucket   Bucket
	s3Client *s3.S3
}

func NewS3Storage(bucket Bucket, urlPrefix string) (*S3Storage, error) {
	client, err := bucket.CreateSVC()
	if err != nil {
		return nil, err
	}
	return &S3Storage{
		Storage:  Storage{URLPrefix: urlPrefix},
		Bucket:   bucket,
		s3Client: client,
	}, nil
}

func (s *S3Storage) Save(name string, reader io.Reader) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	input := s3manager.UploadInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(name)),
		Body:   reader,
	}
	if mimeType := mime.TypeByExtension(filepath.Ext(name)); mimeType != "" {
		input.ContentType = &mimeType
	}
	if _, err := uploader.Upload(&input); err != nil {
		return "", err
	}
	return s.URL(name), nil
}

func (s *S3Storage) Load(name string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(name)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

// Serve redirects to a short lived pre-signed URL
func (s *S3Storage) Serve(name string, request *http.Request, writer http.ResponseWriter) {
	if !ValidName(name) {
		http.NotFound(writer, request)
		return
	}
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(name)),
	})
	url, err := req.Presign(presignViewURLFor)
	if err != nil {
		log.Printf("S3 presign error for %s: %v", name, err)
		http.Error(writer, "storage error", http.StatusInternalServerError)
		return
	}
	writer.Header().Set("cache-control", "private, max-age=600")
	http.Redirect(writer, request, url, http.StatusFound)
}

func (s *S3Storage) Delete(name string) (DeleteStatus, error) {
	if !ValidName(name) {
		return DeleteFailed, fmt.Errorf("invalid file name %q", name)
	}
	key := aws.String(s.Bucket.GetRemotePath(name))
	// DeleteObject succeeds for missing keys, so ask first
	_, err := s.s3Client.HeadObject(&s3.HeadObjectInput{Bucket: &s.Bucket.Name, Key: key})
	if isS3NotFound(err) {
		return DeleteAbsent, nil
	}
	if err != nil {
		return DeleteFailed, err
	}
	if _, err = s.s3Client.DeleteObject(&s3.DeleteObjectInput{Bucket: &s.Bucket.Name, Key: key}); err != nil {
		return DeleteFailed, err
	}
	return DeleteDone, nil
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	return aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey
}
