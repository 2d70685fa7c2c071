// Package photos stores game photos in Amazon S3.
package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Store is where uploaded images go. Put returns the public URL of the object.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// allowed image extensions and their content types
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
}

// ContentType returns the content type for an image file name, and false if the
// extension isn't an accepted image type.
func ContentType(filename string) (string, bool) {
	ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]
	return ct, ok
}

// ObjectKey names an uploaded photo: "<gameID>_<unix millis><ext>".
func ObjectKey(gameID string, filename string, now time.Time) string {
	return fmt.Sprintf("%s_%d%s", gameID, now.UnixMilli(), strings.ToLower(path.Ext(filename)))
}

// S3 stores photos in one bucket.
type S3 struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3 loads the default AWS configuration (environment variables, shared config
// and credentials files) and checks that the bucket is reachable. baseURL is the
// public prefix photos are served from; when empty the bucket's virtual-hosted S3
// URL is used.
func NewS3(ctx context.Context, bucket, baseURL string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("photos: load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return nil, fmt.Errorf("photos: head bucket %s: %w", bucket, err)
	}

	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
	}
	return &S3{client: client, bucket: bucket, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put uploads body under key.
func (s *S3) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("photos: put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes key. A key that is already gone is not an error.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	var apiErr smithy.APIError
	if err != nil && !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey") {
		return fmt.Errorf("photos: delete %s: %w", key, err)
	}
	return nil
}
