// Package storage uploads files to S3 and hands the public URL back to the
// metadata store.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Client is what the storage handler depends on; *S3 implements it.
type Client interface {
	Upload(ctx context.Context, fileName, contentType string, body io.Reader) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}

// S3 stores objects in one bucket under random keys.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 builds an S3 store from the ambient AWS configuration.
func NewS3(ctx context.Context, bucket, region, prefix string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &S3{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

// Upload stores the body under a fresh uuid key, keeping the original
// extension so browsers can guess the type from the URL.
func (s *S3) Upload(ctx context.Context, fileName, contentType string, body io.Reader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	key := uuid.NewString() + ext
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", "", fmt.Errorf("put object: %w", err)
	}
	region := s.client.Options().Region
	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, region, key)
	return key, url, nil
}

// Delete removes the object; missing keys are not an error.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
