// Package s3 stores resumes in an S3-compatible bucket (AWS S3, Cloudflare R2, MinIO).
package s3

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// API is the subset of the S3 client used here.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for R2 or MinIO
	AccessKey string // optional; the default credential chain is used when empty
	SecretKey string
	Prefix    string
}

type Storage struct {
	client API
	bucket string
	prefix string
}

// New loads AWS configuration and builds a client for cfg.Bucket.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewWithClient(client API, bucket, prefix string) *Storage {
	return &Storage{client: client, bucket: bucket, prefix: prefix}
}

func (s *Storage) Save(ctx context.Context, name string, r io.Reader, size int64) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
		Body:   r,
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *Storage) key(name string) string {
	return path.Join(s.prefix, path.Base(name))
}
