package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Generated images live under a dedicated logical folder in the bucket.
const imageFolder = "ai-generated"

const requestTimeout = 30 * time.Second

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Store uploads generated images to S3-compatible storage.
type S3Store struct {
	cfg    S3Config
	client s3Client
}

func NewS3Store(cfg S3Config) *S3Store {
	return &S3Store{
		cfg:    cfg,
		client: newS3Client(cfg),
	}
}

// NewS3StoreWithClient injects a client, used by tests.
func NewS3StoreWithClient(cfg S3Config, client s3Client) *S3Store {
	return &S3Store{cfg: cfg, client: client}
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func (s *S3Store) Upload(ctx context.Context, data []byte) (*UploadResult, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	key := fmt.Sprintf("%s/%s.%s", imageFolder, uuid.New().String(), format)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + format),
	})
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	return &UploadResult{
		URL:    s.publicURL(key),
		Key:    key,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *S3Store) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), key)
	}
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

var _ BlobStore = (*S3Store)(nil)
