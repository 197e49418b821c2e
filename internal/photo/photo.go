// Package photo issues presigned S3 URLs for event photo uploads. The client
// PUTs the file straight to the bucket, then registers the final URL on the
// event.
package photo

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/config"
)

// presignClient is an interface for testability.
type presignClient interface {
	PresignPutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.PresignOptions)) (*v4PresignedRequest, error)
}

// v4PresignedRequest mirrors the fields of s3's PresignedHTTPRequest we use.
type v4PresignedRequest struct {
	URL    string
	Method string
}

type realPresigner struct {
	inner *s3.PresignClient
}

func (p *realPresigner) PresignPutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.PresignOptions)) (*v4PresignedRequest, error) {
	req, err := p.inner.PresignPutObject(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return &v4PresignedRequest{URL: req.URL, Method: req.Method}, nil
}

// Upload is a presigned upload slot: PUT the file to UploadURL, then register
// ObjectURL on the event.
type Upload struct {
	UploadURL string `json:"upload_url"`
	ObjectURL string `json:"object_url"`
	ExpiresIn int    `json:"expires_in_seconds"`
}

// Service issues presigned URLs. Unconfigured S3 yields a disabled service.
type Service struct {
	presigner presignClient
	bucket    string
	endpoint  string
	region    string
	ttl       time.Duration
}

// NewService constructs the S3 client with static credentials and path-style
// addressing so S3-compatible stores (MinIO, R2) work unchanged.
func NewService(cfg config.S3Config, ttl time.Duration) *Service {
	svc := &Service{
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		region:   cfg.Region,
		ttl:      ttl,
	}
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return svc
	}

	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	client := s3.New(opts)
	svc.presigner = &realPresigner{inner: s3.NewPresignClient(client)}
	return svc
}

// Enabled reports whether uploads can be issued.
func (s *Service) Enabled() bool {
	return s.presigner != nil
}

// NewUpload presigns a PUT for a fresh object key under the family's prefix.
func (s *Service) NewUpload(ctx context.Context, familyID, eventID, contentType string) (*Upload, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("photo uploads are not configured")
	}

	ext := extensionFor(contentType)
	key := path.Join("photos", familyID, eventID, uuid.NewString()+ext)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(po *s3.PresignOptions) {
		po.Expires = s.ttl
	})
	if err != nil {
		return nil, fmt.Errorf("presign photo upload: %w", err)
	}

	return &Upload{
		UploadURL: req.URL,
		ObjectURL: s.objectURL(key),
		ExpiresIn: int(s.ttl.Seconds()),
	}, nil
}

// objectURL is the stable URL registered on the event after upload.
func (s *Service) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
