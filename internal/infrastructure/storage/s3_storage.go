// Package storage keeps product images in S3 compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	catalogapp "github.com/mbvogue/storefront/internal/application/catalog"
	"github.com/mbvogue/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

var ErrStorageKeyRequired = errors.New("storage key is required")

// S3ObjectStorage serves product images from a bucket on AWS S3, MinIO or R2.
// Browsers upload straight to the bucket through presigned PUTs; the API only
// ever checks, links and deletes objects.
type S3ObjectStorage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	// publicBase is the prefix of PublicURL, bucket included
	publicBase    string
	defaultExpiry time.Duration
	logger        *zap.Logger
}

type S3Option func(*S3ObjectStorage)

func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3ObjectStorage) { s.logger = logger }
}

// NewS3ObjectStorage builds the client. Static keys are used when configured,
// otherwise the default AWS credential chain (env, shared profile, IAM role).
func NewS3ObjectStorage(ctx context.Context, cfg *config.StorageConfig, opts ...S3Option) (*S3ObjectStorage, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s := &S3ObjectStorage{
		client:        client,
		presign:       s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBase:    publicBase(cfg, endpoint),
		defaultExpiry: cfg.PresignExpiry,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultExpiry <= 0 {
		s.defaultExpiry = 15 * time.Minute
	}
	return s, nil
}

func normalizeEndpoint(raw string) (string, error) {
	endpoint := strings.TrimRight(raw, "/")
	if endpoint == "" {
		return "", nil
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint %q", raw)
	}
	return endpoint, nil
}

// publicBase picks, in order: the CDN base, a path-style URL on the custom
// endpoint, or the virtual-hosted AWS URL.
func publicBase(cfg *config.StorageConfig, endpoint string) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
	}
	if cfg.UsePathStyle {
		return endpoint + "/" + cfg.Bucket
	}
	u, _ := url.Parse(endpoint)
	u.Host = cfg.Bucket + "." + u.Host
	return u.String()
}

// EnsureBucket creates the bucket when it is missing, for local MinIO setups
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}

	s.logger.Info("Creating image bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// GenerateUploadURL presigns a PUT of contentType to storageKey. A zero
// expiresIn uses the configured presign expiry.
func (s *S3ObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrStorageKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = s.defaultExpiry
	}
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(storageKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, time.Now().Add(expiresIn), nil
}

// PublicURL is where browsers load an image; objects are public-read
func (s *S3ObjectStorage) PublicURL(storageKey string) string {
	if storageKey == "" {
		return ""
	}
	return s.publicBase + "/" + storageKey
}

// ObjectExists lets image registration confirm that the upload landed
func (s *S3ObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrStorageKeyRequired
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("head object %s: %w", storageKey, err)
	}
}

// DeleteObject removes an image. S3 treats a missing key as success.
func (s *S3ObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrStorageKeyRequired
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", storageKey, err)
	}
	return nil
}

func (s *S3ObjectStorage) Bucket() string { return s.bucket }

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noBucket *types.NoSuchBucket
	var noKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noBucket) || errors.As(err, &noKey)
}

var _ catalogapp.ObjectStorage = (*S3ObjectStorage)(nil)
