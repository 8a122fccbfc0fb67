package photos

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hongminglow/confession-be/internal/logging"
)

const s3KeyPrefix = "photos/"

// S3Config configures S3Store.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads photos to an S3-compatible bucket.
type S3Store struct {
	client    objectPutter
	bucket    string
	publicURL string
	log       logging.Logger
}

var _ Store = (*S3Store)(nil)

// NewS3Store builds a client from the default AWS chain, overridden by static
// credentials and a custom endpoint (MinIO and friends) when configured.
func NewS3Store(ctx context.Context, cfg S3Config, log logging.Logger) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg, log), nil
}

func newS3Store(client objectPutter, cfg S3Config, log logging.Logger) *S3Store {
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		log:       log.With("component", "photos.s3", "bucket", cfg.Bucket),
	}
}

// Save uploads the photo and returns its public URL.
func (s *S3Store) Save(ctx context.Context, upload Upload) (string, error) {
	key := s3KeyPrefix + ObjectName(upload)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(upload.Data),
		ContentType:   aws.String(upload.ContentType),
		ContentLength: aws.Int64(int64(len(upload.Data))),
	})
	if err != nil {
		s.log.Error(ctx, "photo upload failed", "user_id", upload.UserID, "key", key, "error", err)
		return "", fmt.Errorf("put object: %w", err)
	}
	s.log.Debug(ctx, "photo uploaded", "user_id", upload.UserID, "key", key)
	return s.publicURL + "/" + key, nil
}
