package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

// S3Config configures the object-storage attachment store. Any S3-compatible
// endpoint works when Endpoint is set.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Prefix        string
	PublicBaseURL string
	UsePathStyle  bool
	// SignedURLTTL > 0 keeps objects private and returns presigned GET URLs.
	SignedURLTTL time.Duration
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads attachments to a bucket.
type S3Store struct {
	client    objectPutter
	presign   func(ctx context.Context, key string, ttl time.Duration) (string, error)
	bucket    string
	prefix    string
	publicURL string
	ttl       time.Duration
	now       func() time.Time
}

var _ ports.AttachmentStore = (*S3Store)(nil)

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	presigner := s3.NewPresignClient(client)

	publicURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicURL == "" {
		publicURL = defaultPublicURL(cfg, region)
	}

	return &S3Store{
		client: client,
		presign: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
			req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(cfg.Bucket),
				Key:    aws.String(key),
			}, s3.WithPresignExpires(ttl))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucket:    cfg.Bucket,
		prefix:    normalizePrefix(cfg.Prefix),
		publicURL: publicURL,
		ttl:       cfg.SignedURLTTL,
		now:       time.Now,
	}, nil
}

func (s *S3Store) Backend() string { return "s3" }

// Store uploads the object as <prefix><unix millis>_<stem><ext>, with the stem
// sanitised like local filenames and the extension taken from the detected
// content type. Without a signed URL TTL the object is made public-read.
func (s *S3Store) Store(ctx context.Context, up domain.Upload) (string, error) {
	key := s.prefix + fmt.Sprintf("%d_%s%s", s.now().UnixMilli(), safeStem(up.Filename), storedExt(up.ContentType))

	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        up.Body,
		ContentType: aws.String(up.ContentType),
	}
	if up.Size > 0 {
		in.ContentLength = aws.Int64(up.Size)
	}
	if s.ttl <= 0 {
		in.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}

	if s.ttl > 0 {
		u, err := s.presign(ctx, key, s.ttl)
		if err != nil {
			return "", fmt.Errorf("presign attachment: %w", err)
		}
		return u, nil
	}
	return s.publicURL + "/" + key, nil
}

// Delete is not supported for object storage; the object is left in place.
func (s *S3Store) Delete(_ context.Context, _ string) error {
	return domain.ErrAttachmentDeleteUnsupported
}

func defaultPublicURL(cfg S3Config, region string) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

func normalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}
