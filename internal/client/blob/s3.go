package blob

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/logging"
	"github.com/dmitrijs2005/userdir/internal/netx"
)

const presignPutTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}

	uploadToPresignedURL = netx.UploadToPresignedURL
)

// S3Config locates the bucket. Endpoint is set for MinIO and other
// S3-compatible services and switches to path-style addressing.
// PublicBaseURL, when set, prefixes keys in PublicURL.
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type S3Storage struct {
	cfg    S3Config
	http   *http.Client
	logger logging.Logger

	mu      sync.Mutex
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3Storage returns a storage for cfg. The AWS client is built on first
// use. timeout bounds each upload; zero means no limit.
func NewS3Storage(cfg S3Config, timeout time.Duration, l logging.Logger) *S3Storage {
	return &S3Storage{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: l.With("module", "blob"),
	}
}

func (s *S3Storage) clients(ctx context.Context) (*s3.Client, *s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, s.presign, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(s.cfg.Region)}
	if s.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKey, s.cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: aws config: %v", common.ErrUnavailable, err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	s.client = client
	s.presign = newS3PresignClient(client)
	return s.client, s.presign, nil
}

// Upload presigns a PUT for key and sends f's bytes to it.
func (s *S3Storage) Upload(ctx context.Context, key string, f *models.Attachment) (string, error) {
	if f == nil {
		return "", fmt.Errorf("upload %s: no file", key)
	}
	_, pc, err := s.clients(ctx)
	if err != nil {
		return "", err
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignPutTTL))
	if err != nil {
		return "", fmt.Errorf("%w: presign put %s: %v", common.ErrUnavailable, key, err)
	}

	if err := uploadToPresignedURL(ctx, s.http, req.URL, contentType, f.Data); err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", common.ErrUnavailable, key, err)
	}

	s.logger.Info(ctx, "uploaded blob", "key", key, "size", f.Size())
	return key, nil
}

func (s *S3Storage) PublicURL(key string) string {
	escaped := escapeKey(key)
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + escaped
	case s.cfg.Endpoint != "":
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + escaped
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, escaped)
	}
}

func (s *S3Storage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	_, pc, err := s.clients(ctx)
	if err != nil {
		return "", err
	}
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("%w: presign get %s: %v", common.ErrUnavailable, key, err)
	}
	return req.URL, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	c, _, err := s.clients(ctx)
	if err != nil {
		return err
	}
	if _, err := deleteObject(c, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("%w: delete %s: %v", common.ErrUnavailable, key, err)
	}
	return nil
}

// KeyFromURL recovers the key from a URL produced by PublicURL. ok is
// false for URLs that point elsewhere.
func (s *S3Storage) KeyFromURL(u string) (string, bool) {
	prefix := s.PublicURL("")
	if !strings.HasPrefix(u, prefix) || len(u) == len(prefix) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimPrefix(u, prefix))
	if err != nil {
		return "", false
	}
	return key, true
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
