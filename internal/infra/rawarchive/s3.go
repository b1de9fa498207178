package rawarchive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

// S3Archive writes raw generator output to an S3-compatible bucket (R2, MinIO, S3).
type S3Archive struct {
	client     *minio.Client
	bucket     string
	logger     *slog.Logger
	bucketOnce sync.Once
	bucketErr  error
}

// NewS3Archive constructs the archive adapter.
func NewS3Archive(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*S3Archive, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("archive bucket cannot be empty")
	}
	client, err := minio.New(hostOnly(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://"),
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init archive client: %w", err)
	}
	return &S3Archive{client: client, bucket: bucket, logger: logger.With("component", "rawarchive.s3")}, nil
}

// Put uploads raw as a text object under key.
func (a *S3Archive) Put(ctx context.Context, key string, raw string) error {
	a.bucketOnce.Do(func() { a.bucketErr = a.ensureBucket(ctx) })
	if a.bucketErr != nil {
		return fmt.Errorf("prepare archive bucket: %w", a.bucketErr)
	}
	info, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType:      "text/plain; charset=utf-8",
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("upload raw output: %w", err)
	}
	a.logger.Debug("raw output archived", "key", key, "size", info.Size)
	return nil
}

func (a *S3Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err == nil && exists {
		return nil
	}
	err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// hostOnly strips the scheme and path; minio.New expects host[:port].
func hostOnly(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var _ itinerary.RawArchive = (*S3Archive)(nil)
