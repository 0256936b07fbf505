// Package media stores snag photos in S3-compatible object storage and
// hands back durable public URLs; the core treats the URL as opaque.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Store struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewStore connects to the object storage endpoint. publicBaseURL is the
// externally reachable prefix for uploaded objects; when empty the
// endpoint itself is used.
func NewStore(endpoint, accessKey, secretKey, bucket, publicBaseURL string, useSSL bool) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}

	if publicBaseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBaseURL = scheme + "://" + endpoint
	}

	return &Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// EnsureBucket creates the photo bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// UploadPhoto stores one photo keyed by owner and timestamp and returns
// its public URL.
func (s *Store) UploadPhoto(ctx context.Context, userID string, r io.Reader, size int64, contentType, filename string) (string, error) {
	key := objectKey(userID, time.Now(), filename)
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return s.publicBaseURL + "/" + s.bucket + "/" + key, nil
}

// objectKey builds "userID/<unix-nano><ext>". The extension comes from the
// uploaded filename; anything unusable falls back to .jpg.
func objectKey(userID string, ts time.Time, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic":
	default:
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%d%s", userID, ts.UnixNano(), ext)
}
