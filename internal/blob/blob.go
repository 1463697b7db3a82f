package blob

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/chrisvdg/trivia-backend/internal/logger"
)

// Media file types accepted for upload.
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"mp4":  true,
	"mp3":  true,
}

// ErrUnsupportedType is returned for uploads outside the allowlist.
var ErrUnsupportedType = fmt.Errorf("unsupported media file type")

// MediaStore stores question media in an S3-compatible bucket. The URLs it
// returns are opaque handles to the rest of the system.
type MediaStore struct {
	client *minio.Client
	bucket string
}

// New creates a MediaStore against an S3-compatible endpoint.
func New(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MediaStore, error) {
	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init media client: %w", err)
	}

	return &MediaStore{client: client, bucket: bucket}, nil
}

// EnsureBucket creates the media bucket if it does not exist.
func (s *MediaStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores a media file under a fresh unique name and returns its URL.
// Files outside the extension allowlist are rejected.
func (s *MediaStore) Upload(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	objectName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)

	contentType := mime.TypeByExtension("." + ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}

	mediaURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, objectName)
	logger.Log.Infow("media uploaded", "object", objectName, "content_type", contentType)
	return mediaURL, nil
}

// Delete removes the object a media URL points at. Callers treat failures
// as best-effort: a dangling object is logged, never escalated.
func (s *MediaStore) Delete(ctx context.Context, mediaURL string) error {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return fmt.Errorf("parse media url: %w", err)
	}

	objectName := path.Base(u.Path)
	if objectName == "" || objectName == "/" || objectName == "." {
		return fmt.Errorf("no object name in media url %q", mediaURL)
	}

	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
