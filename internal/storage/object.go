package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore persists uploads in an S3-compatible bucket through the
// MinIO client.  References are fully qualified URLs under the
// configured endpoint and bucket.
//
// Objects are uploaded public-read: anyone holding the URL can fetch
// the asset without a token or signature.  This mirrors the platform's
// current distribution model and is an accepted limitation, not a
// runtime check the store enforces.
type ObjectStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewObjectStore connects to the configured endpoint and ensures the
// bucket exists.
func NewObjectStore(cfg ObjectConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &ObjectStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
	}, nil
}

// Store uploads data as <folder>/<nanos>-<filename> and returns the
// public URL.  The unix-nano prefix keeps object names
// collision-resistant within the folder.
func (s *ObjectStore) Store(ctx context.Context, data []byte, contentType, filename, folder string) (string, error) {
	key := fmt.Sprintf("%s/%d-%s", folder, time.Now().UnixNano(), sanitizeFilename(filename))
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"x-amz-acl": "public-read",
		},
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	log.Printf("storage: object stored at %s/%s", s.bucket, key)
	return s.baseURL + "/" + key, nil
}

// Remove inverts Store's addressing: it parses the object key out of
// the URL and deletes the object.  Deleting an absent key succeeds.
func (s *ObjectStore) Remove(ctx context.Context, reference string) error {
	key, err := s.keyFromReference(reference)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	log.Printf("storage: object removed at %s/%s", s.bucket, key)
	return nil
}

// keyFromReference extracts the object key from a URL previously
// returned by Store.
func (s *ObjectStore) keyFromReference(reference string) (string, error) {
	u, err := url.Parse(reference)
	if err != nil {
		return "", fmt.Errorf("reference %q is not a URL: %w", reference, err)
	}
	prefix := "/" + s.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", fmt.Errorf("reference %q was not issued by this bucket", reference)
	}
	return strings.TrimPrefix(u.Path, prefix), nil
}
