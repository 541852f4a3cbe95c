package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/SeakMengs/CadetTrack/internal/config"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// uploaded deliverables live under this prefix in the bucket
const taskFilesDir = "task-files"

func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

// MinioBlobStore keeps task files in a single bucket. Every Store call writes
// a fresh object key, so a ref is never shared between two files.
type MinioBlobStore struct {
	client *minio.Client
	bucket string
	logger *zap.SugaredLogger
}

var _ service.BlobStore = (*MinioBlobStore)(nil)

func NewMinioBlobStore(ctx context.Context, client *minio.Client, bucket string, logger *zap.SugaredLogger) (*MinioBlobStore, error) {
	if err := createBucketIfNotExists(ctx, client, bucket); err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &MinioBlobStore{client: client, bucket: bucket, logger: logger}, nil
}

func createBucketIfNotExists(ctx context.Context, s3 *minio.Client, bucketName string) error {
	exists, err := s3.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}

	if !exists {
		if err := s3.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}

	return nil
}

func (m MinioBlobStore) Store(ctx context.Context, content []byte, suggestedName, contentType string) (string, error) {
	key, err := util.ToObjectKey(taskFilesDir, suggestedName)
	if err != nil {
		return "", fmt.Errorf("failed to generate object key: %w", err)
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	m.logger.Debugf("Stored object %s (%d bytes) in bucket %s", info.Key, info.Size, m.bucket)
	return info.Key, nil
}

func (m MinioBlobStore) Size(ctx context.Context, ref string) (int64, error) {
	stat, err := m.client.StatObject(ctx, m.bucket, ref, minio.StatObjectOptions{})
	if err != nil {
		return 0, err
	}
	return stat.Size, nil
}

func (m MinioBlobStore) Exists(ctx context.Context, ref string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, ref, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

func (m MinioBlobStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	// GetObject is lazy; Stat surfaces a missing key before streaming starts.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (m MinioBlobStore) Remove(ctx context.Context, ref string) error {
	m.logger.Debugf("Remove object %s from bucket %s", ref, m.bucket)
	return m.client.RemoveObject(ctx, m.bucket, ref, minio.RemoveObjectOptions{})
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
