package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"mintforge/internal/assets"
	"mintforge/internal/config"
	"mintforge/internal/services"
)

// objectPutter is the subset of *minio.Client used for uploads.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Uploader writes assets to an S3-compatible bucket.
type S3Uploader struct {
	client        objectPutter
	bucket        string
	prefix        string
	publicBaseURL string
	newKey        func() string
}

// NewS3Uploader connects to the configured endpoint and creates the bucket if
// it does not exist yet.
func NewS3Uploader(ctx context.Context, cfg config.Storage) (*S3Uploader, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "connect s3", cfg.S3Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, stageName, "check bucket", cfg.S3Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{Region: cfg.S3Region}); err != nil {
			return nil, services.Wrap(services.ErrExternalService, stageName, "create bucket", cfg.S3Bucket, err)
		}
	}
	return newS3Uploader(client, cfg.S3Bucket, cfg.S3Prefix, cfg.PublicBaseURL), nil
}

func newS3Uploader(client objectPutter, bucket, prefix, publicBaseURL string) *S3Uploader {
	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		prefix:        strings.Trim(prefix, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		newKey:        uuid.NewString,
	}
}

// Upload stores file under a fresh object key and returns its URI: the public
// base URL joined with the key when configured, otherwise s3://bucket/key.
func (u *S3Uploader) Upload(ctx context.Context, file assets.File) (string, error) {
	payload, err := file.Open()
	if err != nil {
		return "", services.Wrap(services.ErrUpload, stageName, "open asset", file.Name, err)
	}
	defer payload.Close()

	key := u.objectKey(file)
	size := file.Size
	if size <= 0 {
		size = -1
	}
	_, err = u.client.PutObject(ctx, u.bucket, key, payload, size, minio.PutObjectOptions{
		ContentType:  file.ContentType,
		UserMetadata: map[string]string{"original-name": file.Name},
	})
	if err != nil {
		return "", services.Wrap(services.ErrUpload, stageName, "put object", key, err)
	}
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key, nil
	}
	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}

func (u *S3Uploader) objectKey(file assets.File) string {
	name := u.newKey() + file.Ext()
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}
