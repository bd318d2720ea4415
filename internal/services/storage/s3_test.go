package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"

	"mintforge/internal/assets"
	"mintforge/internal/services"
)

type fakePutter struct {
	bucket string
	key    string
	data   []byte
	size   int64
	opts   minio.PutObjectOptions
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.bucket, f.key, f.data, f.size, f.opts = bucketName, objectName, data, objectSize, opts
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func TestS3UploaderPutsObjectUnderPrefix(t *testing.T) {
	putter := &fakePutter{}
	uploader := newS3Uploader(putter, "nft-assets", "/drops/", "")
	uploader.newKey = func() string { return "fixed-key" }

	uri, err := uploader.Upload(context.Background(), assets.NewFile("Hero.PNG", "image/png", []byte("pixels")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uri != "s3://nft-assets/drops/fixed-key.png" {
		t.Fatalf("uri = %q", uri)
	}
	if putter.bucket != "nft-assets" || putter.key != "drops/fixed-key.png" {
		t.Fatalf("unexpected target %s/%s", putter.bucket, putter.key)
	}
	if string(putter.data) != "pixels" || putter.size != 6 {
		t.Fatalf("unexpected payload %q size %d", putter.data, putter.size)
	}
	if putter.opts.ContentType != "image/png" {
		t.Fatalf("content type = %q", putter.opts.ContentType)
	}
}

func TestS3UploaderUsesPublicBaseURL(t *testing.T) {
	uploader := newS3Uploader(&fakePutter{}, "bucket", "", "https://cdn.test/assets/")
	uploader.newKey = func() string { return "k" }

	uri, err := uploader.Upload(context.Background(), assets.NewFile("a.jpg", "image/jpeg", []byte("x")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uri != "https://cdn.test/assets/k.jpg" {
		t.Fatalf("uri = %q", uri)
	}
}

func TestS3UploaderWrapsPutFailure(t *testing.T) {
	uploader := newS3Uploader(&fakePutter{err: errors.New("access denied")}, "bucket", "", "")
	_, err := uploader.Upload(context.Background(), assets.NewFile("a.png", "image/png", []byte("x")))
	if !errors.Is(err, services.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}
