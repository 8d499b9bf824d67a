package storage

import (
	"context"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

func TestNewS3Service_RequiresBucket(t *testing.T) {
	_, err := NewS3Service(context.Background(), S3Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestValidateContentType(t *testing.T) {
	s := &s3Service{}

	assert.NoError(t, s.validateContentType("image/png"))
	assert.NoError(t, s.validateContentType("text/csv"))

	err := s.validateContentType("audio/wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid content type")
}

// TestS3Service_Integration round-trips objects through a MinIO container
func TestS3Service_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, container.Terminate(ctx))
	}()

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	// The S3 service never creates buckets, so set one up directly
	admin, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:  miniocreds.NewStaticV4(container.Username, container.Password, ""),
		Secure: false,
	})
	require.NoError(t, err)
	require.NoError(t, admin.MakeBucket(ctx, "sweepplot-test", miniogo.MakeBucketOptions{}))

	svc, err := NewS3Service(ctx, S3Config{
		Bucket:    "sweepplot-test",
		Endpoint:  endpoint,
		AccessKey: container.Username,
		SecretKey: container.Password,
	})
	require.NoError(t, err)
	assert.Equal(t, "sweepplot-test", svc.Bucket())

	samples := []byte("-0.1\n-1.5\n-3.2\n")
	require.NoError(t, svc.UploadFile(ctx, "iir/amplitude.csv", "text/csv", samples))

	info, err := admin.StatObject(ctx, "sweepplot-test", "iir/amplitude.csv", miniogo.StatObjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", info.ContentType)
	assert.Equal(t, int64(len(samples)), info.Size)

	got, err := svc.DownloadFile(ctx, "sweepplot-test", "iir/amplitude.csv")
	require.NoError(t, err)
	assert.Equal(t, samples, got)

	url, err := svc.GenerateDownloadURL(ctx, "iir/amplitude.csv")
	require.NoError(t, err)
	assert.Contains(t, url, "iir/amplitude.csv")

	_, err = svc.DownloadFile(ctx, "sweepplot-test", "missing.csv")
	assert.Error(t, err)

	err = svc.UploadFile(ctx, "notes.txt", "text/plain", []byte("x"))
	assert.Error(t, err)
}
