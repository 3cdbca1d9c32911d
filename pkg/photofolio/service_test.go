package photofolio_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthousehq/photofolio/pkg/photofolio"
	repomemory "github.com/arthousehq/photofolio/pkg/photofolio/repo/memory"
	memorystorage "github.com/arthousehq/photofolio/pkg/photofolio/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []photofolio.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []photofolio.Option{},
			expectError: true,
		},
		{
			name: "metadata store alone should fail",
			options: []photofolio.Option{
				photofolio.WithMetadataStore(repomemory.New()),
			},
			expectError: true,
		},
		{
			name: "metadata store and blob store should succeed",
			options: []photofolio.Option{
				photofolio.WithMetadataStore(repomemory.New()),
				photofolio.WithBlobStore(memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := photofolio.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) (photofolio.Service, *memorystorage.Backend) {
	t.Helper()
	store := memorystorage.New()
	svc, err := photofolio.New(
		photofolio.WithMetadataStore(repomemory.New()),
		photofolio.WithBlobStore(store),
	)
	require.NoError(t, err)
	return svc, store
}

func uploadReq(key, name, mimeType string, data []byte) photofolio.UploadImageRequest {
	return photofolio.UploadImageRequest{
		ImageKey:     key,
		Reader:       bytes.NewReader(data),
		OriginalName: name,
		MimeType:     mimeType,
		SizeBytes:    int64(len(data)),
	}
}

func TestUploadImage_FreshKeyRoundTrip(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()
	data := []byte("jpeg bytes for hero")

	record, err := svc.UploadImage(ctx, uploadReq("hero-1", "hero.jpg", "image/jpeg", data))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "hero-1", record.ImageKey)
	assert.NotEmpty(t, record.URL)
	assert.NotEmpty(t, record.StorageHandle)
	assert.Equal(t, "hero.jpg", record.OriginalName)
	assert.Equal(t, int64(len(data)), record.SizeBytes)
	assert.False(t, record.UploadedAt.IsZero())

	got, err := svc.GetImage(ctx, "hero-1")
	require.NoError(t, err)
	assert.Equal(t, record.URL, got.URL)

	// The record's URL resolves to the uploaded bytes.
	rc, err := store.Download(ctx, got.Handle())
	require.NoError(t, err)
	stored, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, data, stored)
}

func TestUploadImage_SameKeyLastWriteWins(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	first, err := svc.UploadImage(ctx, uploadReq("hero-1", "hero.jpg", "image/jpeg", []byte("jpeg")))
	require.NoError(t, err)

	second, err := svc.UploadImage(ctx, uploadReq("hero-1", "hero.png", "image/png", []byte("png bytes")))
	require.NoError(t, err)
	assert.NotEqual(t, first.StorageHandle, second.StorageHandle)

	got, err := svc.GetImage(ctx, "hero-1")
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, "hero.png", got.OriginalName)

	all, err := svc.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "hero-1", all[0].ImageKey)
}

func TestUploadImage_OverwriteKeepsOldBlob(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	first, err := svc.UploadImage(ctx, uploadReq("hero-1", "hero.jpg", "image/jpeg", []byte("old")))
	require.NoError(t, err)
	_, err = svc.UploadImage(ctx, uploadReq("hero-1", "hero.png", "image/png", []byte("new")))
	require.NoError(t, err)

	// The replaced blob stays in storage; overwrite does not clean it up.
	rc, err := store.Download(ctx, first.StorageHandle)
	require.NoError(t, err)
	_ = rc.Close()
}

func TestUploadImage_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  photofolio.UploadImageRequest
		want error
	}{
		{
			name: "missing file",
			req:  photofolio.UploadImageRequest{ImageKey: "k", MimeType: "image/png"},
			want: photofolio.ErrMissingFile,
		},
		{
			name: "missing key",
			req:  uploadReq("", "a.png", "image/png", []byte("x")),
			want: photofolio.ErrMissingImageKey,
		},
		{
			name: "not an image",
			req:  uploadReq("k", "a.pdf", "application/pdf", []byte("x")),
			want: photofolio.ErrNotAnImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupTestService(t)
			_, err := svc.UploadImage(context.Background(), tt.req)

			var validationErr *photofolio.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUploadImage_SizeLimit(t *testing.T) {
	svc, err := photofolio.New(
		photofolio.WithMetadataStore(repomemory.New()),
		photofolio.WithBlobStore(memorystorage.New()),
		photofolio.WithMaxUploadBytes(4),
	)
	require.NoError(t, err)

	_, err = svc.UploadImage(context.Background(), uploadReq("k", "a.png", "image/png", []byte("too big")))
	assert.ErrorIs(t, err, photofolio.ErrFileTooLarge)
}

// countingBlobStore and countingMetadataStore assert that invalid requests
// never reach the backing stores.

type countingBlobStore struct {
	photofolio.BlobStore
	uploads int
	deletes int
}

func (c *countingBlobStore) Upload(ctx context.Context, objectKey string, r io.Reader, opts photofolio.UploadOptions) (photofolio.StoredBlob, error) {
	c.uploads++
	return c.BlobStore.Upload(ctx, objectKey, r, opts)
}

func (c *countingBlobStore) Delete(ctx context.Context, objectKey string) error {
	c.deletes++
	return c.BlobStore.Delete(ctx, objectKey)
}

type countingMetadataStore struct {
	photofolio.MetadataStore
	upserts int
	deletes int
}

func (c *countingMetadataStore) Upsert(ctx context.Context, record *photofolio.ImageRecord) error {
	c.upserts++
	return c.MetadataStore.Upsert(ctx, record)
}

func (c *countingMetadataStore) Delete(ctx context.Context, imageKey string) error {
	c.deletes++
	return c.MetadataStore.Delete(ctx, imageKey)
}

func TestUploadImage_RejectedBeforeAnyStoreCall(t *testing.T) {
	blobs := &countingBlobStore{BlobStore: memorystorage.New()}
	meta := &countingMetadataStore{MetadataStore: repomemory.New()}
	svc, err := photofolio.New(
		photofolio.WithMetadataStore(meta),
		photofolio.WithBlobStore(blobs),
	)
	require.NoError(t, err)

	_, err = svc.UploadImage(context.Background(), uploadReq("k", "notes.txt", "text/plain", []byte("x")))
	require.Error(t, err)

	assert.Zero(t, blobs.uploads, "blob store must not be called for invalid uploads")
	assert.Zero(t, meta.upserts, "metadata store must not be called for invalid uploads")
}

func TestDeleteImage_UnknownKeyNoMutation(t *testing.T) {
	blobs := &countingBlobStore{BlobStore: memorystorage.New()}
	meta := &countingMetadataStore{MetadataStore: repomemory.New()}
	svc, err := photofolio.New(
		photofolio.WithMetadataStore(meta),
		photofolio.WithBlobStore(blobs),
	)
	require.NoError(t, err)

	err = svc.DeleteImage(context.Background(), "missing")
	var notFoundErr *photofolio.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	assert.Zero(t, blobs.deletes)
	assert.Zero(t, meta.deletes)
}

func TestDeleteImage_ThenGetNotFound(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, uploadReq("hero-1", "hero.jpg", "image/jpeg", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteImage(ctx, "hero-1"))

	_, err = svc.GetImage(ctx, "hero-1")
	var notFoundErr *photofolio.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestDeleteImage_RemovesBlob(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	record, err := svc.UploadImage(ctx, uploadReq("hero-1", "hero.jpg", "image/jpeg", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteImage(ctx, "hero-1"))

	_, err = store.Meta(ctx, record.StorageHandle)
	assert.Error(t, err, "blob should be gone after delete")
}

func TestListImages_MatchesUploads(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	uploaded := make(map[string]*photofolio.ImageRecord)
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("gallery-%d", i)
		record, err := svc.UploadImage(ctx, uploadReq(key, key+".jpg", "image/jpeg", []byte(key)))
		require.NoError(t, err)
		uploaded[key] = record
	}

	all, err := svc.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(uploaded))

	for _, record := range all {
		want, ok := uploaded[record.ImageKey]
		require.True(t, ok, "unexpected key %s", record.ImageKey)
		assert.Equal(t, want.URL, record.URL)
		assert.Equal(t, want.StorageHandle, record.StorageHandle)
		assert.Equal(t, want.SizeBytes, record.SizeBytes)
	}
}

func TestListImages_EmptyStore(t *testing.T) {
	svc, _ := setupTestService(t)
	all, err := svc.ListImages(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

// failingMetadataStore fails every Upsert to exercise the orphaned-blob path.
type failingMetadataStore struct {
	photofolio.MetadataStore
}

func (f *failingMetadataStore) Upsert(ctx context.Context, record *photofolio.ImageRecord) error {
	return errors.New("metadata backend down")
}

func TestUploadImage_UpsertFailureLeavesBlobOrphaned(t *testing.T) {
	store := memorystorage.New()
	svc, err := photofolio.New(
		photofolio.WithMetadataStore(&failingMetadataStore{MetadataStore: repomemory.New()}),
		photofolio.WithBlobStore(store),
	)
	require.NoError(t, err)

	_, err = svc.UploadImage(context.Background(), uploadReq("hero-1", "hero.jpg", "image/jpeg", []byte("x")))

	var storageErr *photofolio.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "upsert", storageErr.Op)
}

// failingBlobStore fails deletes with a non-absence error.
type failingBlobStore struct {
	photofolio.BlobStore
}

func (f *failingBlobStore) Delete(ctx context.Context, objectKey string) error {
	return errors.New("permission denied")
}

func TestDeleteImage_BlobFailureKeepsRecord(t *testing.T) {
	blobs := &failingBlobStore{BlobStore: memorystorage.New()}
	svc, err := photofolio.New(
		photofolio.WithMetadataStore(repomemory.New()),
		photofolio.WithBlobStore(blobs),
	)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.UploadImage(ctx, uploadReq("hero-1", "hero.jpg", "image/jpeg", []byte("x")))
	require.NoError(t, err)

	err = svc.DeleteImage(ctx, "hero-1")
	var storageErr *photofolio.StorageError
	require.ErrorAs(t, err, &storageErr)

	// The metadata record must be left intact.
	got, err := svc.GetImage(ctx, "hero-1")
	require.NoError(t, err)
	assert.Equal(t, "hero-1", got.ImageKey)
}

func TestDeleteImage_AbsentBlobIsSuccess(t *testing.T) {
	store := memorystorage.New()
	svc, err := photofolio.New(
		photofolio.WithMetadataStore(repomemory.New()),
		photofolio.WithBlobStore(store),
	)
	require.NoError(t, err)
	ctx := context.Background()

	record, err := svc.UploadImage(ctx, uploadReq("hero-1", "hero.jpg", "image/jpeg", []byte("x")))
	require.NoError(t, err)

	// Remove the blob out of band; delete must still succeed.
	require.NoError(t, store.Delete(ctx, record.StorageHandle))
	require.NoError(t, svc.DeleteImage(ctx, "hero-1"))
}

func TestScenario_HeroImageLifecycle(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	jpeg := bytes.Repeat([]byte("j"), 2<<20)
	record, err := svc.UploadImage(ctx, uploadReq("hero-1", "hero.jpg", "image/jpeg", jpeg))
	require.NoError(t, err)
	assert.NotEmpty(t, record.URL)

	all, err := svc.ListImages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.UploadImage(ctx, uploadReq("hero-1", "hero.png", "image/png", []byte("png")))
	require.NoError(t, err)

	got, err := svc.GetImage(ctx, "hero-1")
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MimeType)

	require.NoError(t, svc.DeleteImage(ctx, "hero-1"))

	_, err = svc.GetImage(ctx, "hero-1")
	var notFoundErr *photofolio.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestRecordHandle(t *testing.T) {
	tests := []struct {
		name   string
		record photofolio.ImageRecord
		want   string
	}{
		{
			name:   "explicit handle wins",
			record: photofolio.ImageRecord{StorageHandle: "images/abc.jpg", URL: "http://h/files/images/xyz.jpg"},
			want:   "images/abc.jpg",
		},
		{
			name:   "derived from url basename",
			record: photofolio.ImageRecord{URL: "http://localhost:8080/files/images/abc123.jpg"},
			want:   "abc123.jpg",
		},
		{
			name:   "no handle derivable",
			record: photofolio.ImageRecord{URL: "http://localhost:8080/"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Handle())
		})
	}
}

func TestUploadImage_MimePrefixOnly(t *testing.T) {
	svc, _ := setupTestService(t)
	for _, mime := range []string{"image/jpeg", "image/png", "image/webp", "image/gif"} {
		_, err := svc.UploadImage(context.Background(), uploadReq("k-"+mime, "a", mime, []byte("x")))
		assert.NoError(t, err, mime)
	}
	for _, mime := range []string{"text/plain", "application/pdf", "video/mp4", "imagex/png", ""} {
		_, err := svc.UploadImage(context.Background(), uploadReq("k", "a", mime, []byte("x")))
		assert.Error(t, err, mime)
	}
}

func TestStorageErrorMessage(t *testing.T) {
	err := &photofolio.StorageError{Backend: "s3", Key: "images/a.jpg", Op: "upload", Err: errors.New("boom")}
	assert.True(t, strings.Contains(err.Error(), "upload"))
	assert.True(t, strings.Contains(err.Error(), "images/a.jpg"))
	assert.ErrorContains(t, err, "boom")
}
