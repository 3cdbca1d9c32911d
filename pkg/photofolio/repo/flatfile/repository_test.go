package flatfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

func record(key string, uploadedAt time.Time) *photofolio.ImageRecord {
	return &photofolio.ImageRecord{
		ImageKey:     key,
		URL:          "http://localhost:8080/files/images/" + key + ".jpg",
		OriginalName: key + ".jpg",
		SizeBytes:    2048,
		MimeType:     "image/jpeg",
		UploadedAt:   uploadedAt,
	}
}

func TestFlatFile_MissingFileIsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.json")
	repo, err := New(path)
	require.NoError(t, err)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFlatFile_RoundTripAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.json")
	ctx := context.Background()

	repo, err := New(path)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, record("hero-1", time.Now().UTC())))
	require.NoError(t, repo.Upsert(ctx, record("about-portrait", time.Now().UTC())))

	// A second instance over the same file sees both records.
	reloaded, err := New(path)
	require.NoError(t, err)

	got, err := reloaded.Get(ctx, "hero-1")
	require.NoError(t, err)
	assert.Equal(t, "hero-1.jpg", got.OriginalName)

	all, err := reloaded.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFlatFile_OnDiskLayoutIsKeyedObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.json")
	ctx := context.Background()

	repo, err := New(path)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, record("hero-1", time.Now().UTC())))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Contains(t, onDisk, "hero-1")
	assert.Equal(t, "image/jpeg", onDisk["hero-1"]["mimetype"])
}

func TestFlatFile_UpsertOverwritesAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.json")
	ctx := context.Background()
	repo, err := New(path)
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, record("hero-1", time.Now().UTC())))
	replacement := record("hero-1", time.Now().UTC().Add(time.Minute))
	replacement.MimeType = "image/png"
	replacement.OriginalName = "hero-new.png"
	require.NoError(t, repo.Upsert(ctx, replacement))

	got, err := repo.Get(ctx, "hero-1")
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, "hero-new.png", got.OriginalName)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFlatFile_DeletePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.json")
	ctx := context.Background()
	repo, err := New(path)
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, record("hero-1", time.Now().UTC())))
	require.NoError(t, repo.Delete(ctx, "hero-1"))

	_, err = repo.Get(ctx, "hero-1")
	assert.ErrorIs(t, err, photofolio.ErrImageNotFound)

	reloaded, err := New(path)
	require.NoError(t, err)
	_, err = reloaded.Get(ctx, "hero-1")
	assert.ErrorIs(t, err, photofolio.ErrImageNotFound)
}

func TestFlatFile_DeleteMissing(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "images.json"))
	require.NoError(t, err)
	err = repo.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, photofolio.ErrImageNotFound)
}

func TestFlatFile_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	repo, err := New(filepath.Join(dir, "images.json"))
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(context.Background(), record("hero-1", time.Now().UTC())))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".images-") {
			t.Fatalf("temp snapshot left behind: %s", e.Name())
		}
	}
}

func TestFlatFile_CorruptFileFailsConstruction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := New(path)
	assert.Error(t, err)
}
