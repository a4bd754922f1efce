package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/panostitcher/internal/config"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func newTestLocalStorage(t *testing.T) Storage {
	t.Helper()
	store, err := NewLocalStorage(&config.StorageConfig{
		LocalPath:  t.TempDir(),
		OutputDir:  "outputs",
		PreviewDir: "previews",
	})
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return store
}

func TestLocalStorageSaveAndGet(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()
	data := []byte("jpeg bytes")

	path, err := store.SaveOutput(ctx, "stitched_1_abc.jpg", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("SaveOutput: %v", err)
	}
	if path != filepath.Join("outputs", "stitched_1_abc.jpg") {
		t.Errorf("stored path: got %q", path)
	}

	file, err := store.GetOutput(ctx, path)
	if err != nil {
		t.Fatalf("GetOutput: %v", err)
	}
	defer file.Close()

	got, err := io.ReadAll(file)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round trip: got %q, want %q", got, data)
	}
}

func TestLocalStorageGetMissingObject(t *testing.T) {
	store := newTestLocalStorage(t)

	_, err := store.GetOutput(context.Background(), "outputs/nope.jpg")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("got %v, want ErrObjectNotFound", err)
	}
}

func TestLocalStorageDeleteAll(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	outPath, err := store.SaveOutput(ctx, "stitched_2_def.jpg", bytes.NewReader([]byte("out")))
	if err != nil {
		t.Fatal(err)
	}
	prevPath, err := store.SavePreview(ctx, "stitched_2_def_preview.jpg", bytes.NewReader([]byte("prev")))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteAll(ctx, outPath, prevPath); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if _, err := store.GetOutput(ctx, outPath); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("output still present after DeleteAll: %v", err)
	}
	if _, err := store.GetPreview(ctx, prevPath); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("preview still present after DeleteAll: %v", err)
	}
}

func TestLocalStorageDeleteMissingIsNoop(t *testing.T) {
	store := newTestLocalStorage(t)

	if err := store.Delete(context.Background(), "outputs/never-existed.jpg"); err != nil {
		t.Fatalf("deleting a missing file must not fail: %v", err)
	}
}

func TestUploadStoreSaveAndRemove(t *testing.T) {
	store, err := NewUploadStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("NewUploadStore: %v", err)
	}

	path, err := store.Save("source.jpg", bytes.NewReader([]byte("source bytes")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved upload is missing: %v", err)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("upload still present after Remove")
	}

	// Removing again must be silent.
	if err := store.Remove(path); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}
