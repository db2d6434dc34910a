// Package testutil provides shared test helpers for setting up databases and media storage.
package testutil

import (
	"os"
	"testing"

	"github.com/visperhq/visper/internal/blob"
	"github.com/visperhq/visper/internal/store"
)

// TestDB creates a temporary SQLite entry store that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "visper-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestMedia creates a temporary media directory with a blob.Store.
func TestMedia(t *testing.T) (string, *blob.FS) {
	t.Helper()
	mediaDir := t.TempDir()
	blobs, err := blob.NewFS(mediaDir, "/media")
	if err != nil {
		t.Fatal(err)
	}
	return mediaDir, blobs
}
