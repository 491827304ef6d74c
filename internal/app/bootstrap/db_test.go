package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenDocumentStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "documents")
	store, err := openDocumentStore(AppConfig{StorageLocalPath: dir, StorageLocalURL: "/files/documents"})
	if err != nil {
		t.Fatalf("openDocumentStore: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("storage directory not created: %v", err)
	}

	ctx := context.Background()
	if err := store.PutBytes(ctx, "a/b.pdf", []byte("%PDF-1.4"), nil); err != nil {
		t.Fatalf("PutBytes: %v", err)
	}
	full, err := store.GetFullPath("a/b.pdf")
	if err != nil {
		t.Fatalf("GetFullPath: %v", err)
	}
	if _, err := os.Stat(full); err != nil {
		t.Errorf("stored file missing at %s: %v", full, err)
	}
}

func TestOpenDocumentStore_RequiresPath(t *testing.T) {
	if _, err := openDocumentStore(AppConfig{}); err == nil {
		t.Error("expected error without a storage path")
	}
}
