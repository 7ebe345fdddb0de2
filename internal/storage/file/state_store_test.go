package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

func TestFileStateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewStateStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := store.Save(ctx, domain.StateKeyOrders, []byte(`{"orders":[]}`)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	value, err := store.Load(ctx, domain.StateKeyOrders)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(value) != `{"orders":[]}` {
		t.Fatalf("unexpected value %s", value)
	}
}

func TestFileStateStoreMissingKey(t *testing.T) {
	store, err := NewStateStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if _, err := store.Load(context.Background(), "missing"); !errors.Is(err, domain.ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
}

func TestFileStateStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewStateStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := store.Save(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(ctx, "key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "key"); !errors.Is(err, domain.ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "key"); err != nil {
		t.Fatalf("delete of missing key must not fail: %v", err)
	}
}

func TestFileStateStoreKeyToFileName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStateStore(dir)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := store.Save(context.Background(), domain.StateKeyCart, []byte(`[]`)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Двоеточие ключа не должно попасть в имя файла.
	if _, err := os.Stat(filepath.Join(dir, "foodstream_cart.json")); err != nil {
		t.Fatalf("expected foodstream_cart.json on disk: %v", err)
	}
}

func TestFileStateStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := NewStateStore(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := store.Save(ctx, "key", []byte("first")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save(ctx, "key", []byte("second")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	value, _ := store.Load(ctx, "key")
	if string(value) != "second" {
		t.Fatalf("expected overwritten value, got %s", value)
	}
}

func TestFileStateStoreRequiresDir(t *testing.T) {
	if _, err := NewStateStore("  "); err == nil {
		t.Fatalf("blank dir must be rejected")
	}
}
