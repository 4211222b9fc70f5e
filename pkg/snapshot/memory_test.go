package snapshot

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Save(ctx, &Snapshot{Element: "x-counter", HTML: "<p>count: 3</p>"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty snapshot ID")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Element != "x-counter" {
		t.Errorf("Element = %q, want x-counter", got.Element)
	}
	if got.HTML != "<p>count: 3</p>" {
		t.Errorf("HTML = %q", got.HTML)
	}
	if got.TakenAt.IsZero() {
		t.Error("expected TakenAt to be set")
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Save(ctx, &Snapshot{Element: "x-a", HTML: "a"})
	first, _ := store.Get(ctx, id)
	first.HTML = "mutated"

	second, _ := store.Get(ctx, id)
	if second.HTML != "a" {
		t.Errorf("stored snapshot was mutated through a returned copy: %q", second.HTML)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Save(ctx, &Snapshot{Element: "x-a", HTML: "a"})
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, id); err != ErrNotFound {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}

	// Deleting an unknown ID is not an error.
	if err := store.Delete(ctx, id); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete of unknown ID = %v, want nil", err)
	}
}

func TestMemoryStorePreservesTakenAt(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id, _ := store.Save(ctx, &Snapshot{Element: "x-a", HTML: "a", TakenAt: stamp})
	got, _ := store.Get(ctx, id)
	if !got.TakenAt.Equal(stamp) {
		t.Errorf("TakenAt = %v, want %v", got.TakenAt, stamp)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newID()
		if seen[id] {
			t.Fatalf("duplicate snapshot ID %q", id)
		}
		seen[id] = true
	}
}
