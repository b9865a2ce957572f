package overrides

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	store := NewFileStore(path)
	ctx := context.Background()

	want := map[int]bool{0: true, 3: false, 12: true}
	if err := store.SaveAll(ctx, want); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d entries, want %d", len(got), len(want))
	}
	for id, v := range want {
		if got[id] != v {
			t.Errorf("override[%d] = %v, want %v", id, got[id], v)
		}
	}
}

func TestFileStore_MissingFileLoadsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("loaded %d entries from missing file, want 0", len(got))
	}
}

func TestFileStore_CorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Error("expected an error for corrupt override file")
	}
}

func TestFileStore_SaveOverwritesWholeMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	store := NewFileStore(path)
	ctx := context.Background()

	if err := store.SaveAll(ctx, map[int]bool{1: true, 2: false}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveAll(ctx, map[int]bool{7: true}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[7] {
		t.Errorf("saved map not fully replaced: %v", got)
	}
}
