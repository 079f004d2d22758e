package kv

import (
	"context"
	"path/filepath"
	"testing"

	"trivia-app/internal/config"
)

func TestMemoryGetSetDelete(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, ok, _ := store.Get(ctx, "scoreFilter"); ok {
		t.Fatalf("expected missing key")
	}
	_ = store.Set(ctx, "scoreFilter", "ann")
	if value, ok, _ := store.Get(ctx, "scoreFilter"); !ok || value != "ann" {
		t.Fatalf("Get after Set = (%q, %t)", value, ok)
	}
	_ = store.Delete(ctx, "scoreFilter")
	if _, ok, _ := store.Get(ctx, "scoreFilter"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	memory, err := Open(ctx, config.Store{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	if _, ok := memory.(*Memory); !ok {
		t.Fatalf("expected *Memory, got %T", memory)
	}

	sqlite, err := Open(ctx, config.Store{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "kv.db")})
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	defer sqlite.Close()
	if err := sqlite.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("sqlite Set failed: %v", err)
	}

	if _, err := Open(ctx, config.Store{Driver: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
