package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "renders.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreGetPut(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	got, err := store.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("Get(missing) = (%v, %v), want (nil, nil)", got, err)
	}

	if err := store.Put(ctx, "k", []byte(`{"html":"<p>x</p>"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err = store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || string(got.Output) != `{"html":"<p>x</p>"}` {
		t.Fatalf("Get(k) = %+v", got)
	}
	if got.Hits != 1 {
		t.Errorf("hits = %d, want 1", got.Hits)
	}

	// Replacing keeps one row and the new output.
	if err := store.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err = store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Output) != "v2" || got.Hits != 2 {
		t.Errorf("after replace = %+v", got)
	}
}

func TestSQLiteStorePrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return base }
	if err := store.Put(ctx, "old", []byte("a")); err != nil {
		t.Fatal(err)
	}
	store.now = func() time.Time { return base.Add(2 * time.Hour) }
	if err := store.Put(ctx, "new", []byte("b")); err != nil {
		t.Fatal(err)
	}

	n, err := store.Prune(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}
	if e, _ := store.Get(ctx, "old"); e != nil {
		t.Error("old entry survived prune")
	}
	if e, _ := store.Get(ctx, "new"); e == nil {
		t.Error("new entry was pruned")
	}
}

func TestKey(t *testing.T) {
	k1, err := Key("text", []string{"a"}, "opts")
	if err != nil {
		t.Fatal(err)
	}
	k2, _ := Key("text", []string{"a"}, "opts")
	if k1 != k2 {
		t.Error("key is not deterministic")
	}

	for _, other := range []struct {
		text    string
		results []string
		opts    string
	}{
		{"text2", []string{"a"}, "opts"},
		{"text", []string{"b"}, "opts"},
		{"text", []string{"a"}, "opts2"},
	} {
		k, _ := Key(other.text, other.results, other.opts)
		if k == k1 {
			t.Errorf("key collision for %+v", other)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	if got, want := DefaultPath(), filepath.Join(dir, cacheDir, "renders.db"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
