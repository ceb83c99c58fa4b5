package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "finlearn.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestPutGetDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := st.Put(ctx, "recentSearches", `["taxes"]`); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Put(ctx, "recentSearches", `["credit","taxes"]`); err != nil {
		t.Fatalf("second put: %v", err)
	}
	value, ok, err := st.Get(ctx, "recentSearches")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != `["credit","taxes"]` {
		t.Fatalf("expected last write to win, got %q", value)
	}

	if err := st.Delete(ctx, "recentSearches"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.Delete(ctx, "recentSearches"); err != nil {
		t.Fatalf("delete of missing key should not fail: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "recentSearches"); ok {
		t.Fatalf("expected key to be gone")
	}
}

func TestListOrdersByKey(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"b", "a", "c"} {
		if err := st.Put(ctx, key, "{}"); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	entries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 || entries[0].Key != "a" || entries[2].Key != "c" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].UpdatedAt == "" {
		t.Fatalf("expected updated_at to be set")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finlearn.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Put(context.Background(), "k", "v"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	if v, ok, _ := st.Get(context.Background(), "k"); !ok || v != "v" {
		t.Fatalf("expected persisted value, got %q ok=%v", v, ok)
	}
}
