package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cangtype.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return s
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("put overwrite: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("unexpected value %q", got)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected key to be gone")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Put(ctx, "cangtype.profiles.v2", []byte("blob")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	got, ok, err := s.Get(ctx, "cangtype.profiles.v2")
	if err != nil || !ok || string(got) != "blob" {
		t.Fatalf("unexpected get after reopen: %q ok=%v err=%v", got, ok, err)
	}
}

func TestDeleteExpiredHonorsPrefixAndCutoff(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	for _, k := range []string{"dict:日", "dict:月", "other"} {
		if err := s.Put(ctx, k, []byte("x")); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	if err := s.Put(ctx, "dict:明", []byte("y")); err != nil {
		t.Fatalf("put: %v", err)
	}

	_, at, ok, err := s.GetWithTime(ctx, "dict:明")
	if err != nil || !ok || !at.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("unexpected timestamp %v ok=%v err=%v", at, ok, err)
	}

	n, err := s.DeleteExpired(ctx, "dict:", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows removed, got %d", n)
	}
	keys, err := s.Keys(ctx, "")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "dict:明" || keys[1] != "other" {
		t.Fatalf("unexpected remaining keys %v", keys)
	}
}

func TestSubSecondTimestampsSortAsText(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base.Add(500 * time.Millisecond) }
	if err := s.Put(ctx, "p:a", []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	n, err := s.DeleteExpired(ctx, "p:", base.Add(time.Second))
	if err != nil || n != 1 {
		t.Fatalf("expected one expired row, got %d err=%v", n, err)
	}
}
