package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryGetPut(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Put(ctx, "k", `[1]`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Put(ctx, "k", `[1,2]`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := repo.Get(ctx, "k")
	if err != nil || got != `[1,2]` {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if v, err := repo.Version(ctx, "k"); err != nil || v != 2 {
		t.Fatalf("Version = %d, %v; want 2", v, err)
	}
	if v, err := repo.Version(ctx, "missing"); err != nil || v != 0 {
		t.Fatalf("Version(missing) = %d, %v", v, err)
	}
}

func TestSQLiteRepositoryPutAll(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	values := map[string]string{"a": `{"x":1}`, "b": `[]`, "c": `[{"id":"1"}]`}
	if err := repo.PutAll(ctx, values); err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	for k, want := range values {
		got, err := repo.Get(ctx, k)
		if err != nil || got != want {
			t.Errorf("Get(%s) = %q, %v; want %q", k, got, err, want)
		}
	}
}

func TestSQLiteRepositoryPutAllRollsBackOnCancel(t *testing.T) {
	repo := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.PutAll(ctx, map[string]string{"a": "1"}); err == nil {
		t.Fatalf("expected error with cancelled context")
	}
	if _, err := repo.Get(context.Background(), "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected nothing written, got %v", err)
	}
}

func TestSQLiteRepositoryReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Put(context.Background(), "k", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	if got, err := repo.Get(context.Background(), "k"); err != nil || got != "v" {
		t.Fatalf("Get after reopen = %q, %v", got, err)
	}
}
