// Package kvtest holds the behavioural contract every kv.Store backend must
// satisfy, shared by the backend test suites.
package kvtest

import (
	"context"
	"errors"
	"testing"

	"academycore/internal/kv"
)

// RunContract exercises get/set/delete semantics against store.
func RunContract(t *testing.T, store kv.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "academy_missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}
	if err := store.Set(ctx, "academy_data", []byte(`{"students":[]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "academy_data")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"students":[]}` {
		t.Fatalf("unexpected value %q", got)
	}

	if err := store.Set(ctx, "academy_data", []byte(`{"students":[{"id":"s1"}]}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = store.Get(ctx, "academy_data")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if string(got) != `{"students":[{"id":"s1"}]}` {
		t.Fatalf("overwrite not visible, got %q", got)
	}

	if err := store.Set(ctx, "academy_dark_mode", []byte("true")); err != nil {
		t.Fatalf("set second key: %v", err)
	}
	if err := store.Delete(ctx, "academy_dark_mode"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "academy_dark_mode"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "academy_dark_mode"); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
	if _, err := store.Get(ctx, "academy_data"); err != nil {
		t.Fatalf("unrelated key lost after delete: %v", err)
	}

	if err := store.Set(ctx, "", []byte("x")); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
