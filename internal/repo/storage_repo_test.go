package repo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tbourn/rocketmentor/internal/domain"
)

func TestPutEntry_UpsertsPerScope(t *testing.T) {
	db := newTestDB(t, &domain.StorageEntry{})
	ctx := context.Background()

	if err := PutEntry(ctx, db, "u1", "rocketmentor_wins", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := PutEntry(ctx, db, "u1", "rocketmentor_wins", []byte(`[{"id":"w1"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := PutEntry(ctx, db, "u2", "rocketmentor_wins", []byte(`[]`)); err != nil {
		t.Fatalf("other scope: %v", err)
	}

	e, err := GetEntry(ctx, db, "u1", "rocketmentor_wins")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(e.Value) != `[{"id":"w1"}]` {
		t.Fatalf("value = %s", e.Value)
	}

	var n int64
	db.Model(&domain.StorageEntry{}).Where("scope = ?", "u1").Count(&n)
	if n != 1 {
		t.Fatalf("rows for u1 = %d, want 1", n)
	}
}

func TestGetEntry_Missing(t *testing.T) {
	db := newTestDB(t, &domain.StorageEntry{})
	if _, err := GetEntry(context.Background(), db, "u1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListKeys_PrefixIsLiteral(t *testing.T) {
	db := newTestDB(t, &domain.StorageEntry{})
	ctx := context.Background()
	for _, k := range []string{"rocketmentor_wins", "rocketmentor_user", "rocketmentorXuser", "other"} {
		if err := PutEntry(ctx, db, "u1", k, []byte("1")); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	keys, err := ListKeys(ctx, db, "u1", "rocketmentor_")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"rocketmentor_user", "rocketmentor_wins"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
}

func TestDeleteEntryAndScope(t *testing.T) {
	db := newTestDB(t, &domain.StorageEntry{})
	ctx := context.Background()
	_ = PutEntry(ctx, db, "u1", "a", []byte("1"))
	_ = PutEntry(ctx, db, "u1", "b", []byte("1"))
	_ = PutEntry(ctx, db, "u2", "a", []byte("1"))

	if err := DeleteEntry(ctx, db, "u1", "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := DeleteEntry(ctx, db, "u1", "missing"); err != nil {
		t.Fatalf("delete missing should be a no-op: %v", err)
	}
	n, err := DeleteScope(ctx, db, "u1")
	if err != nil || n != 1 {
		t.Fatalf("DeleteScope = %d, %v", n, err)
	}
	if _, err := GetEntry(ctx, db, "u2", "a"); err != nil {
		t.Fatalf("u2 entry should survive: %v", err)
	}
}

func TestScopedStorage(t *testing.T) {
	db := newTestDB(t, &domain.StorageEntry{})
	ctx := context.Background()
	s1 := NewScopedStorage(db, "u1")
	s2 := NewScopedStorage(db, "u2")

	if _, ok, err := s1.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := s1.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := s2.Get(ctx, "k"); ok {
		t.Fatalf("scopes must be isolated")
	}
	v, ok, err := s1.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v1" {
		t.Fatalf("get = %q %v %v", v, ok, err)
	}
	if err := s1.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s1.Get(ctx, "k"); ok {
		t.Fatalf("key should be gone")
	}
	if s1.Scope() != "u1" {
		t.Fatalf("scope = %q", s1.Scope())
	}
}
