package storage

import (
	"bytes"
	"testing"
)

func testBatch(t *testing.T, db DB) {
	t.Helper()
	batcher, ok := db.(Batcher)
	if !ok {
		t.Fatalf("%T does not implement Batcher", db)
	}

	db.Put([]byte("keep"), []byte("v0"))
	db.Put([]byte("gone"), []byte("v0"))

	b := batcher.NewBatch()
	if err := b.Put([]byte("keep"), []byte("v1")); err != nil {
		t.Fatalf("batch put: %v", err)
	}
	if err := b.Delete([]byte("gone")); err != nil {
		t.Fatalf("batch delete: %v", err)
	}
	if err := b.Put([]byte("new"), []byte("v1")); err != nil {
		t.Fatalf("batch put new: %v", err)
	}

	// Nothing should be visible until Commit.
	if v, _ := db.Get([]byte("keep")); !bytes.Equal(v, []byte("v0")) {
		t.Fatalf("pre-commit Get(keep) = %q, want v0", v)
	}
	if ok, _ := db.Has([]byte("new")); ok {
		t.Fatalf("pre-commit Has(new) = true, want false")
	}

	if err := b.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if v, err := db.Get([]byte("keep")); err != nil || !bytes.Equal(v, []byte("v1")) {
		t.Fatalf("post-commit Get(keep) = %q, %v, want v1", v, err)
	}
	if ok, _ := db.Has([]byte("gone")); ok {
		t.Fatalf("post-commit Has(gone) = true, want false")
	}
	if v, err := db.Get([]byte("new")); err != nil || !bytes.Equal(v, []byte("v1")) {
		t.Fatalf("post-commit Get(new) = %q, %v, want v1", v, err)
	}
}

func TestMemoryDBBatch(t *testing.T) {
	db := NewMemory()
	defer db.Close()
	testBatch(t, db)
}

func TestBadgerDBBatch(t *testing.T) {
	dir := t.TempDir()
	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer db.Close()
	testBatch(t, db)
}

func TestPrefixDBBatchIsolatesNamespace(t *testing.T) {
	inner := NewMemory()
	dbA := NewPrefixDB(inner, []byte("a/"))
	dbB := NewPrefixDB(inner, []byte("b/"))
	dbB.Put([]byte("key"), []byte("fromB"))

	b := dbA.NewBatch()
	b.Put([]byte("key"), []byte("fromA"))
	if err := b.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	gotA, _ := dbA.Get([]byte("key"))
	gotB, _ := dbB.Get([]byte("key"))
	if string(gotA) != "fromA" {
		t.Fatalf("A.Get = %q, want fromA", gotA)
	}
	if string(gotB) != "fromB" {
		t.Fatalf("B.Get = %q, want fromB (must be unaffected by A's batch)", gotB)
	}
}
