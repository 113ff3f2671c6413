package undo

import (
	"bytes"
	"testing"

	"github.com/radiant-labs/rxindexer/internal/storage"
)

func TestRecordOncePerHeightPerKey(t *testing.T) {
	db := storage.NewMemory()
	db.Put([]byte("k1"), []byte("v0"))

	c := NewCache([]byte("TU"))
	if err := c.Record(db, 10, []byte("k1")); err != nil {
		t.Fatal(err)
	}
	// Mutate the underlying value after the first record — a second Record
	// call at the same height must not overwrite the captured prior value.
	db.Put([]byte("k1"), []byte("v1"))
	if err := c.Record(db, 10, []byte("k1")); err != nil {
		t.Fatal(err)
	}

	if len(c.entries[10]) != 1 {
		t.Fatalf("want 1 entry recorded, got %d", len(c.entries[10]))
	}
	if !bytes.Equal(c.entries[10][0].prior, []byte("v0")) {
		t.Fatalf("want captured prior v0, got %q", c.entries[10][0].prior)
	}
}

func TestPersistThenBackupRoundTrip(t *testing.T) {
	db := storage.NewMemory()
	db.Put([]byte("existing"), []byte("old"))

	c := NewCache([]byte("TU"))
	if err := c.Record(db, 5, []byte("existing")); err != nil {
		t.Fatal(err)
	}
	if err := c.Record(db, 5, []byte("fresh")); err != nil {
		t.Fatal(err) // absent before this height
	}

	// Apply the "writes" the caller would have made after recording.
	writeBatch := db.NewBatch()
	writeBatch.Put([]byte("existing"), []byte("new"))
	writeBatch.Put([]byte("fresh"), []byte("created"))
	if err := c.Persist(writeBatch); err != nil {
		t.Fatal(err)
	}
	if err := writeBatch.Commit(); err != nil {
		t.Fatal(err)
	}

	if v, _ := db.Get([]byte("existing")); string(v) != "new" {
		t.Fatalf("existing = %q, want new", v)
	}

	// Now unwind height 5.
	backupBatch := db.NewBatch()
	c2 := NewCache([]byte("TU"))
	if err := c2.Backup(db, backupBatch, 5); err != nil {
		t.Fatal(err)
	}
	if err := backupBatch.Commit(); err != nil {
		t.Fatal(err)
	}

	if v, err := db.Get([]byte("existing")); err != nil || string(v) != "old" {
		t.Fatalf("after backup, existing = %q, %v, want old", v, err)
	}
	if ok, _ := db.Has([]byte("fresh")); ok {
		t.Fatalf("after backup, fresh should be deleted (was absent before height 5)")
	}
	if ok, _ := db.Has([]byte("TU" + "\x00\x00\x00\x05")); ok {
		t.Fatalf("undo record itself should be deleted after backup")
	}
}

func TestPruneOldKeysForwardOnly(t *testing.T) {
	db := storage.NewMemory()
	c := NewCache([]byte("TU"))

	for h := uint32(1); h <= 5; h++ {
		c.Record(db, h, []byte("k"))
		b := db.NewBatch()
		c.Persist(b)
		b.Commit()
	}

	batch := db.NewBatch()
	if err := c.PruneOldKeys(batch, 10, 3); err != nil {
		t.Fatal(err)
	}
	batch.Commit()

	// reorgWindow=3 at height 10 keeps [8,10]; prune_to = 7, so heights 1..5
	// (all < 7) should be gone, but none of them were >7 anyway — all pruned.
	for h := uint32(1); h <= 5; h++ {
		key := c.undoKey(h)
		if ok, _ := db.Has(key); ok {
			t.Errorf("height %d undo key should be pruned", h)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	entries := []entry{
		{key: []byte("a"), had: false},
		{key: []byte("bb"), prior: []byte("value"), had: true},
		{key: []byte("ccc"), prior: []byte{}, had: true},
	}
	encoded := encode(entries)
	decoded, err := decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(entries) {
		t.Fatalf("decoded %d entries, want %d", len(decoded), len(entries))
	}
	for i, e := range entries {
		d := decoded[i]
		if !bytes.Equal(d.key, e.key) || d.had != e.had || !bytes.Equal(d.prior, e.prior) {
			t.Errorf("entry %d mismatch: got %+v, want %+v", i, d, e)
		}
	}
}
