package glyph

import (
	"bytes"
	"testing"

	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

func TestFlushPersistsTokenAndBalance(t *testing.T) {
	db := storage.NewMemory()
	s := NewStore(db)
	ref := fakeRef(0x10)
	scripthash := bytes.Repeat([]byte{0x55}, 32)

	outScript := append([]byte{script.OpPushInputRef}, ref...)
	tx := &types.Tx{Hash: fakeHash(0x01), Outputs: []types.TxOutput{{Script: outScript, Value: 10}}}
	s.ProcessTx(tx, 100, 0)
	s.UpdateBalance(100, scripthash, ref, 42)

	batch := db.NewBatch()
	if err := s.Flush(batch, 100, 6); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := db.Get(tokenKey(ref)); err != nil {
		t.Fatalf("want token key persisted: %v", err)
	}
	data, err := db.Get(balanceKey(scripthash, ref))
	if err != nil {
		t.Fatalf("want balance key persisted: %v", err)
	}
	if len(data) != 8 {
		t.Fatalf("want 8-byte balance value, got %d", len(data))
	}
	if _, err := db.Get(holderKey(ref, scripthash)); err != nil {
		t.Fatalf("want holder key persisted: %v", err)
	}
}

func TestBackupRevertsFlushedHeight(t *testing.T) {
	db := storage.NewMemory()
	s := NewStore(db)
	ref := fakeRef(0x11)

	outScript := append([]byte{script.OpPushInputRef}, ref...)
	tx := &types.Tx{Hash: fakeHash(0x02), Outputs: []types.TxOutput{{Script: outScript, Value: 10}}}
	s.ProcessTx(tx, 50, 0)

	batch := db.NewBatch()
	if err := s.Flush(batch, 50, 6); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := db.Has(tokenKey(ref)); !ok {
		t.Fatalf("want token key present after flush")
	}

	backupBatch := db.NewBatch()
	if err := s.Backup(backupBatch, 50); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := backupBatch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := db.Has(tokenKey(ref)); ok {
		t.Fatalf("want token key reverted after backup")
	}
}
