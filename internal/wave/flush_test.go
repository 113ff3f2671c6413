package wave

import (
	"bytes"
	"testing"

	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

func TestFlushPersistsNameAndTree(t *testing.T) {
	db := storage.NewMemory()
	genesis := bytes.Repeat([]byte{0x00}, 36)
	s := NewStore(db, genesis)

	env := buildClaimReveal(t, map[string]interface{}{
		"p":    waveProtocols(),
		"name": "flushed",
	})
	tx := &types.Tx{Hash: fakeHash(0x21), Outputs: claimOutputs()}
	s.ProcessTx(tx, 50, 0, env, bytes.Repeat([]byte{0x99}, 32))
	claimRef := types.NewRef(tx.Hash, 0).Bytes()

	batch := db.NewBatch()
	if err := s.Flush(batch, 50, 6); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if data, err := db.Get(nameKey(NameToHash("flushed"))); err != nil || !bytes.Equal(data, claimRef) {
		t.Fatalf("want name key persisted, data=%x err=%v", data, err)
	}
	if data, err := db.Get(ownerKey(claimRef)); err != nil || !bytes.Equal(data, bytes.Repeat([]byte{0x99}, 32)) {
		t.Fatalf("want owner key persisted, data=%x err=%v", data, err)
	}
	firstIdx, err := CharToOutputIndex('f')
	if err != nil {
		t.Fatalf("CharToOutputIndex: %v", err)
	}
	if data, err := db.Get(treeKey(genesis, byte(firstIdx))); err != nil || !bytes.Equal(data, claimRef) {
		t.Fatalf("want first tree edge persisted, data=%x err=%v", data, err)
	}

	s2 := NewStore(db, genesis)
	res, ok := s2.Resolve("flushed")
	if !ok {
		t.Fatalf("want name resolvable after flush")
	}
	if !bytes.Equal(res.Ref, claimRef) {
		t.Fatalf("unexpected resolved ref: %x", res.Ref)
	}
}

func TestBackupRevertsWaveFlush(t *testing.T) {
	db := storage.NewMemory()
	genesis := bytes.Repeat([]byte{0x00}, 36)
	s := NewStore(db, genesis)

	env := buildClaimReveal(t, map[string]interface{}{
		"p":    waveProtocols(),
		"name": "reverted",
	})
	tx := &types.Tx{Hash: fakeHash(0x22), Outputs: claimOutputs()}
	s.ProcessTx(tx, 60, 0, env, nil)

	batch := db.NewBatch()
	if err := s.Flush(batch, 60, 6); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := db.Has(nameKey(NameToHash("reverted"))); !ok {
		t.Fatalf("want name key present before backup")
	}

	backupBatch := db.NewBatch()
	if err := s.Backup(backupBatch, 60); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := backupBatch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := db.Has(nameKey(NameToHash("reverted"))); ok {
		t.Fatalf("want name key reverted after backup")
	}
}
