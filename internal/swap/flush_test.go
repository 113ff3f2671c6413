package swap

import (
	"bytes"
	"testing"

	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

func fakeHash(b byte) types.Hash {
	var h types.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func TestProcessTxAndFlushPersistsOrder(t *testing.T) {
	db := storage.NewMemory()
	s := NewStore(db)

	tokenID := bytes.Repeat([]byte{0x01}, 32)
	utxoHash := bytes.Repeat([]byte{0x02}, 32)
	out := buildV1Script(tokenID, utxoHash, 1)

	tx := &types.Tx{
		Hash:    fakeHash(0xaa),
		Outputs: []types.TxOutput{{Script: out, Value: 0}},
	}
	s.ProcessTx(tx, 100, 0)

	if len(s.orderCache) != 1 {
		t.Fatalf("want 1 cached order, got %d", len(s.orderCache))
	}

	batch := db.NewBatch()
	if err := s.Flush(batch, 100, 6); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	orderID := ParseAdvertisement(out, tx.Hash.Bytes(), 0, 100).OrderID

	data, err := db.Get(orderKey(orderID))
	if err != nil || data == nil {
		t.Fatalf("want order persisted, err=%v", err)
	}

	s2 := NewStore(db)
	order, ok := s2.GetOrder(orderID)
	if !ok {
		t.Fatalf("want order retrievable after flush")
	}
	if order.Side != SideSell {
		t.Fatalf("unexpected side: %d", order.Side)
	}
}

func TestOrderbookPriceOrdering(t *testing.T) {
	db := storage.NewMemory()
	s := NewStore(db)

	baseRef := bytes.Repeat([]byte{0x10}, 36)
	quoteRef := bytes.Repeat([]byte{0x20}, 36)

	cheap := &Order{OrderID: bytes.Repeat([]byte{0x01}, 36), BaseRef: baseRef, QuoteRef: quoteRef, Side: SideSell, Price: 10, Status: StatusOpen}
	expensive := &Order{OrderID: bytes.Repeat([]byte{0x02}, 36), BaseRef: baseRef, QuoteRef: quoteRef, Side: SideSell, Price: 90, Status: StatusOpen}

	s.orderCache[string(cheap.OrderID)] = cheap
	s.orderHeight[string(cheap.OrderID)] = 1
	s.orderCache[string(expensive.OrderID)] = expensive
	s.orderHeight[string(expensive.OrderID)] = 1

	batch := db.NewBatch()
	if err := s.Flush(batch, 1, 6); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	s2 := NewStore(db)
	sell := SideSell
	book, err := s2.GetOrderbook(baseRef, quoteRef, &sell, 0)
	if err != nil {
		t.Fatalf("GetOrderbook: %v", err)
	}
	if len(book.Asks) != 2 {
		t.Fatalf("want 2 asks, got %d", len(book.Asks))
	}
	if !(book.Asks[0].Price <= book.Asks[1].Price) {
		t.Fatalf("want ascending price for asks, got %v", []uint64{book.Asks[0].Price, book.Asks[1].Price})
	}
}

func TestBackupRevertsSwapFlush(t *testing.T) {
	db := storage.NewMemory()
	s := NewStore(db)
	tokenID := bytes.Repeat([]byte{0x05}, 32)
	utxoHash := bytes.Repeat([]byte{0x06}, 32)
	out := buildV1Script(tokenID, utxoHash, 0)

	tx := &types.Tx{Hash: fakeHash(0xbb), Outputs: []types.TxOutput{{Script: out}}}
	s.ProcessTx(tx, 55, 0)

	order := ParseAdvertisement(out, tx.Hash.Bytes(), 0, 55)

	batch := db.NewBatch()
	if err := s.Flush(batch, 55, 6); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := db.Has(orderKey(order.OrderID)); !ok {
		t.Fatalf("want order key present before backup")
	}

	backupBatch := db.NewBatch()
	if err := s.Backup(backupBatch, 55); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := backupBatch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := db.Has(orderKey(order.OrderID)); ok {
		t.Fatalf("want order key reverted after backup")
	}
}
