package glyph

import (
	"bytes"
	"testing"

	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

func flushedStore(t *testing.T) (*Store, storage.DB, []byte) {
	t.Helper()
	db := storage.NewMemory()
	s := NewStore(db)
	ref := fakeRef(0x20)
	revealScript := buildReveal(t, 2, map[string]interface{}{
		"p": []interface{}{uint64(1)},
		"n": "Query Token",
		"tk": "QRY",
	})
	outScript := append([]byte{script.OpPushInputRef}, ref...)
	tx := &types.Tx{
		Hash:    fakeHash(0x30),
		Inputs:  []types.TxInput{{Script: revealScript, PrevTxID: fakeHash(0x31), PrevVout: 0}},
		Outputs: []types.TxOutput{{Script: outScript, Value: 777}},
	}
	s.ProcessTx(tx, 500, 2)

	batch := db.NewBatch()
	if err := s.Flush(batch, 500, 6); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return NewStore(db), db, ref
}

func TestGetTokenAfterFlush(t *testing.T) {
	s, _, ref := flushedStore(t)
	rec, ok := s.GetToken(ref)
	if !ok {
		t.Fatalf("want token present after flush")
	}
	if rec.Name != "Query Token" || rec.Ticker != "QRY" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestGetTokensByType(t *testing.T) {
	s, _, ref := flushedStore(t)
	refs, err := s.GetTokensByType(script.TokenTypeFT, 0)
	if err != nil {
		t.Fatalf("GetTokensByType: %v", err)
	}
	found := false
	for _, r := range refs {
		if bytes.Equal(r, ref) {
			found = true
		}
	}
	if !found {
		t.Fatalf("want ref in FT type index, got %v", refs)
	}
}

func TestSearchTokensMatchesNameAndTicker(t *testing.T) {
	s, _, _ := flushedStore(t)
	byName, err := s.SearchTokens("query", 0)
	if err != nil || len(byName) != 1 {
		t.Fatalf("SearchTokens(name) = %v, err=%v", byName, err)
	}
	byTicker, err := s.SearchTokens("qry", 0)
	if err != nil || len(byTicker) != 1 {
		t.Fatalf("SearchTokens(ticker) = %v, err=%v", byTicker, err)
	}
}

func TestGetStatsCountsByType(t *testing.T) {
	s, _, _ := flushedStore(t)
	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalTokens != 1 || stats.FTCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestGetAllTokensSummary(t *testing.T) {
	s, _, ref := flushedStore(t)
	summaries, err := s.GetAllTokensSummary(0)
	if err != nil || len(summaries) != 1 {
		t.Fatalf("GetAllTokensSummary = %v, err=%v", summaries, err)
	}
	if !bytes.Equal(summaries[0].Ref, ref) {
		t.Fatalf("unexpected summary ref: %x", summaries[0].Ref)
	}
}

func TestGetTokenHistoryOrdering(t *testing.T) {
	s, _, ref := flushedStore(t)
	events, err := s.GetTokenHistory(ref, 0)
	if err != nil {
		t.Fatalf("GetTokenHistory: %v", err)
	}
	if len(events) == 0 {
		t.Fatalf("want at least one history event")
	}
	if events[0].Height != 500 {
		t.Fatalf("want height 500, got %d", events[0].Height)
	}
}

func TestGetMetadataResolvesByHash(t *testing.T) {
	s, _, ref := flushedStore(t)
	rec, ok := s.GetToken(ref)
	if !ok || rec.MetadataHash == nil {
		t.Fatalf("want token with metadata hash, got %+v ok=%v", rec, ok)
	}
	blob, ok := s.GetMetadata(rec.MetadataHash)
	if !ok || len(blob) == 0 {
		t.Fatalf("want metadata blob resolvable, ok=%v", ok)
	}
}
