// Package indexer wires the Glyph, Swap, and WAVE indexes, the Mempool
// Shadow, and the dMint Contracts Manager into one aggregate that a host
// block processor holds and drives (core spec §2's pipeline, SPEC_FULL.md
// §4.11), grounded on the teacher's internal/node.Node aggregate-struct
// pattern.
package indexer

import (
	"fmt"

	"github.com/radiant-labs/rxindexer/config"
	"github.com/radiant-labs/rxindexer/internal/dmint"
	"github.com/radiant-labs/rxindexer/internal/glyph"
	klog "github.com/radiant-labs/rxindexer/internal/log"
	"github.com/radiant-labs/rxindexer/internal/mempoolshadow"
	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/internal/subscription"
	"github.com/radiant-labs/rxindexer/internal/swap"
	"github.com/radiant-labs/rxindexer/internal/wave"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

// Indexer is the top-level aggregate. One instance owns every subsystem's
// in-memory caches over a single shared storage.DB (the indexes use
// disjoint key prefixes, see each package's keys.go, so they can safely
// share one keyspace without a PrefixDB per store).
type Indexer struct {
	cfg *config.Config
	db  storage.DB

	Glyph   *glyph.Store
	Swap    *swap.Store
	Wave    *wave.Store
	Mempool *mempoolshadow.Shadow
	DMint   *dmint.Manager
	Subs    *subscription.Registry
}

// New builds an Indexer over db using cfg. A missing or malformed WAVE
// genesis ref degrades WAVE indexing to a no-op (the WAVE store gets no
// genesis ref, so no top-level name registers and no parent ever resolves;
// queries still run) rather than failing startup, per core spec §7.6.
func New(cfg *config.Config, db storage.DB) (*Indexer, error) {
	logger := klog.Indexer

	var waveGenesis []byte
	genesisRef, err := resolveWaveGenesis(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("wave genesis ref unavailable, WAVE indexing degraded to no-op")
	} else {
		waveGenesis = genesisRef.Bytes()
	}

	idx := &Indexer{
		cfg:     cfg,
		db:      db,
		Glyph:   glyph.NewStore(db),
		Swap:    swap.NewStore(db),
		Wave:    wave.NewStore(db, waveGenesis),
		Mempool: mempoolshadow.New(),
		DMint:   dmint.NewManager(cfg.DMintDir()),
		Subs:    subscription.New(),
	}

	logger.Info().
		Str("datadir", cfg.DataDir).
		Uint32("reorg_window", cfg.ReorgWindow).
		Bool("wave_enabled", cfg.HasWaveGenesis()).
		Msg("indexer aggregate ready")

	return idx, nil
}

func resolveWaveGenesis(cfg *config.Config) (types.Ref, error) {
	if !cfg.HasWaveGenesis() {
		return types.Ref{}, fmt.Errorf("wave.genesis_ref not configured")
	}
	return cfg.WaveGenesisRef()
}

// ProcessTx runs one confirmed transaction through the §2 pipeline in
// order: Glyph classifies outputs and surfaces any reveal envelope; WAVE
// consumes that envelope for name claims (needs output 0's scripthash,
// resolved by the caller — this core never derives scripthashes from
// scripts itself, see pkg/types.Tx's doc comment); Swap scans for RSWP
// advertisements independently of the envelope.
//
// outputScripthashes must align 1:1 with tx.Outputs; a nil or short slice
// disables WAVE's owner-scripthash attribution for this tx but does not
// block Glyph/Swap indexing.
func (idx *Indexer) ProcessTx(tx *types.Tx, height uint32, txIdx uint16, outputScripthashes [][]byte) {
	env := idx.Glyph.ProcessTx(tx, height, txIdx)

	var owner []byte
	if len(outputScripthashes) > 0 {
		owner = outputScripthashes[0]
	}
	idx.Wave.ProcessTx(tx, height, txIdx, env, owner)

	idx.Swap.ProcessTx(tx, height, txIdx)
}

// ProcessMempoolTx mirrors an unconfirmed transaction into the Mempool
// Shadow, independent of the confirmed-chain pipeline above.
func (idx *Indexer) ProcessMempoolTx(tx *types.Tx, outputScripthashes [][]byte) (foundGlyph, foundSwap bool) {
	return idx.Mempool.ProcessTx(tx, outputScripthashes)
}

// Flush commits one height's worth of buffered writes across the Glyph,
// Swap, and WAVE indexes to a single atomic batch. It does not touch the
// dMint Contracts Manager, a derived view outside the write path's undo
// log: call SyncDerivedViews once the batch has committed. Order matches
// ProcessTx's pipeline order.
func (idx *Indexer) Flush(batch storage.Batch, height uint32) error {
	if err := idx.Glyph.Flush(batch, height, idx.cfg.ReorgWindow); err != nil {
		return fmt.Errorf("flush glyph index: %w", err)
	}
	if err := idx.Wave.Flush(batch, height, idx.cfg.ReorgWindow); err != nil {
		return fmt.Errorf("flush wave index: %w", err)
	}
	if err := idx.Swap.Flush(batch, height, idx.cfg.ReorgWindow); err != nil {
		return fmt.Errorf("flush swap index: %w", err)
	}
	return nil
}

// Backup restores all three indexes to their state immediately before
// height, replaying each index's undo log in the reverse of Flush's order
// (core spec §4.6's reorg-safe write path).
func (idx *Indexer) Backup(batch storage.Batch, height uint32) error {
	if err := idx.Swap.Backup(batch, height); err != nil {
		return fmt.Errorf("backup swap index: %w", err)
	}
	if err := idx.Wave.Backup(batch, height); err != nil {
		return fmt.Errorf("backup wave index: %w", err)
	}
	if err := idx.Glyph.Backup(batch, height); err != nil {
		return fmt.Errorf("backup glyph index: %w", err)
	}
	return nil
}

// SyncDerivedViews refreshes the dMint Contracts Manager from the Glyph
// index's current DMINT-type tokens. Call after Flush commits, not per-tx:
// the manager persists its own JSON snapshot and need not track every
// intra-block mutation (core spec §4.8).
func (idx *Indexer) SyncDerivedViews(height uint32) int {
	return dmint.SyncFromIndex(idx.DMint, idx.Glyph, height, 0)
}
