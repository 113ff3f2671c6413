package mempoolshadow

import (
	"github.com/radiant-labs/rxindexer/internal/log"
	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/internal/swap"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

// ProcessTx scans the output scripts of unconfirmed tx for Glyph reveal
// envelopes and RSWP advertisements, writing only to in-memory maps (core
// spec §4.5); input scripts are not scanned. outputScripthashes[i] is the
// scripthash of tx.Outputs[i], resolved by the host block processor — this
// shadow never derives scripthashes from scripts itself, matching every
// other index in this core. Returns whether Glyph and/or Swap content was
// found.
func (s *Shadow) ProcessTx(tx *types.Tx, outputScripthashes [][]byte) (foundGlyph, foundSwap bool) {
	foundGlyph = s.processGlyph(tx, outputScripthashes)
	foundSwap = s.processSwap(tx)
	return
}

func (s *Shadow) processGlyph(tx *types.Tx, outputScripthashes [][]byte) bool {
	found := false

	for i, out := range tx.Outputs {
		if !script.ContainsGlyphMagic(out.Script) {
			continue
		}
		env, err := script.ParseEnvelope(out.Script)
		if err != nil || !env.IsReveal() {
			continue
		}

		protocols := env.Protocols()
		if env.HasProtocol(script.ProtocolDMINT) {
			log.Mempool.Debug().Str("tx", tx.Hash.String()).Msg("skipping dmint reveal in mempool")
			continue
		}
		if env.HasProtocol(script.ProtocolWAVE) {
			log.Mempool.Debug().Str("tx", tx.Hash.String()).Msg("skipping wave claim in mempool")
			continue
		}

		glyphTx := &GlyphTx{
			TxHash:    tx.Hash.Bytes(),
			TokenType: script.DeriveTokenType(protocols),
			EventType: EventTransfer,
			Amount:    1,
		}

		refs := script.ExtractRefs(out.Script)
		if len(refs) > 0 {
			glyphTx.Ref = refs[0].Ref
		}
		if i < len(outputScripthashes) {
			glyphTx.ToScripthash = outputScripthashes[i]
		}

		s.glyphTxs[string(glyphTx.TxHash)] = glyphTx

		if glyphTx.Ref != nil {
			addToSet(s.glyphByRef, string(glyphTx.Ref), string(glyphTx.TxHash))
			s.touchedRefs[string(glyphTx.Ref)] = struct{}{}
		}
		if glyphTx.ToScripthash != nil {
			addToSet(s.glyphByScripthash, string(glyphTx.ToScripthash), string(glyphTx.TxHash))
			s.touchedScripthashes[string(glyphTx.ToScripthash)] = struct{}{}
		}

		found = true
	}

	return found
}

func (s *Shadow) processSwap(tx *types.Tx) bool {
	found := false

	for i, out := range tx.Outputs {
		if len(out.Script) == 0 || out.Script[0] != script.OpReturn {
			continue
		}
		order := swap.ParseAdvertisement(out.Script, tx.Hash.Bytes(), uint32(i), 0)
		if order == nil {
			continue
		}

		s.swapOrders[string(order.OrderID)] = order
		s.orderIDByTx[string(tx.Hash.Bytes())] = order.OrderID

		if len(order.BaseRef) > 0 {
			key := pairKey(order.BaseRef, order.QuoteRef)
			addToSet(s.swapByPair, key, string(order.OrderID))
		}
		if len(order.MakerScripthash) > 0 {
			addToSet(s.swapByMaker, string(order.MakerScripthash), string(order.OrderID))
		}

		log.Mempool.Debug().Str("tx", tx.Hash.String()).Msg("indexed mempool swap order")
		found = true
	}

	return found
}

// RemoveTx removes tx_hash from every in-memory map (confirmed or evicted),
// collecting touched keys along the way.
func (s *Shadow) RemoveTx(txHash []byte) {
	key := string(txHash)

	if glyphTx, ok := s.glyphTxs[key]; ok {
		delete(s.glyphTxs, key)
		if glyphTx.Ref != nil {
			removeFromSet(s.glyphByRef, string(glyphTx.Ref), key)
			s.touchedRefs[string(glyphTx.Ref)] = struct{}{}
		}
		if glyphTx.ToScripthash != nil {
			removeFromSet(s.glyphByScripthash, string(glyphTx.ToScripthash), key)
			s.touchedScripthashes[string(glyphTx.ToScripthash)] = struct{}{}
		}
		if glyphTx.FromScripthash != nil {
			removeFromSet(s.glyphByScripthash, string(glyphTx.FromScripthash), key)
			s.touchedScripthashes[string(glyphTx.FromScripthash)] = struct{}{}
		}
	}

	if orderID, ok := s.orderIDByTx[key]; ok {
		delete(s.orderIDByTx, key)
		if order, ok := s.swapOrders[string(orderID)]; ok {
			delete(s.swapOrders, string(orderID))
			if len(order.BaseRef) > 0 {
				removeFromSet(s.swapByPair, pairKey(order.BaseRef, order.QuoteRef), string(orderID))
			}
			if len(order.MakerScripthash) > 0 {
				removeFromSet(s.swapByMaker, string(order.MakerScripthash), string(orderID))
			}
		}
	}
}

// GetTouchedAndClear drains the touched-refs and touched-scripthashes sets
// for notification dispatch (core spec §4.5/§4.7).
func (s *Shadow) GetTouchedAndClear() (refs [][]byte, scripthashes [][]byte) {
	for ref := range s.touchedRefs {
		refs = append(refs, []byte(ref))
	}
	for sh := range s.touchedScripthashes {
		scripthashes = append(scripthashes, []byte(sh))
	}
	s.touchedRefs = make(map[string]struct{})
	s.touchedScripthashes = make(map[string]struct{})
	return
}
