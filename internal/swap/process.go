package swap

import (
	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

// ProcessTx scans every OP_RETURN output of tx for an RSWP advertisement and
// caches any order found (core spec §4.3's Detection rule).
func (s *Store) ProcessTx(tx *types.Tx, height uint32, txIdx uint16) {
	txHash := tx.Hash.Bytes()
	for vout, out := range tx.Outputs {
		if len(out.Script) == 0 || out.Script[0] != script.OpReturn {
			continue
		}
		order := ParseAdvertisement(out.Script, txHash, uint32(vout), height)
		if order == nil {
			continue
		}
		k := string(order.OrderID)
		s.orderCache[k] = order
		s.orderHeight[k] = height
	}
}
