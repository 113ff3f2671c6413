package swap

import (
	"encoding/binary"

	"github.com/radiant-labs/rxindexer/internal/script"
)

const flagHasWant = 0x01

// ParseAdvertisement decodes an RSWP v1/v2 order advertisement from an
// OP_RETURN output script, returning nil if the script is not an RSWP
// advertisement or is malformed (core spec §4.3's Detection rule).
func ParseAdvertisement(out []byte, txHash []byte, vout uint32, height uint32) *Order {
	if len(out) == 0 || out[0] != script.OpReturn {
		return nil
	}
	chunks := script.Walk(out)
	if len(chunks) < 3 {
		return nil
	}
	if string(chunks[1].Data) != "RSWP" {
		return nil
	}
	if len(chunks[2].Data) != 1 {
		return nil
	}
	version := chunks[2].Data[0]

	order := &Order{TxHash: txHash, Vout: vout, Height: height}
	switch version {
	case 2:
		return parseV2(chunks, order)
	case 1:
		return parseV1(chunks, order)
	default:
		return nil
	}
}

func parseV1(chunks []script.Chunk, order *Order) *Order {
	// chunks: OP_RETURN, "RSWP", version, type, tokenID, utxoHash, utxoIndex, terms, sig
	if len(chunks) < 9 {
		return nil
	}
	idx := 3
	if len(chunks[idx].Data) != 1 {
		return nil
	}
	idx++ // legacy type, unused

	if len(chunks[idx].Data) != 32 {
		return nil
	}
	tokenID := chunks[idx].Data
	idx++

	if len(chunks[idx].Data) != 32 {
		return nil
	}
	utxoHash := chunks[idx].Data
	idx++

	utxoIndex := script.ScriptInt(chunks[idx].Data)
	idx++

	// price terms (unused in v1) and signature must both be present.
	if idx+2 > len(chunks) {
		return nil
	}

	order.OrderID = buildRef(utxoHash, utxoIndex)
	order.BaseRef = buildRef(tokenID, 0)
	order.Side = SideSell
	order.Status = StatusOpen
	return order
}

func parseV2(chunks []script.Chunk, order *Order) *Order {
	// OP_RETURN(0) RSWP(1) ver(2) flags(3) offeredType(4) termsType(5) tokenID(6) [want] utxoHash utxoIndex terms... sig
	if len(chunks) < 10 {
		return nil
	}
	idx := 3

	if len(chunks[idx].Data) != 1 {
		return nil
	}
	flags := chunks[idx].Data[0]
	idx++

	if len(chunks[idx].Data) != 1 {
		return nil
	}
	offeredType := chunks[idx].Data[0]
	idx++

	if len(chunks[idx].Data) != 1 {
		return nil
	}
	termsType := chunks[idx].Data[0]
	idx++

	if len(chunks[idx].Data) != 32 {
		return nil
	}
	tokenID := chunks[idx].Data
	idx++

	var wantTokenID []byte
	if flags&flagHasWant != 0 {
		if idx >= len(chunks) || len(chunks[idx].Data) != 32 {
			return nil
		}
		wantTokenID = chunks[idx].Data
		idx++
	}

	if idx >= len(chunks) || len(chunks[idx].Data) != 32 {
		return nil
	}
	utxoHash := chunks[idx].Data
	idx++

	if idx >= len(chunks) {
		return nil
	}
	utxoIndex := script.ScriptInt(chunks[idx].Data)
	idx++

	if idx >= len(chunks) {
		return nil
	}
	remaining := chunks[idx:]
	if len(remaining) < 2 {
		return nil
	}
	priceTermChunks := remaining[:len(remaining)-1]

	order.OrderID = buildRef(utxoHash, utxoIndex)
	order.BaseRef = buildRef(tokenID, 0)
	if wantTokenID != nil {
		order.QuoteRef = buildRef(wantTokenID, 0)
	}
	if offeredType == 1 {
		order.Side = SideSell
	} else {
		order.Side = SideBuy
	}
	order.Status = StatusOpen

	parsePriceTerms(termsType, priceTermChunks, order)
	return order
}

// parsePriceTerms fills in price/amount/min_fill from the term chunks per
// core spec §4.3's termsType table.
func parsePriceTerms(termsType byte, chunks []script.Chunk, order *Order) {
	switch termsType {
	case 0:
		if len(chunks) >= 1 {
			order.Price = uint64(script.ScriptInt(chunks[0].Data))
		}
		if len(chunks) >= 2 {
			order.Amount = uint64(script.ScriptInt(chunks[1].Data))
			order.RemainingAmount = order.Amount
		}
	case 1:
		var numerator uint64 = 0
		var denominator uint64 = 1
		if len(chunks) >= 1 {
			numerator = uint64(script.ScriptInt(chunks[0].Data))
		}
		if len(chunks) >= 2 {
			denominator = uint64(script.ScriptInt(chunks[1].Data))
			if denominator == 0 {
				denominator = 1
			}
		}
		if len(chunks) >= 3 {
			order.Amount = uint64(script.ScriptInt(chunks[2].Data))
			order.RemainingAmount = order.Amount
		}
		order.Price = numerator * 100000000 / denominator
	case 2:
		if len(chunks) >= 1 {
			order.Price = uint64(script.ScriptInt(chunks[0].Data))
		}
		if len(chunks) >= 2 {
			order.Amount = uint64(script.ScriptInt(chunks[1].Data))
			order.RemainingAmount = order.Amount
		}
		if len(chunks) >= 3 {
			order.MinFill = uint64(script.ScriptInt(chunks[2].Data))
		}
	default:
		var raw []byte
		for _, c := range chunks {
			raw = append(raw, c.Data...)
		}
		if len(raw) > 0 {
			order.Price = uint64(script.ScriptInt(raw))
		}
	}
}

func buildRef(hash []byte, index uint32) []byte {
	out := make([]byte, 36)
	copy(out, hash)
	binary.LittleEndian.PutUint32(out[32:], index)
	return out
}
