package script

import "encoding/binary"

// Chunk is one decoded element of a script walk: either a pushed data blob
// or a bare non-push opcode (OpReturn, an unrecognized opcode, etc).
type Chunk struct {
	Opcode byte
	Data   []byte // nil for bare opcodes that push nothing
}

// Walk consumes script left-to-right and returns every decoded chunk.
// Truncated pushes terminate the walk without error — the caller sees the
// chunks decoded so far. This mirrors original_source's
// mempool_glyph.py:_parse_script_chunks and glyph_index.py's
// _extract_refs_from_script opcode stepping, generalized into one walker
// both ref-scanning and chunk-parsing build on.
func Walk(s []byte) []Chunk {
	var chunks []Chunk
	pos := 0
	for pos < len(s) {
		op := s[pos]
		pos++

		switch {
		case op == OpFalse:
			chunks = append(chunks, Chunk{Opcode: op, Data: []byte{}})

		case IsDirectPush(op):
			n := int(op)
			if pos+n > len(s) {
				return chunks
			}
			chunks = append(chunks, Chunk{Opcode: op, Data: s[pos : pos+n]})
			pos += n

		case op == OpPushData1:
			if pos+1 > len(s) {
				return chunks
			}
			n := int(s[pos])
			pos++
			if pos+n > len(s) {
				return chunks
			}
			chunks = append(chunks, Chunk{Opcode: op, Data: s[pos : pos+n]})
			pos += n

		case op == OpPushData2:
			if pos+2 > len(s) {
				return chunks
			}
			n := int(binary.LittleEndian.Uint16(s[pos : pos+2]))
			pos += 2
			if pos+n > len(s) {
				return chunks
			}
			chunks = append(chunks, Chunk{Opcode: op, Data: s[pos : pos+n]})
			pos += n

		case op == OpPushData4:
			if pos+4 > len(s) {
				return chunks
			}
			n := int(binary.LittleEndian.Uint32(s[pos : pos+4]))
			pos += 4
			if pos+n > len(s) || n < 0 {
				return chunks
			}
			chunks = append(chunks, Chunk{Opcode: op, Data: s[pos : pos+n]})
			pos += n

		case IsSmallInt(op):
			chunks = append(chunks, Chunk{Opcode: op, Data: []byte{op - 0x50}})

		case isRefOpcode(op):
			if pos+RefSize > len(s) {
				return chunks
			}
			chunks = append(chunks, Chunk{Opcode: op, Data: s[pos : pos+RefSize]})
			pos += RefSize

		default:
			chunks = append(chunks, Chunk{Opcode: op})
		}
	}
	return chunks
}

// RefKind classifies a ref extracted from a script.
type RefKind int

const (
	RefFT RefKind = iota
	RefNFT
)

// ExtractedRef pairs a 36-byte ref with the opcode that introduced it.
type ExtractedRef struct {
	Ref  []byte
	Kind RefKind
}

// ExtractRefs walks an output script and returns every (ref, kind) pair
// found via the ref-bearing opcodes 0xd0 (FT) / 0xd8 (NFT); 0xd1-0xd3 refs
// are skipped (present in the stream but not returned), matching core spec
// §4.1's ref-opcode scan. Duplicates within a script are preserved in order.
func ExtractRefs(s []byte) []ExtractedRef {
	var out []ExtractedRef
	pos := 0
	for pos < len(s) {
		op := s[pos]
		pos++
		switch {
		case op == OpPushInputRef || op == OpPushInputRefSingleton:
			if pos+RefSize > len(s) {
				return out
			}
			ref := make([]byte, RefSize)
			copy(ref, s[pos:pos+RefSize])
			kind := RefFT
			if op == OpPushInputRefSingleton {
				kind = RefNFT
			}
			out = append(out, ExtractedRef{Ref: ref, Kind: kind})
			pos += RefSize

		case op == OpRefOther1 || op == OpRefOther2 || op == OpRefOther3:
			if pos+RefSize > len(s) {
				return out
			}
			pos += RefSize

		case op == OpFalse:
			// no-op, pushes empty

		case IsDirectPush(op):
			n := int(op)
			if pos+n > len(s) {
				return out
			}
			pos += n

		case op == OpPushData1:
			if pos+1 > len(s) {
				return out
			}
			n := int(s[pos])
			pos++
			if pos+n > len(s) {
				return out
			}
			pos += n

		case op == OpPushData2:
			if pos+2 > len(s) {
				return out
			}
			n := int(binary.LittleEndian.Uint16(s[pos : pos+2]))
			pos += 2
			if pos+n > len(s) {
				return out
			}
			pos += n

		case op == OpPushData4:
			if pos+4 > len(s) {
				return out
			}
			n := int(binary.LittleEndian.Uint32(s[pos : pos+4]))
			pos += 4
			if pos+n > len(s) {
				return out
			}
			pos += n

		default:
			// bare opcode (including OP_RETURN, small-ints): nothing to skip
		}
	}
	return out
}

// ScriptInt decodes a Bitcoin-style script integer: empty = 0, 1 byte =
// unsigned byte, 2 bytes = u16-LE, 3-4 bytes = zero-extended u32-LE.
func ScriptInt(b []byte) uint32 {
	switch {
	case len(b) == 0:
		return 0
	case len(b) == 1:
		return uint32(b[0])
	case len(b) == 2:
		return uint32(binary.LittleEndian.Uint16(b))
	case len(b) <= 4:
		buf := make([]byte, 4)
		copy(buf, b)
		return binary.LittleEndian.Uint32(buf)
	default:
		return 0
	}
}
