package types

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// RefSize is the length in bytes of a Ref: a 32-byte txid followed by a
// 4-byte little-endian output index.
const RefSize = HashSize + 4

// Ref is the 36-byte identity of a UTXO: txid ‖ vout-u32-LE. Every Glyph
// token and every swap order is keyed by a Ref.
type Ref [RefSize]byte

// NewRef builds a Ref from a txid and output index.
func NewRef(txid Hash, vout uint32) Ref {
	var r Ref
	copy(r[:HashSize], txid[:])
	binary.LittleEndian.PutUint32(r[HashSize:], vout)
	return r
}

// RefFromBytes copies a 36-byte slice into a Ref.
func RefFromBytes(b []byte) (Ref, error) {
	var r Ref
	if len(b) != RefSize {
		return r, fmt.Errorf("ref must be %d bytes, got %d", RefSize, len(b))
	}
	copy(r[:], b)
	return r, nil
}

// TxID returns the txid component.
func (r Ref) TxID() Hash {
	var h Hash
	copy(h[:], r[:HashSize])
	return h
}

// Vout returns the output-index component.
func (r Ref) Vout() uint32 {
	return binary.LittleEndian.Uint32(r[HashSize:])
}

// Bytes returns a copy of the ref as a byte slice.
func (r Ref) Bytes() []byte {
	b := make([]byte, RefSize)
	copy(b, r[:])
	return b
}

// IsZero reports whether the ref is the all-zero value.
func (r Ref) IsZero() bool {
	return r == Ref{}
}

// String formats the ref as hex(txid)_<vout>, per core spec §3.
func (r Ref) String() string {
	txid := r.TxID()
	return hex.EncodeToString(txid[:]) + "_" + strconv.FormatUint(uint64(r.Vout()), 10)
}

// MarshalJSON encodes the ref in its "hex(txid)_<vout>" external form.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a "hex(txid)_<vout>" string into a ref.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRefString(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRefString parses the "hex(txid)_<vout>" external ref format.
func ParseRefString(s string) (Ref, error) {
	var underscore = -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '_' {
			underscore = i
			break
		}
	}
	if underscore < 0 {
		return Ref{}, fmt.Errorf("invalid ref %q: missing '_'", s)
	}
	txidHex, voutStr := s[:underscore], s[underscore+1:]
	txidBytes, err := hex.DecodeString(txidHex)
	if err != nil || len(txidBytes) != HashSize {
		return Ref{}, fmt.Errorf("invalid ref %q: bad txid", s)
	}
	vout, err := strconv.ParseUint(voutStr, 10, 32)
	if err != nil {
		return Ref{}, fmt.Errorf("invalid ref %q: bad vout", s)
	}
	var txid Hash
	copy(txid[:], txidBytes)
	return NewRef(txid, uint32(vout)), nil
}
