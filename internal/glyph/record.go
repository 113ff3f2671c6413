package glyph

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/radiant-labs/rxindexer/internal/script"
)

// TokenRecord is the indexed view of one Glyph token, CBOR-encoded with the
// original's short field keys (core spec §4.2, extended per SPEC_FULL.md §3
// with icon/embedded/daa_mode fields carried from glyph.py's full record).
type TokenRecord struct {
	Ref          []byte              `cbor:"ref,omitempty"`
	Protocols    []script.Protocol   `cbor:"p,omitempty"`
	TokenType    script.TokenTypeTag `cbor:"tt,omitempty"`
	GlyphVersion uint8               `cbor:"gv,omitempty"`
	Name         string              `cbor:"n,omitempty"`
	Ticker       string              `cbor:"tk,omitempty"`
	Decimals     uint8               `cbor:"dc,omitempty"`
	Description  string              `cbor:"ds,omitempty"`
	Author       string              `cbor:"au,omitempty"`
	License      string              `cbor:"li,omitempty"`

	DeployHeight  uint32 `cbor:"dh,omitempty"`
	DeployTxID    []byte `cbor:"dt,omitempty"`
	MetadataHash  []byte `cbor:"mh,omitempty"`
	IsSpent       bool   `cbor:"sp,omitempty"`

	TotalSupply   uint64 `cbor:"ts,omitempty"`
	CurrentSupply uint64 `cbor:"cs,omitempty"`
	Premine       uint64 `cbor:"pm,omitempty"`
	MinedSupply   uint64 `cbor:"ms,omitempty"`

	// Supplemented: icon + embedded-data descriptors (SPEC_FULL.md §3).
	IconRef       []byte `cbor:"ir,omitempty"`
	IconType      string `cbor:"it,omitempty"`
	IconSize      uint32 `cbor:"is,omitempty"`
	EmbeddedHash  []byte `cbor:"ed,omitempty"`

	// dMint fields.
	ContractRef      []byte `cbor:"cr,omitempty"`
	Algorithm        uint8  `cbor:"al,omitempty"`
	StartDifficulty  uint64 `cbor:"sd,omitempty"`
	CurrentDifficulty uint64 `cbor:"cd,omitempty"`
	Reward           uint64 `cbor:"rw,omitempty"`
	HalvingInterval  uint32 `cbor:"hi,omitempty"`
	DaaMode          uint8  `cbor:"da,omitempty"`
	MintCount        uint32 `cbor:"mc,omitempty"`

	ContainerRef  []byte `cbor:"co,omitempty"`
	AuthorityRef  []byte `cbor:"ar,omitempty"`
	ParentRef     []byte `cbor:"pr,omitempty"`

	Attrs string `cbor:"at,omitempty"`
}

// ToBytes CBOR-encodes the record, omitting zero/empty fields per the
// original's "data = {k:v for ... if v}" trimming.
func (t *TokenRecord) ToBytes() ([]byte, error) {
	return cbor.Marshal(t)
}

// RecordFromBytes decodes a CBOR-encoded token record.
func RecordFromBytes(data []byte) (*TokenRecord, error) {
	var t TokenRecord
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PercentMined mirrors glyph_index.py's percent_mined helper.
func (t *TokenRecord) PercentMined() float64 {
	if t.TotalSupply == 0 {
		return 0
	}
	return float64(t.MinedSupply) / float64(t.TotalSupply) * 100
}

// HasProtocol reports whether p is present in the record's protocol list.
func (t *TokenRecord) HasProtocol(p script.Protocol) bool {
	for _, q := range t.Protocols {
		if q == p {
			return true
		}
	}
	return false
}
