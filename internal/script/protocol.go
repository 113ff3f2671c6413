package script

import "fmt"

// Protocol identifies one of the Glyph protocol flags a token record can
// carry (core spec §3's protocol set).
type Protocol uint8

const (
	ProtocolFT        Protocol = 1
	ProtocolNFT       Protocol = 2
	ProtocolDAT       Protocol = 3
	ProtocolDMINT     Protocol = 4
	ProtocolMUT       Protocol = 5
	ProtocolBURN      Protocol = 6
	ProtocolCONTAINER Protocol = 7
	ProtocolENCRYPTED Protocol = 8
	ProtocolTIMELOCK  Protocol = 9
	ProtocolAUTHORITY Protocol = 10
	ProtocolWAVE      Protocol = 11
)

func has(protocols []Protocol, p Protocol) bool {
	for _, q := range protocols {
		if q == p {
			return true
		}
	}
	return false
}

// ValidateProtocols enforces the rejection rules of core spec §4.1, grounded
// on original_source/electrumx/lib/glyph.py's validate_protocols.
func ValidateProtocols(protocols []Protocol) error {
	ft := has(protocols, ProtocolFT)
	nft := has(protocols, ProtocolNFT)
	burn := has(protocols, ProtocolBURN)
	dmint := has(protocols, ProtocolDMINT)
	mut := has(protocols, ProtocolMUT)
	container := has(protocols, ProtocolCONTAINER)
	encrypted := has(protocols, ProtocolENCRYPTED)
	authority := has(protocols, ProtocolAUTHORITY)
	timelock := has(protocols, ProtocolTIMELOCK)
	wave := has(protocols, ProtocolWAVE)

	if ft && nft {
		return fmt.Errorf("script: FT and NFT cannot be combined")
	}
	if burn && !ft && !nft {
		return fmt.Errorf("script: BURN requires FT or NFT")
	}
	if dmint && !ft {
		return fmt.Errorf("script: DMINT requires FT")
	}
	if (mut || container || encrypted || authority) && !nft {
		return fmt.Errorf("script: MUT/CONTAINER/ENCRYPTED/AUTHORITY require NFT")
	}
	if timelock && !encrypted {
		return fmt.Errorf("script: TIMELOCK requires ENCRYPTED")
	}
	if wave && (!nft || !mut) {
		return fmt.Errorf("script: WAVE requires NFT and MUT")
	}
	return nil
}

// TokenTypeTag is the derived single-byte token-type classification used as
// the GY by-type index key and the dMint contracts "algorithm-class" split.
type TokenTypeTag uint8

const (
	TokenTypeFT    TokenTypeTag = 1
	TokenTypeNFT   TokenTypeTag = 2
	TokenTypeDAT   TokenTypeTag = 3
	TokenTypeDMINT TokenTypeTag = 4
	TokenTypeWAVE  TokenTypeTag = 5
)

// DeriveTokenType picks the dominant classification for a protocol set,
// mirroring glyph.py's get_token_type_id precedence: WAVE and DMINT are
// distinguished sub-kinds of NFT/FT respectively, DAT stands alone, and
// otherwise FT/NFT applies directly.
func DeriveTokenType(protocols []Protocol) TokenTypeTag {
	switch {
	case has(protocols, ProtocolWAVE):
		return TokenTypeWAVE
	case has(protocols, ProtocolDMINT):
		return TokenTypeDMINT
	case has(protocols, ProtocolDAT):
		return TokenTypeDAT
	case has(protocols, ProtocolNFT):
		return TokenTypeNFT
	default:
		return TokenTypeFT
	}
}

// IsDmintReveal reports whether a reveal envelope's protocol list contains
// DMINT — the mempool shadow excludes these (core spec §4.5).
func (e *Envelope) IsDmintReveal() bool {
	return e.HasProtocol(ProtocolDMINT)
}

// IsWaveClaim reports whether a reveal envelope's protocol list contains
// WAVE — the mempool shadow excludes these (core spec §4.5).
func (e *Envelope) IsWaveClaim() bool {
	return e.HasProtocol(ProtocolWAVE)
}
