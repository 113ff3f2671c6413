package rpc

import (
	"github.com/radiant-labs/rxindexer/internal/glyph"
	"github.com/radiant-labs/rxindexer/internal/script"
)

func (s *Server) requireGlyph() *Error {
	if s.glyphStore == nil {
		return &Error{Code: CodeNotFound, Message: "glyph index not enabled"}
	}
	return nil
}

// tokenRecordJSON mirrors glyph.TokenRecord with hex/ref-string byte fields,
// since the CBOR-tagged domain struct has no JSON tags of its own (core
// spec §4.2's record is a storage format, not a wire format).
type tokenRecordJSON struct {
	Ref          string            `json:"ref"`
	Protocols    []script.Protocol `json:"protocols,omitempty"`
	TokenType    string            `json:"token_type,omitempty"`
	GlyphVersion uint8             `json:"glyph_version,omitempty"`
	Name         string            `json:"name,omitempty"`
	Ticker       string            `json:"ticker,omitempty"`
	Decimals     uint8             `json:"decimals,omitempty"`
	Description  string            `json:"description,omitempty"`
	Author       string            `json:"author,omitempty"`
	License      string            `json:"license,omitempty"`

	DeployHeight uint32 `json:"deploy_height,omitempty"`
	DeployTxID   string `json:"deploy_txid,omitempty"`
	MetadataHash string `json:"metadata_hash,omitempty"`
	IsSpent      bool   `json:"is_spent,omitempty"`

	TotalSupply   uint64  `json:"total_supply,omitempty"`
	CurrentSupply uint64  `json:"current_supply,omitempty"`
	Premine       uint64  `json:"premine,omitempty"`
	MinedSupply   uint64  `json:"mined_supply,omitempty"`
	PercentMined  float64 `json:"percent_mined,omitempty"`

	IconRef      string `json:"icon_ref,omitempty"`
	IconType     string `json:"icon_type,omitempty"`
	IconSize     uint32 `json:"icon_size,omitempty"`
	EmbeddedHash string `json:"embedded_hash,omitempty"`

	ContractRef       string `json:"contract_ref,omitempty"`
	Algorithm         uint8  `json:"algorithm,omitempty"`
	StartDifficulty   uint64 `json:"start_difficulty,omitempty"`
	CurrentDifficulty uint64 `json:"current_difficulty,omitempty"`
	Reward            uint64 `json:"reward,omitempty"`
	HalvingInterval   uint32 `json:"halving_interval,omitempty"`
	DaaMode           uint8  `json:"daa_mode,omitempty"`
	MintCount         uint32 `json:"mint_count,omitempty"`

	ContainerRef string `json:"container_ref,omitempty"`
	AuthorityRef string `json:"authority_ref,omitempty"`
	ParentRef    string `json:"parent_ref,omitempty"`

	Attrs string `json:"attrs,omitempty"`
}

func tokenToJSON(t *glyph.TokenRecord) tokenRecordJSON {
	return tokenRecordJSON{
		Ref:               refOrEmpty(t.Ref),
		Protocols:         t.Protocols,
		TokenType:         tokenTypeName(t.TokenType),
		GlyphVersion:      t.GlyphVersion,
		Name:              t.Name,
		Ticker:            t.Ticker,
		Decimals:          t.Decimals,
		Description:       t.Description,
		Author:            t.Author,
		License:           t.License,
		DeployHeight:      t.DeployHeight,
		DeployTxID:        hexOrEmpty(t.DeployTxID),
		MetadataHash:      hexOrEmpty(t.MetadataHash),
		IsSpent:           t.IsSpent,
		TotalSupply:       t.TotalSupply,
		CurrentSupply:     t.CurrentSupply,
		Premine:           t.Premine,
		MinedSupply:       t.MinedSupply,
		PercentMined:      t.PercentMined(),
		IconRef:           refOrEmpty(t.IconRef),
		IconType:          t.IconType,
		IconSize:          t.IconSize,
		EmbeddedHash:      hexOrEmpty(t.EmbeddedHash),
		ContractRef:       refOrEmpty(t.ContractRef),
		Algorithm:         t.Algorithm,
		StartDifficulty:   t.StartDifficulty,
		CurrentDifficulty: t.CurrentDifficulty,
		Reward:            t.Reward,
		HalvingInterval:   t.HalvingInterval,
		DaaMode:           t.DaaMode,
		MintCount:         t.MintCount,
		ContainerRef:      refOrEmpty(t.ContainerRef),
		AuthorityRef:      refOrEmpty(t.AuthorityRef),
		ParentRef:         refOrEmpty(t.ParentRef),
		Attrs:             t.Attrs,
	}
}

func tokenTypeName(tt script.TokenTypeTag) string {
	switch tt {
	case script.TokenTypeFT:
		return "FT"
	case script.TokenTypeNFT:
		return "NFT"
	case script.TokenTypeDAT:
		return "DAT"
	case script.TokenTypeDMINT:
		return "DMINT"
	case script.TokenTypeWAVE:
		return "WAVE"
	default:
		return ""
	}
}

type refParam struct {
	Ref string `json:"ref"`
}

func (s *Server) handleGlyphGetToken(req *Request) (interface{}, *Error) {
	if err := s.requireGlyph(); err != nil {
		return nil, err
	}
	var p refParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	ref, err := decodeRef(p.Ref)
	if err != nil {
		return nil, err
	}
	tok, ok := s.glyphStore.GetToken(ref)
	if !ok {
		return nil, notFound("token")
	}
	return tokenToJSON(tok), nil
}

type validateProtocolsParam struct {
	Protocols []script.Protocol `json:"protocols"`
}

func (s *Server) handleGlyphValidateProtocols(req *Request) (interface{}, *Error) {
	var p validateProtocolsParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	if verr := script.ValidateProtocols(p.Protocols); verr != nil {
		return map[string]interface{}{"valid": false, "reason": verr.Error()}, nil
	}
	return map[string]interface{}{"valid": true}, nil
}

type protocolParam struct {
	Protocol script.Protocol `json:"protocol"`
}

// protocolNames mirrors glyph.py's protocol-name table (core spec §3's
// protocol set).
var protocolNames = map[script.Protocol]string{
	script.ProtocolFT:        "FT",
	script.ProtocolNFT:       "NFT",
	script.ProtocolDAT:       "DAT",
	script.ProtocolDMINT:     "DMINT",
	script.ProtocolMUT:       "MUT",
	script.ProtocolBURN:      "BURN",
	script.ProtocolCONTAINER: "CONTAINER",
	script.ProtocolENCRYPTED: "ENCRYPTED",
	script.ProtocolTIMELOCK:  "TIMELOCK",
	script.ProtocolAUTHORITY: "AUTHORITY",
	script.ProtocolWAVE:      "WAVE",
}

func (s *Server) handleGlyphGetProtocolInfo(req *Request) (interface{}, *Error) {
	var p protocolParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	name, ok := protocolNames[p.Protocol]
	if !ok {
		return nil, notFound("protocol")
	}
	return map[string]interface{}{"protocol": uint8(p.Protocol), "name": name}, nil
}

type parseEnvelopeParam struct {
	ScriptHex string `json:"script_hex"`
}

func (s *Server) handleGlyphParseEnvelope(req *Request) (interface{}, *Error) {
	var p parseEnvelopeParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	raw, derr := decodeHex(p.ScriptHex)
	if derr != nil {
		return nil, derr
	}
	env, perr := script.ParseEnvelope(raw)
	if perr != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: perr.Error()}
	}
	kind := "commit"
	if env.IsReveal() {
		kind = "reveal"
	}
	return map[string]interface{}{
		"kind":         kind,
		"version":      env.Version,
		"commit_hash":  hexOrEmpty(env.CommitHash),
		"content_root": hexOrEmpty(env.ContentRoot),
		"controller":   hexOrEmpty(env.Controller),
		"metadata":     env.Metadata,
	}, nil
}

func (s *Server) handleGlyphStats(req *Request) (interface{}, *Error) {
	if err := s.requireGlyph(); err != nil {
		return nil, err
	}
	st, e := s.glyphStore.GetStats()
	if e != nil {
		return nil, internalError(e)
	}
	return st, nil
}

type balanceParam struct {
	Scripthash string `json:"scripthash"`
	Ref        string `json:"ref"`
}

func (s *Server) handleGlyphGetBalance(req *Request) (interface{}, *Error) {
	if err := s.requireGlyph(); err != nil {
		return nil, err
	}
	var p balanceParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	scripthash, derr := decodeHex(p.Scripthash)
	if derr != nil {
		return nil, derr
	}
	ref, derr := decodeRef(p.Ref)
	if derr != nil {
		return nil, derr
	}
	bal := s.glyphStore.GetBalance(scripthash, ref)
	return map[string]interface{}{"balance": bal}, nil
}

type listTokensParam struct {
	Limit int `json:"limit"`
}

func (s *Server) handleGlyphListTokens(req *Request) (interface{}, *Error) {
	if err := s.requireGlyph(); err != nil {
		return nil, err
	}
	var p listTokensParam
	_ = parseParams(req, &p)
	out, e := s.glyphStore.GetAllTokensSummary(p.Limit)
	if e != nil {
		return nil, internalError(e)
	}
	return summariesToJSON(out), nil
}

func (s *Server) handleGlyphGetAllTokensSummary(req *Request) (interface{}, *Error) {
	return s.handleGlyphListTokens(req)
}

func summariesToJSON(in []glyph.TokenSummary) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(in))
	for _, t := range in {
		out = append(out, map[string]interface{}{
			"ref":            refOrEmpty(t.Ref),
			"name":           t.Name,
			"ticker":         t.Ticker,
			"token_type":     tokenTypeName(t.TokenType),
			"total_supply":   t.TotalSupply,
			"current_supply": t.CurrentSupply,
			"deploy_height":  t.DeployHeight,
		})
	}
	return out
}

type historyParam struct {
	Ref   string `json:"ref"`
	Limit int    `json:"limit"`
}

func (s *Server) handleGlyphGetHistory(req *Request) (interface{}, *Error) {
	if err := s.requireGlyph(); err != nil {
		return nil, err
	}
	var p historyParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	ref, derr := decodeRef(p.Ref)
	if derr != nil {
		return nil, derr
	}
	events, e := s.glyphStore.GetTokenHistory(ref, p.Limit)
	if e != nil {
		return nil, internalError(e)
	}
	out := make([]map[string]interface{}, 0, len(events))
	for _, ev := range events {
		out = append(out, map[string]interface{}{
			"height":  ev.Height,
			"tx_idx":  ev.TxIdx,
			"kind":    ev.Kind,
			"tx_hash": hexOrEmpty(ev.TxHash),
		})
	}
	return out, nil
}

type searchParam struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleGlyphSearchTokens(req *Request) (interface{}, *Error) {
	if err := s.requireGlyph(); err != nil {
		return nil, err
	}
	var p searchParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	toks, e := s.glyphStore.SearchTokens(p.Query, p.Limit)
	if e != nil {
		return nil, internalError(e)
	}
	out := make([]tokenRecordJSON, 0, len(toks))
	for _, t := range toks {
		out = append(out, tokenToJSON(t))
	}
	return out, nil
}

type tokensByTypeParam struct {
	Type  uint8 `json:"type"`
	Limit int   `json:"limit"`
}

func (s *Server) handleGlyphGetTokensByType(req *Request) (interface{}, *Error) {
	if err := s.requireGlyph(); err != nil {
		return nil, err
	}
	var p tokensByTypeParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	refs, e := s.glyphStore.GetTokensByType(script.TokenTypeTag(p.Type), p.Limit)
	if e != nil {
		return nil, internalError(e)
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, refOrEmpty(r))
	}
	return out, nil
}

type metadataParam struct {
	Hash string `json:"hash"`
}

func (s *Server) handleGlyphGetMetadata(req *Request) (interface{}, *Error) {
	if err := s.requireGlyph(); err != nil {
		return nil, err
	}
	var p metadataParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	hash, derr := decodeHex(p.Hash)
	if derr != nil {
		return nil, derr
	}
	data, ok := s.glyphStore.GetMetadata(hash)
	if !ok {
		return nil, notFound("metadata")
	}
	return map[string]interface{}{"data_hex": hexOrEmpty(data)}, nil
}

func (s *Server) handleGlyphGetUnconfirmedBalance(req *Request) (interface{}, *Error) {
	if s.mempool == nil {
		return nil, notFound("mempool shadow")
	}
	var p balanceParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	scripthash, derr := decodeHex(p.Scripthash)
	if derr != nil {
		return nil, derr
	}
	ref, derr := decodeRef(p.Ref)
	if derr != nil {
		return nil, derr
	}
	return map[string]interface{}{"delta": s.mempool.GetUnconfirmedBalance(scripthash, ref)}, nil
}

type scripthashParam struct {
	Scripthash string `json:"scripthash"`
}

func (s *Server) handleGlyphGetUnconfirmedTxs(req *Request) (interface{}, *Error) {
	if s.mempool == nil {
		return nil, notFound("mempool shadow")
	}
	var p scripthashParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	scripthash, derr := decodeHex(p.Scripthash)
	if derr != nil {
		return nil, derr
	}
	txs := s.mempool.GetUnconfirmedGlyphTxs(scripthash)
	return txs, nil
}
