package script

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// GlyphMagic is the 3-byte marker that opens every Glyph envelope.
var GlyphMagic = []byte("gly")

const (
	flagReveal        = 0x80
	flagHasContentRoot = 0x01
	flagHasController  = 0x02
)

// EnvelopeKind distinguishes a commit envelope from a reveal envelope.
type EnvelopeKind int

const (
	EnvelopeCommit EnvelopeKind = iota
	EnvelopeReveal
)

// Envelope is a decoded Glyph envelope, per core spec §4.1/§6 wire format.
type Envelope struct {
	Kind    EnvelopeKind
	Version uint8

	// Commit fields.
	CommitHash  []byte // 32 bytes
	ContentRoot []byte // 32 bytes, present iff flags&0x01
	Controller  []byte // 36 bytes, present iff flags&0x02

	// Reveal fields.
	Metadata map[string]interface{}
}

// ContainsGlyphMagic reports whether the magic bytes appear anywhere in s.
func ContainsGlyphMagic(s []byte) bool {
	return bytes.Contains(s, GlyphMagic)
}

// ParseEnvelope locates the Glyph magic at any position in s and decodes the
// envelope that follows it. Returns nil if no magic is found or the
// envelope is malformed (per core spec §7.1: callers skip silently, this
// function surfaces an error so the caller can log it at debug level).
func ParseEnvelope(s []byte) (*Envelope, error) {
	idx := bytes.Index(s, GlyphMagic)
	if idx < 0 {
		return nil, fmt.Errorf("script: no glyph magic")
	}
	body := s[idx+len(GlyphMagic):]
	if len(body) < 2 {
		return nil, fmt.Errorf("script: envelope truncated before version/flags")
	}
	version := body[0]
	if version != 1 && version != 2 {
		return nil, fmt.Errorf("script: unsupported envelope version %d", version)
	}
	flags := body[1]
	rest := body[2:]

	if flags&flagReveal != 0 {
		// Nested maps (dmint, app.data.zone) decode as map[string]interface{}
		// too, the shape the metadata readers look for.
		dm, err := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]interface{}(nil))}.DecMode()
		if err != nil {
			return nil, fmt.Errorf("script: reveal envelope cbor decoder: %w", err)
		}
		var meta map[string]interface{}
		if err := dm.Unmarshal(rest, &meta); err != nil {
			return nil, fmt.Errorf("script: reveal envelope cbor decode: %w", err)
		}
		if meta == nil {
			return nil, fmt.Errorf("script: reveal envelope cbor value is not a map")
		}
		return &Envelope{Kind: EnvelopeReveal, Version: version, Metadata: meta}, nil
	}

	// Commit envelope.
	if len(rest) < 32 {
		return nil, fmt.Errorf("script: commit envelope truncated before commit hash")
	}
	env := &Envelope{Kind: EnvelopeCommit, Version: version, CommitHash: rest[:32]}
	rest = rest[32:]
	if flags&flagHasContentRoot != 0 {
		if len(rest) < 32 {
			return nil, fmt.Errorf("script: commit envelope truncated before content root")
		}
		env.ContentRoot = rest[:32]
		rest = rest[32:]
	}
	if flags&flagHasController != 0 {
		if len(rest) < RefSize {
			return nil, fmt.Errorf("script: commit envelope truncated before controller ref")
		}
		env.Controller = rest[:RefSize]
	}
	return env, nil
}

// IsReveal reports whether the envelope is a reveal (metadata-carrying) one.
func (e *Envelope) IsReveal() bool { return e.Kind == EnvelopeReveal }

// Protocols extracts the "p" metadata field (list of protocol ids) from a
// reveal envelope, tolerating both float64 and integer CBOR number decodes.
func (e *Envelope) Protocols() []Protocol {
	if e == nil || e.Metadata == nil {
		return nil
	}
	raw, ok := e.Metadata["p"]
	if !ok {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]Protocol, 0, len(list))
	for _, v := range list {
		switch n := v.(type) {
		case uint64:
			out = append(out, Protocol(n))
		case int64:
			out = append(out, Protocol(n))
		case float64:
			out = append(out, Protocol(n))
		}
	}
	return out
}

// HasProtocol reports whether the envelope's protocol list contains p.
func (e *Envelope) HasProtocol(p Protocol) bool {
	for _, q := range e.Protocols() {
		if q == p {
			return true
		}
	}
	return false
}

// StringField reads the first of the given metadata keys present as a
// string, supporting the spec's short/long key aliasing (e.g. "name"/"n").
func (e *Envelope) StringField(keys ...string) (string, bool) {
	if e == nil || e.Metadata == nil {
		return "", false
	}
	for _, k := range keys {
		if v, ok := e.Metadata[k]; ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}
