package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/radiant-labs/rxindexer/internal/glyph"
	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

func fakeRef(b byte) []byte {
	return bytes.Repeat([]byte{b}, 36)
}

func fakeHash(b byte) types.Hash {
	var h types.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func newTestServer(t *testing.T) (*Server, *glyph.Store) {
	t.Helper()
	gs := glyph.NewStore(storage.NewMemory())
	ref := fakeRef(0x01)
	outScript := append([]byte{script.OpPushInputRef}, ref...)
	tx := &types.Tx{Hash: fakeHash(0xaa), Outputs: []types.TxOutput{{Script: outScript, Value: 1000}}}
	gs.ProcessTx(tx, 100, 0)

	srv := New(":0", Config{Glyph: gs})
	return srv, gs
}

func call(t *testing.T, srv *Server, method string, params interface{}) Response {
	t.Helper()
	body, err := json.Marshal(Request{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleRequest(w, req)

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func TestHandleRequestGlyphGetTokenReturnsRecord(t *testing.T) {
	srv, _ := newTestServer(t)
	ref, err := types.RefFromBytes(fakeRef(0x01))
	if err != nil {
		t.Fatalf("RefFromBytes: %v", err)
	}

	resp := call(t, srv, "glyph.get_token", map[string]interface{}{"ref": ref.String()})
	if resp.Error != nil {
		t.Fatalf("want no error, got %+v", resp.Error)
	}
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var tok tokenRecordJSON
	if err := json.Unmarshal(data, &tok); err != nil {
		t.Fatalf("unmarshal token: %v", err)
	}
	if tok.TokenType != "FT" {
		t.Fatalf("want FT token type, got %q", tok.TokenType)
	}
}

func TestHandleRequestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := call(t, srv, "bogus.method", nil)
	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Fatalf("want method-not-found error, got %+v", resp.Error)
	}
}

func TestHandleRequestRejectsNonPost(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.handleRequest(w, req)

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != CodeInvalidRequest {
		t.Fatalf("want invalid-request error for non-POST, got %+v", resp.Error)
	}
}

func TestHandleRequestMissingStoreReturnsNotFound(t *testing.T) {
	srv := New(":0", Config{})
	resp := call(t, srv, "swap.get_history", map[string]interface{}{"base_ref": "00"})
	if resp.Error == nil || resp.Error.Code != CodeNotFound {
		t.Fatalf("want not-found error for disabled swap index, got %+v", resp.Error)
	}
}

func TestValidateProtocolsReportsInvalidCombination(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := call(t, srv, "glyph.validate_protocols", map[string]interface{}{"protocols": []int{1, 2}})
	if resp.Error != nil {
		t.Fatalf("want no error, got %+v", resp.Error)
	}
	out, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("want map result, got %T", resp.Result)
	}
	if valid, _ := out["valid"].(bool); valid {
		t.Fatalf("want FT+NFT combination rejected")
	}
}

func TestParseEnvelopeDecodesRevealMetadata(t *testing.T) {
	srv, _ := newTestServer(t)
	blob, err := cbor.Marshal(map[string]interface{}{"p": []int{1}, "n": "Example"})
	if err != nil {
		t.Fatalf("cbor marshal: %v", err)
	}
	raw := append([]byte{}, script.GlyphMagic...)
	raw = append(raw, 1, 0x80)
	raw = append(raw, blob...)

	resp := call(t, srv, "glyph.parse_envelope", map[string]interface{}{"script_hex": hexEncode(raw)})
	if resp.Error != nil {
		t.Fatalf("want no error, got %+v", resp.Error)
	}
	out, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("want map result, got %T", resp.Result)
	}
	if out["kind"] != "reveal" {
		t.Fatalf("want reveal kind, got %v", out["kind"])
	}
}

func hexEncode(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}
	return string(out)
}
