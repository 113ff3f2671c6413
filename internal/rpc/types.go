package rpc

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/radiant-labs/rxindexer/pkg/types"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string { return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message) }

func invalidParams(err error) *Error {
	return &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
}

func internalError(err error) *Error {
	return &Error{Code: CodeInternalError, Message: err.Error()}
}

func notFound(what string) *Error {
	return &Error{Code: CodeNotFound, Message: what + " not found"}
}

// parseParams unmarshals the request params into target.
func parseParams(req *Request, target interface{}) *Error {
	if req.Params == nil {
		return &Error{Code: CodeInvalidParams, Message: "params required"}
	}
	data, err := json.Marshal(req.Params)
	if err != nil {
		return invalidParams(err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return invalidParams(err)
	}
	return nil
}

// decodeRef parses the external "hex(txid)_<vout>" ref string (pkg/types's
// Ref.String form) into the 36-byte slice every index's query surface
// expects.
func decodeRef(s string) ([]byte, *Error) {
	ref, err := types.ParseRefString(s)
	if err != nil {
		return nil, invalidParams(err)
	}
	return ref.Bytes(), nil
}

// decodeHex parses a plain hex string (scripthash, tx hash, owner) into
// bytes.
func decodeHex(s string) ([]byte, *Error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, invalidParams(err)
	}
	return b, nil
}

func hexOrEmpty(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return hex.EncodeToString(b)
}

// refOrEmpty formats a 36-byte ref slice in its external string form;
// anything else is hex-encoded as-is so malformed/short refs still round
// through instead of panicking.
func refOrEmpty(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if ref, err := types.RefFromBytes(b); err == nil {
		return ref.String()
	}
	return hex.EncodeToString(b)
}
