// Package rpc implements the JSON-RPC 2.0 API surface of core spec §6: a
// Method string -> handler registry over the Glyph, Swap, WAVE, dMint,
// and Mempool Shadow indexes, plus subscription management. The session
// transport that actually delivers subscription notifications to callers
// (long-poll/WebSocket) is an external collaborator (core spec, scope note)
// — this package only maintains the subscription bookkeeping and exposes
// Notify hooks an embedding host wires to its own transport.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/radiant-labs/rxindexer/internal/dmint"
	"github.com/radiant-labs/rxindexer/internal/glyph"
	klog "github.com/radiant-labs/rxindexer/internal/log"
	"github.com/radiant-labs/rxindexer/internal/mempoolshadow"
	"github.com/radiant-labs/rxindexer/internal/metrics"
	"github.com/radiant-labs/rxindexer/internal/ratelimit"
	"github.com/radiant-labs/rxindexer/internal/subscription"
	"github.com/radiant-labs/rxindexer/internal/swap"
	"github.com/radiant-labs/rxindexer/internal/wave"
	"github.com/rs/zerolog"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Server is the JSON-RPC 2.0 HTTP server fronting the indexes.
type Server struct {
	addr string

	glyphStore *glyph.Store
	swapStore  *swap.Store
	waveStore  *wave.Store
	dmintMgr   *dmint.Manager
	mempool    *mempoolshadow.Shadow
	subs       *subscription.Registry
	subLimiter *ratelimit.SubscriptionLimiter
	reqLimiter *ratelimit.RequestLimiter
	metrics    *metrics.Collector

	server      *http.Server
	logger      zerolog.Logger
	ln          net.Listener
	allowedNets []*net.IPNet // Empty = allow all.
	corsOrigins []string     // Empty = no CORS headers.
}

// Config holds the optional collaborators a Server wires in. Every field is
// optional; a method whose backing collaborator is nil answers
// CodeNotFound instead of panicking.
type Config struct {
	Glyph      *glyph.Store
	Swap       *swap.Store
	Wave       *wave.Store
	DMint      *dmint.Manager
	Mempool    *mempoolshadow.Shadow
	Subs       *subscription.Registry
	SubLimiter *ratelimit.SubscriptionLimiter
	ReqLimiter *ratelimit.RequestLimiter
	Metrics    *metrics.Collector

	AllowedIPs  []string
	CORSOrigins []string
}

// New builds an RPC server bound to addr with the given collaborators.
func New(addr string, cfg Config) *Server {
	s := &Server{
		addr:        addr,
		glyphStore:  cfg.Glyph,
		swapStore:   cfg.Swap,
		waveStore:   cfg.Wave,
		dmintMgr:    cfg.DMint,
		mempool:     cfg.Mempool,
		subs:        cfg.Subs,
		subLimiter:  cfg.SubLimiter,
		reqLimiter:  cfg.ReqLimiter,
		metrics:     cfg.Metrics,
		allowedNets: parseAllowedIPs(cfg.AllowedIPs),
		corsOrigins: cfg.CORSOrigins,
		logger:      klog.RPC,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// parseAllowedIPs converts string IP/CIDR entries into net.IPNet.
func parseAllowedIPs(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		_, ipNet, err := net.ParseCIDR(entry)
		if err == nil {
			nets = append(nets, ipNet)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			continue
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets
}

// Start begins listening and serving in a background goroutine. It returns
// immediately after the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("rpc listen: %w", err)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("RPC server error")
		}
	}()

	return nil
}

// Addr returns the listener address (useful when bound to :0).
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// handleRequest is the main HTTP handler for JSON-RPC requests.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	if len(s.allowedNets) > 0 {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		ip := net.ParseIP(host)
		if ip == nil || !s.isIPAllowed(ip) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	s.setCORSHeaders(w, r)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, nil, CodeInvalidRequest, "only POST method is allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		writeError(w, nil, CodeParseError, "failed to read request body")
		return
	}
	if len(body) > maxBodySize {
		writeError(w, nil, CodeInvalidRequest, "request body too large")
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, nil, CodeParseError, "invalid JSON")
		return
	}
	if req.JSONRPC != "2.0" {
		writeError(w, req.ID, CodeInvalidRequest, "jsonrpc must be \"2.0\"")
		return
	}

	clientID := r.RemoteAddr
	if s.reqLimiter != nil {
		cost := methodCost(req.Method)
		if ok, reason := s.reqLimiter.CheckRequest(clientID, cost); !ok {
			writeError(w, req.ID, CodeInvalidRequest, reason)
			return
		}
		s.reqLimiter.RecordRequest(clientID, cost)
	}

	start := time.Now()
	result, rpcErr := s.dispatch(clientID, &req)
	if s.metrics != nil {
		var observeErr error
		if rpcErr != nil {
			observeErr = rpcErr
		}
		s.metrics.ObserveRequest(req.Method, time.Since(start), observeErr)
	}

	if rpcErr != nil {
		writeJSON(w, Response{JSONRPC: "2.0", Error: rpcErr, ID: req.ID})
		return
	}
	writeJSON(w, Response{JSONRPC: "2.0", Result: result, ID: req.ID})
}

// methodCost assigns a rate-limit cost to each method family, mirroring
// rate_limiter.py's per-call cost model: subscriptions and wide scans cost
// more than a single-key lookup.
func methodCost(method string) float64 {
	switch {
	case strings.Contains(method, "subscribe"):
		return 2
	case strings.Contains(method, "search"),
		strings.Contains(method, "list"),
		strings.Contains(method, "get_all"),
		strings.Contains(method, "orderbook"),
		strings.Contains(method, "history"):
		return 3
	default:
		return 1
	}
}

// dispatch routes a request to the appropriate handler.
func (s *Server) dispatch(clientID string, req *Request) (interface{}, *Error) {
	switch req.Method {
	// Glyph
	case "glyph.get_token":
		return s.handleGlyphGetToken(req)
	case "glyph.get_by_ref":
		return s.handleGlyphGetToken(req)
	case "glyph.validate_protocols":
		return s.handleGlyphValidateProtocols(req)
	case "glyph.get_protocol_info":
		return s.handleGlyphGetProtocolInfo(req)
	case "glyph.parse_envelope":
		return s.handleGlyphParseEnvelope(req)
	case "glyph.stats":
		return s.handleGlyphStats(req)
	case "glyph.get_token_info":
		return s.handleGlyphGetToken(req)
	case "glyph.get_balance":
		return s.handleGlyphGetBalance(req)
	case "glyph.list_tokens":
		return s.handleGlyphListTokens(req)
	case "glyph.get_history":
		return s.handleGlyphGetHistory(req)
	case "glyph.search_tokens":
		return s.handleGlyphSearchTokens(req)
	case "glyph.get_tokens_by_type":
		return s.handleGlyphGetTokensByType(req)
	case "glyph.get_metadata":
		return s.handleGlyphGetMetadata(req)
	case "glyph.get_all_tokens_summary":
		return s.handleGlyphGetAllTokensSummary(req)
	case "glyph.get_unconfirmed_balance":
		return s.handleGlyphGetUnconfirmedBalance(req)
	case "glyph.get_unconfirmed_txs":
		return s.handleGlyphGetUnconfirmedTxs(req)

	// Swap
	case "swap.get_orderbook":
		return s.handleSwapGetOrderbook(req)
	case "swap.get_open_orders":
		return s.handleSwapGetOpenOrders(req)
	case "swap.get_user_orders":
		return s.handleSwapGetUserOrders(req)
	case "swap.get_history":
		return s.handleSwapGetHistory(req)
	case "swap.get_pair_stats":
		return s.handleSwapGetPairStats(req)
	case "swap.get_fills":
		return s.handleSwapGetHistory(req)
	case "swap.get_unconfirmed_orders":
		return s.handleSwapGetUnconfirmedOrders(req)
	case "swap.get_user_unconfirmed":
		return s.handleSwapGetUserUnconfirmed(req)

	// WAVE
	case "wave.resolve":
		return s.handleWaveResolve(req)
	case "wave.check_available":
		return s.handleWaveCheckAvailable(req)
	case "wave.get_subdomains":
		return s.handleWaveGetSubdomains(req)
	case "wave.reverse_lookup":
		return s.handleWaveReverseLookup(req)
	case "wave.stats":
		return s.handleWaveStats(req)

	// dMint
	case "dmint.get_contracts":
		return s.handleDmintGetContracts(req)
	case "dmint.get_contract":
		return s.handleDmintGetContract(req)
	case "dmint.get_by_algorithm":
		return s.handleDmintGetByAlgorithm(req)
	case "dmint.get_most_profitable":
		return s.handleDmintGetMostProfitable(req)
	case "dmint.get_stats":
		return s.handleDmintGetStats(req)
	case "dmint.get_contract_daa":
		return s.handleDmintGetContractDAA(req)

	// Mempool
	case "mempool.glyph_stats":
		return s.handleMempoolGlyphStats(req)

	default:
		if h, ok := subscriptionDispatch[req.Method]; ok {
			return h(s, clientID, req)
		}
		return nil, &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("method %q not found", req.Method)}
	}
}

// writeJSON writes a JSON-RPC response.
func writeJSON(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeError writes a JSON-RPC error response.
func writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	writeJSON(w, Response{JSONRPC: "2.0", Error: &Error{Code: code, Message: message}, ID: id})
}

// isIPAllowed checks if the IP is in the allowed networks list.
func (s *Server) isIPAllowed(ip net.IP) bool {
	for _, n := range s.allowedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// setCORSHeaders adds CORS headers based on the configured origins.
func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.corsOrigins) == 0 {
		return
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}

	allowed := false
	for _, o := range s.corsOrigins {
		if o == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			allowed = true
			break
		}
		if o == origin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			allowed = true
			break
		}
	}
	if allowed {
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	}
}
