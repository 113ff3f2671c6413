package rpc

import (
	"github.com/radiant-labs/rxindexer/internal/subscription"
	"github.com/radiant-labs/rxindexer/internal/wave"
)

// subscriptionDispatch covers the *.subscribe.*/*.unsubscribe.* method names
// of original_source/electrumx/server/glyph_subscriptions.py's
// GLYPH_SUBSCRIPTION_METHODS table. Kept as a separate table from dispatch's
// switch since these methods share a session_id + rate-limit-then-record
// shape that the query methods don't.
var subscriptionDispatch = map[string]func(*Server, string, *Request) (interface{}, *Error){
	"glyph.subscribe.balance":      (*Server).handleSubscribeBalance,
	"glyph.unsubscribe.balance":    (*Server).handleUnsubscribeBalance,
	"glyph.subscribe.token":        (*Server).handleSubscribeToken,
	"glyph.unsubscribe.token":      (*Server).handleUnsubscribeToken,
	"glyph.subscribe.transfers":    (*Server).handleSubscribeTransfers,
	"glyph.unsubscribe.transfers":  (*Server).handleUnsubscribeTransfers,
	"swap.subscribe.orderbook":     (*Server).handleSubscribeOrderbook,
	"swap.unsubscribe.orderbook":   (*Server).handleUnsubscribeOrderbook,
	"swap.subscribe.fills":         (*Server).handleSubscribeFills,
	"swap.unsubscribe.fills":       (*Server).handleUnsubscribeFills,
	"swap.subscribe.user_orders":   (*Server).handleSubscribeUserOrders,
	"swap.unsubscribe.user_orders": (*Server).handleUnsubscribeUserOrders,
	"wave.subscribe.name":          (*Server).handleSubscribeWaveName,
	"wave.unsubscribe.name":        (*Server).handleUnsubscribeWaveName,
	"dmint.subscribe.token":        (*Server).handleSubscribeDmint,
	"dmint.unsubscribe.token":      (*Server).handleUnsubscribeDmint,
}

func (s *Server) requireSubs() *Error {
	if s.subs == nil {
		return &Error{Code: CodeNotFound, Message: "subscriptions not enabled"}
	}
	return nil
}

// subscribe enforces the subscription rate limit (when configured), records
// the registry entry, and reports acceptance back to the caller.
func (s *Server) subscribe(clientID string, sessionID uint64, kind subscription.Kind, topic string) (interface{}, *Error) {
	if err := s.requireSubs(); err != nil {
		return nil, err
	}
	if s.subLimiter != nil {
		if ok, reason := s.subLimiter.CanSubscribe(clientID, topic); !ok {
			return nil, &Error{Code: CodeInvalidRequest, Message: reason}
		}
		s.subLimiter.RecordSubscription(clientID, topic)
	}
	s.subs.Subscribe(sessionID, kind, topic)
	return map[string]interface{}{"subscribed": true}, nil
}

func (s *Server) unsubscribe(clientID string, sessionID uint64, kind subscription.Kind, topic string) (interface{}, *Error) {
	if err := s.requireSubs(); err != nil {
		return nil, err
	}
	removed := s.subs.Unsubscribe(sessionID, kind, topic)
	if s.subLimiter != nil {
		s.subLimiter.RecordUnsubscription(clientID, topic)
	}
	return map[string]interface{}{"unsubscribed": removed}, nil
}

type subscribeBalanceParam struct {
	SessionID  uint64 `json:"session_id"`
	Scripthash string `json:"scripthash"`
	Ref        string `json:"ref"`
}

func balanceTopic(scripthash, ref []byte) string { return hexOrEmpty(scripthash) + hexOrEmpty(ref) }

func (s *Server) parseBalanceParam(req *Request) (subscribeBalanceParam, []byte, []byte, *Error) {
	var p subscribeBalanceParam
	if err := parseParams(req, &p); err != nil {
		return p, nil, nil, err
	}
	scripthash, derr := decodeHex(p.Scripthash)
	if derr != nil {
		return p, nil, nil, derr
	}
	ref, derr := decodeRef(p.Ref)
	if derr != nil {
		return p, nil, nil, derr
	}
	return p, scripthash, ref, nil
}

func (s *Server) handleSubscribeBalance(clientID string, req *Request) (interface{}, *Error) {
	p, scripthash, ref, err := s.parseBalanceParam(req)
	if err != nil {
		return nil, err
	}
	return s.subscribe(clientID, p.SessionID, subscription.KindBalance, balanceTopic(scripthash, ref))
}

func (s *Server) handleUnsubscribeBalance(clientID string, req *Request) (interface{}, *Error) {
	p, scripthash, ref, err := s.parseBalanceParam(req)
	if err != nil {
		return nil, err
	}
	return s.unsubscribe(clientID, p.SessionID, subscription.KindBalance, balanceTopic(scripthash, ref))
}

type subscribeRefParam struct {
	SessionID uint64 `json:"session_id"`
	Ref       string `json:"ref"`
}

func (s *Server) parseRefSub(req *Request) (subscribeRefParam, []byte, *Error) {
	var p subscribeRefParam
	if err := parseParams(req, &p); err != nil {
		return p, nil, err
	}
	ref, derr := decodeRef(p.Ref)
	if derr != nil {
		return p, nil, derr
	}
	return p, ref, nil
}

func (s *Server) handleSubscribeToken(clientID string, req *Request) (interface{}, *Error) {
	p, ref, err := s.parseRefSub(req)
	if err != nil {
		return nil, err
	}
	return s.subscribe(clientID, p.SessionID, subscription.KindToken, hexOrEmpty(ref))
}

func (s *Server) handleUnsubscribeToken(clientID string, req *Request) (interface{}, *Error) {
	p, ref, err := s.parseRefSub(req)
	if err != nil {
		return nil, err
	}
	return s.unsubscribe(clientID, p.SessionID, subscription.KindToken, hexOrEmpty(ref))
}

func (s *Server) handleSubscribeTransfers(clientID string, req *Request) (interface{}, *Error) {
	p, ref, err := s.parseRefSub(req)
	if err != nil {
		return nil, err
	}
	return s.subscribe(clientID, p.SessionID, subscription.KindTransfers, hexOrEmpty(ref))
}

func (s *Server) handleUnsubscribeTransfers(clientID string, req *Request) (interface{}, *Error) {
	p, ref, err := s.parseRefSub(req)
	if err != nil {
		return nil, err
	}
	return s.unsubscribe(clientID, p.SessionID, subscription.KindTransfers, hexOrEmpty(ref))
}

func (s *Server) handleSubscribeDmint(clientID string, req *Request) (interface{}, *Error) {
	p, ref, err := s.parseRefSub(req)
	if err != nil {
		return nil, err
	}
	return s.subscribe(clientID, p.SessionID, subscription.KindDmint, hexOrEmpty(ref))
}

func (s *Server) handleUnsubscribeDmint(clientID string, req *Request) (interface{}, *Error) {
	p, ref, err := s.parseRefSub(req)
	if err != nil {
		return nil, err
	}
	return s.unsubscribe(clientID, p.SessionID, subscription.KindDmint, hexOrEmpty(ref))
}

type subscribePairParam struct {
	SessionID uint64 `json:"session_id"`
	BaseRef   string `json:"base_ref"`
	QuoteRef  string `json:"quote_ref"`
}

func (s *Server) parsePairSub(req *Request) (subscribePairParam, string, *Error) {
	var p subscribePairParam
	if err := parseParams(req, &p); err != nil {
		return p, "", err
	}
	base, derr := decodeRef(p.BaseRef)
	if derr != nil {
		return p, "", derr
	}
	quote, derr := decodeRef(p.QuoteRef)
	if derr != nil {
		return p, "", derr
	}
	return p, hexOrEmpty(base) + hexOrEmpty(quote), nil
}

func (s *Server) handleSubscribeOrderbook(clientID string, req *Request) (interface{}, *Error) {
	p, topic, err := s.parsePairSub(req)
	if err != nil {
		return nil, err
	}
	return s.subscribe(clientID, p.SessionID, subscription.KindOrderbook, topic)
}

func (s *Server) handleUnsubscribeOrderbook(clientID string, req *Request) (interface{}, *Error) {
	p, topic, err := s.parsePairSub(req)
	if err != nil {
		return nil, err
	}
	return s.unsubscribe(clientID, p.SessionID, subscription.KindOrderbook, topic)
}

func (s *Server) handleSubscribeFills(clientID string, req *Request) (interface{}, *Error) {
	p, topic, err := s.parsePairSub(req)
	if err != nil {
		return nil, err
	}
	return s.subscribe(clientID, p.SessionID, subscription.KindFills, topic)
}

func (s *Server) handleUnsubscribeFills(clientID string, req *Request) (interface{}, *Error) {
	p, topic, err := s.parsePairSub(req)
	if err != nil {
		return nil, err
	}
	return s.unsubscribe(clientID, p.SessionID, subscription.KindFills, topic)
}

type subscribeScripthashParam struct {
	SessionID  uint64 `json:"session_id"`
	Scripthash string `json:"scripthash"`
}

func (s *Server) parseScripthashSub(req *Request) (subscribeScripthashParam, []byte, *Error) {
	var p subscribeScripthashParam
	if err := parseParams(req, &p); err != nil {
		return p, nil, err
	}
	scripthash, derr := decodeHex(p.Scripthash)
	if derr != nil {
		return p, nil, derr
	}
	return p, scripthash, nil
}

func (s *Server) handleSubscribeUserOrders(clientID string, req *Request) (interface{}, *Error) {
	p, scripthash, err := s.parseScripthashSub(req)
	if err != nil {
		return nil, err
	}
	return s.subscribe(clientID, p.SessionID, subscription.KindUserOrders, hexOrEmpty(scripthash))
}

func (s *Server) handleUnsubscribeUserOrders(clientID string, req *Request) (interface{}, *Error) {
	p, scripthash, err := s.parseScripthashSub(req)
	if err != nil {
		return nil, err
	}
	return s.unsubscribe(clientID, p.SessionID, subscription.KindUserOrders, hexOrEmpty(scripthash))
}

type subscribeNameParam struct {
	SessionID uint64 `json:"session_id"`
	Name      string `json:"name"`
}

func (s *Server) handleSubscribeWaveName(clientID string, req *Request) (interface{}, *Error) {
	var p subscribeNameParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	return s.subscribe(clientID, p.SessionID, subscription.KindWaveName, wave.NormalizeName(p.Name))
}

func (s *Server) handleUnsubscribeWaveName(clientID string, req *Request) (interface{}, *Error) {
	var p subscribeNameParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	return s.unsubscribe(clientID, p.SessionID, subscription.KindWaveName, wave.NormalizeName(p.Name))
}
