// Package ratelimit implements the two per-client limiters of core spec
// §4.7's rate-limiting paragraph, grounded on
// original_source/electrumx/server/rate_limiter.py: a token-bucket
// SubscriptionLimiter and a sliding-window RequestLimiter.
package ratelimit

import (
	"sync"
	"time"

	"github.com/radiant-labs/rxindexer/internal/log"
)

// SubscriptionConfig holds the tunables from rate_limiter.py's env-derived
// constructor arguments.
type SubscriptionConfig struct {
	MaxSubsPerClient    int
	SubRatePerSecond    float64
	SubBurstLimit       float64
	ViolationThreshold  int
	BlockDuration       time.Duration
}

// DefaultSubscriptionConfig matches the source's hardcoded fallback defaults.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{
		MaxSubsPerClient:   10000,
		SubRatePerSecond:   100,
		SubBurstLimit:      500,
		ViolationThreshold: 10,
		BlockDuration:      60 * time.Second,
	}
}

type clientSubState struct {
	subscriptions map[string]struct{}
	tokens        float64
	lastUpdate    time.Time
	violations    int
	blockedUntil  time.Time
}

// SubscriptionLimiter is a per-client token-bucket subscription limiter.
type SubscriptionLimiter struct {
	cfg SubscriptionConfig

	mu                 sync.Mutex
	clients            map[string]*clientSubState
	totalSubscriptions int
	totalViolations    int
}

// NewSubscriptionLimiter creates a limiter with cfg.
func NewSubscriptionLimiter(cfg SubscriptionConfig) *SubscriptionLimiter {
	return &SubscriptionLimiter{cfg: cfg, clients: make(map[string]*clientSubState)}
}

func (l *SubscriptionLimiter) state(clientID string) *clientSubState {
	s, ok := l.clients[clientID]
	if !ok {
		s = &clientSubState{
			subscriptions: make(map[string]struct{}),
			tokens:        l.cfg.SubBurstLimit,
			lastUpdate:    time.Now(),
		}
		l.clients[clientID] = s
	}
	return s
}

// CanSubscribe reports whether clientID may add subscriptionKey, returning a
// human-readable reason when denied.
func (l *SubscriptionLimiter) CanSubscribe(clientID, subscriptionKey string) (bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.state(clientID)
	now := time.Now()

	if s.blockedUntil.After(now) {
		return false, "client blocked due to rate limit violations"
	}

	if len(s.subscriptions) >= l.cfg.MaxSubsPerClient {
		l.recordViolationLocked(clientID, s, "max_subscriptions")
		return false, "maximum subscriptions exceeded"
	}

	if _, already := s.subscriptions[subscriptionKey]; already {
		return true, ""
	}

	l.refillLocked(s, now)
	if s.tokens < 1.0 {
		l.recordViolationLocked(clientID, s, "rate_limit")
		return false, "subscription rate limit exceeded, please slow down"
	}
	return true, ""
}

func (l *SubscriptionLimiter) refillLocked(s *clientSubState, now time.Time) {
	elapsed := now.Sub(s.lastUpdate).Seconds()
	s.lastUpdate = now
	s.tokens += elapsed * l.cfg.SubRatePerSecond
	if s.tokens > l.cfg.SubBurstLimit {
		s.tokens = l.cfg.SubBurstLimit
	}
}

func (l *SubscriptionLimiter) recordViolationLocked(clientID string, s *clientSubState, violationType string) {
	s.violations++
	l.totalViolations++

	log.RateLimit.Warn().
		Str("client_id", clientID).
		Str("violation_type", violationType).
		Int("violation_count", s.violations).
		Msg("subscription rate limit violation")

	if s.violations >= l.cfg.ViolationThreshold {
		s.blockedUntil = time.Now().Add(l.cfg.BlockDuration)
		log.RateLimit.Warn().
			Str("client_id", clientID).
			Dur("block_duration", l.cfg.BlockDuration).
			Msg("client blocked for excessive rate limit violations")
	}
}

// RecordSubscription commits a successful subscription, spending one token.
func (l *SubscriptionLimiter) RecordSubscription(clientID, subscriptionKey string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.state(clientID)
	if _, already := s.subscriptions[subscriptionKey]; already {
		return
	}
	s.subscriptions[subscriptionKey] = struct{}{}
	s.tokens -= 1.0
	l.totalSubscriptions++
}

// RecordUnsubscription removes subscriptionKey from clientID's tracked set.
func (l *SubscriptionLimiter) RecordUnsubscription(clientID, subscriptionKey string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.clients[clientID]
	if !ok {
		return
	}
	if _, ok := s.subscriptions[subscriptionKey]; ok {
		delete(s.subscriptions, subscriptionKey)
		l.totalSubscriptions--
	}
}

// RemoveClient drops all state for a disconnected client.
func (l *SubscriptionLimiter) RemoveClient(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.clients[clientID]; ok {
		l.totalSubscriptions -= len(s.subscriptions)
		delete(l.clients, clientID)
	}
}

// ResetClient clears violations and refills clientID's bucket (admin action).
func (l *SubscriptionLimiter) ResetClient(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.clients[clientID]
	if !ok {
		return
	}
	s.violations = 0
	s.blockedUntil = time.Time{}
	s.tokens = l.cfg.SubBurstLimit
}

// ClientStats is the per-client subscription rate-limit snapshot.
type ClientStats struct {
	Subscriptions    int
	MaxSubscriptions int
	Violations       int
	Blocked          bool
	TokensAvailable  int
}

// GetClientStats reports clientID's current state.
func (l *SubscriptionLimiter) GetClientStats(clientID string) ClientStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.clients[clientID]
	if !ok {
		return ClientStats{MaxSubscriptions: l.cfg.MaxSubsPerClient}
	}
	now := time.Now()
	return ClientStats{
		Subscriptions:    len(s.subscriptions),
		MaxSubscriptions: l.cfg.MaxSubsPerClient,
		Violations:       s.violations,
		Blocked:          s.blockedUntil.After(now),
		TokensAvailable:  int(s.tokens),
	}
}

// GlobalStats is the aggregate subscription rate-limit snapshot.
type GlobalStats struct {
	TotalClients       int
	TotalSubscriptions int
	TotalViolations    int
	BlockedClients     int
}

// GetGlobalStats reports limiter-wide counters.
func (l *SubscriptionLimiter) GetGlobalStats() GlobalStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	blocked := 0
	for _, s := range l.clients {
		if s.blockedUntil.After(now) {
			blocked++
		}
	}
	return GlobalStats{
		TotalClients:       len(l.clients),
		TotalSubscriptions: l.totalSubscriptions,
		TotalViolations:    l.totalViolations,
		BlockedClients:     blocked,
	}
}
