// Package ratelimit provides per-key token bucket rate limiting for the
// playground's MCP tools and HTTP action endpoint.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLimited is returned by CheckLimit when a key has no tokens left.
var ErrLimited = errors.New("rate limit exceeded")

// Limit is a refill rate (tokens per second) and a burst size.
// The burst size is also the number of tokens a new key starts with.
type Limit struct {
	Rate  float64
	Burst int
}

// PerMinute returns a Limit allowing n requests per minute with the given burst.
func PerMinute(n float64, burst int) Limit {
	return Limit{Rate: n / 60.0, Burst: burst}
}

// Limiter implements a per-key token bucket rate limiter.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   Limit
	nowFunc func() time.Time // injectable clock for testing
}

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

// NewLimiter creates a rate limiter with the given rate (tokens/sec) and burst size.
func NewLimiter(rate float64, burst int) *Limiter {
	return New(Limit{Rate: rate, Burst: burst})
}

// New creates a rate limiter enforcing lim for every key.
func New(lim Limit) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		limit:   lim,
		nowFunc: time.Now,
	}
}

// Allow consumes one token for key and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.refill(key)
	if b.tokens < 1.0 {
		return false
	}
	b.tokens--
	return true
}

// Tokens returns the tokens currently available to key, after refill.
func (l *Limiter) Tokens(key string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refill(key).tokens
}

func (l *Limiter) refill(key string) *bucket {
	now := l.nowFunc()
	burst := float64(l.limit.Burst)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: burst, lastCheck: now}
		l.buckets[key] = b
		return b
	}

	if elapsed := now.Sub(b.lastCheck).Seconds(); elapsed > 0 {
		b.tokens = min(b.tokens+l.limit.Rate*elapsed, burst)
		b.lastCheck = now
	}
	return b
}

// ToolLimiters maps tool names to their rate limiters.
type ToolLimiters map[string]*Limiter

// toolLimits lists the default limit per MCP tool. Mutating tools are cheap
// but each returns a full snapshot, so bursts are capped.
var toolLimits = map[string]Limit{
	"vector_push":  PerMinute(120, 20),
	"vector_pop":   PerMinute(120, 20),
	"vector_clear": PerMinute(30, 5),
	"vector_reset": PerMinute(10, 2),
	"vector_type":  PerMinute(30, 5),
	"string_set":   PerMinute(120, 20),
	"string_clear": PerMinute(30, 5),
	"view_switch":  PerMinute(30, 5),
	"state":        PerMinute(60, 10),
}

// NewToolLimiters creates the default set of per-tool rate limiters.
func NewToolLimiters() ToolLimiters {
	limiters := make(ToolLimiters, len(toolLimits))
	for name, lim := range toolLimits {
		limiters[name] = New(lim)
	}
	return limiters
}

// CheckLimit checks the rate limit for a given tool name.
// Tools without a configured limiter are always allowed.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil
	}
	if !limiter.Allow(toolName) {
		return fmt.Errorf("%w for %s, please try again shortly", ErrLimited, toolName)
	}
	return nil
}
