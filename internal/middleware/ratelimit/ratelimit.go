// Package ratelimit throttles write requests per client with a fixed window.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	start    time.Time
	requests int
}

type Config struct {
	// Requests allowed per client within Period.
	Requests int
	Period   time.Duration
}

func DefaultConfig() Config {
	return Config{Requests: 60, Period: time.Minute}
}

func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.Requests <= 0 {
		cfg.Requests = def.Requests
	}
	if cfg.Period <= 0 {
		cfg.Period = def.Period
	}
	return &Limiter{
		clients: make(map[string]*window),
		limit:   cfg.Requests,
		period:  cfg.Period,
		now:     time.Now,
	}
}

// Allow counts a request from client and reports whether it fits the window.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[client]
	if !ok || now.Sub(w.start) >= l.period {
		l.clients[client] = &window{start: now, requests: 1}
		return true
	}
	w.requests++
	return w.requests <= l.limit
}

// Sweep forgets clients whose window ended and returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.period)
	removed := 0
	for k, w := range l.clients {
		if w.start.Before(cutoff) {
			delete(l.clients, k)
			removed++
		}
	}
	return removed
}

// CleanExpired lets a cache janitor sweep the limiter.
func (l *Limiter) CleanExpired() int { return l.Sweep() }

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware limits non-GET requests. onLimit writes the rejection; when nil
// a plain 429 is sent.
func (l *Limiter) Middleware(clientIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			if !l.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
