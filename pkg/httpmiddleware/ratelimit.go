package httpmiddleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the per-client fixed window limiter.
type RateLimitConfig struct {
	// Max requests per client per window. Zero disables limiting.
	Max    int
	Window time.Duration
	// Key identifies the client. Defaults to ClientIP.
	Key func(*http.Request) string
	// Now is the clock, time.Now when nil.
	Now func() time.Time
}

type window struct {
	start time.Time
	count int
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	cfg RateLimitConfig

	mu      sync.Mutex
	windows map[string]*window
}

func NewLimiter(cfg RateLimitConfig) *Limiter {
	if cfg.Key == nil {
		cfg.Key = ClientIP
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Limiter{cfg: cfg, windows: make(map[string]*window)}
}

// Allow records one request for key and reports whether it fits the limit,
// how many requests remain and when the window resets.
func (l *Limiter) Allow(key string) (ok bool, remaining int, reset time.Time) {
	now := l.cfg.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, found := l.windows[key]
	if !found || now.Sub(w.start) >= l.cfg.Window {
		w = &window{start: now}
		l.windows[key] = w
	}
	reset = w.start.Add(l.cfg.Window)
	if w.count >= l.cfg.Max {
		return false, 0, reset
	}
	w.count++
	return true, l.cfg.Max - w.count, reset
}

// Sweep drops windows that have expired.
func (l *Limiter) Sweep() {
	now := l.cfg.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.windows {
		if now.Sub(w.start) >= l.cfg.Window {
			delete(l.windows, key)
		}
	}
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Run sweeps expired windows once per window until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.Window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Middleware rejects requests over the limit with 429 and sets the
// X-RateLimit-* headers on every response.
func (l *Limiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		if l.cfg.Max <= 0 || l.cfg.Window <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, reset := l.Allow(l.cfg.Key(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Max))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
			if !ok {
				retry := int(reset.Sub(l.cfg.Now()).Round(time.Second) / time.Second)
				h.Set("Retry-After", strconv.Itoa(max(retry, 1)))
				WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit starts a limiter whose sweeper stops with ctx.
func RateLimit(ctx context.Context, cfg RateLimitConfig) Middleware {
	l := NewLimiter(cfg)
	if cfg.Window > 0 {
		go l.Run(ctx)
	}
	return l.Middleware()
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
