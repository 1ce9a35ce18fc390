package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func get(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Window(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := NewLimiter(RateLimitConfig{Max: 2, Window: time.Minute, Now: clock.Now})
	h := l.Middleware()(okHandler())

	w := get(h, "10.0.0.1:1000")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = get(h, "10.0.0.1:1001")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = get(h, "10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"code":429,"message":"rate limit exceeded"}`, w.Body.String())

	// Other clients are counted separately.
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.2:1000").Code)

	clock.t = clock.t.Add(time.Minute)
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1003").Code)
}

func TestRateLimit_Sweep(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := NewLimiter(RateLimitConfig{Max: 5, Window: time.Second, Now: clock.Now})

	l.Allow("a")
	l.Allow("b")
	require.Equal(t, 2, l.Len())

	clock.t = clock.t.Add(500 * time.Millisecond)
	l.Allow("c")
	clock.t = clock.t.Add(600 * time.Millisecond)
	l.Sweep()
	assert.Equal(t, 1, l.Len())
}

func TestRateLimit_Disabled(t *testing.T) {
	h := NewLimiter(RateLimitConfig{}).Middleware()(okHandler())
	for range 10 {
		w := get(h, "10.0.0.1:1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_StopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	h := RateLimit(ctx, RateLimitConfig{Max: 1, Window: 10 * time.Millisecond})(okHandler())
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1").Code)
	cancel()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "remote addr", remote: "192.168.1.1:4444", want: "192.168.1.1"},
		{name: "remote without port", remote: "192.168.1.1", want: "192.168.1.1"},
		{name: "forwarded list", headers: map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"}, remote: "3.3.3.3:1", want: "1.1.1.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "4.4.4.4"}, remote: "3.3.3.3:1", want: "4.4.4.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}
