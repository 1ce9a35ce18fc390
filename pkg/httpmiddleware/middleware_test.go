package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrap_Order(t *testing.T) {
	var calls []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Wrap(okHandler(), mark("outer"), mark("middle"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "middle", "inner"}, calls)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{name: "generated", incoming: ""},
		{name: "reused", incoming: "abc-123", reused: true},
		{name: "too long", incoming: strings.Repeat("a", 129)},
		{name: "control chars", incoming: "bad\x01id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, got, seen)
			if tt.reused {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.Len(t, got, 36)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), InjectLogger(zap.New(core)), Recovery())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":500,"message":"internal server error"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

type telemetry struct{}

func (telemetry) TracerProvider() trace.TracerProvider { return tracenoop.NewTracerProvider() }

func (telemetry) MeterProvider() metric.MeterProvider { return metricnoop.NewMeterProvider() }

func TestLogRequests_Route(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "404" {
			WriteError(w, http.StatusNotFound, "booking not found")
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	h := Wrap(mux,
		RequestID(),
		InjectLogger(zap.New(core)),
		Instrument("hotel-api", telemetry{}),
		LogRequests(),
		Route(),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/1", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/404", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	ok := logs.FilterMessage("Request").All()
	require.Len(t, ok, 1)
	fields := ok[0].ContextMap()
	assert.Equal(t, "GET /api/bookings/{id}", fields["route"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "req-1", fields["request_id"])

	rejected := logs.FilterMessage("Request rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, int64(http.StatusNotFound), rejected[0].ContextMap()["status"])
}
