package httpmiddleware

import (
	"context"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// InjectLogger makes lg the base logger of every request context, tagged
// with the request id when RequestID runs first.
func InjectLogger(lg *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := zctx.Base(r.Context(), lg)
			if id := RequestIDFromContext(ctx); id != "" {
				ctx = zctx.With(ctx, zap.String("request_id", id))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type routeKey struct{}

// route is filled in by Route once the mux has matched the request.
type route struct {
	pattern string
}

func routeFromContext(ctx context.Context) *route {
	rt, _ := ctx.Value(routeKey{}).(*route)
	return rt
}

// LogRequests logs one line per request with the matched route, status and
// duration.
func LogRequests() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rt := &route{}
			r = r.WithContext(context.WithValue(r.Context(), routeKey{}, rt))

			m := httpsnoop.CaptureMetrics(next, w, r)

			lg := zctx.From(r.Context())
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", rt.pattern),
				zap.Int("status", m.Code),
				zap.Int64("bytes", m.Written),
				zap.Duration("duration", m.Duration),
			}
			switch {
			case m.Code >= http.StatusInternalServerError:
				lg.Error("Request failed", fields...)
			case m.Code >= http.StatusBadRequest:
				lg.Warn("Request rejected", fields...)
			default:
				lg.Info("Request", fields...)
			}
		})
	}
}

// Route must be the innermost middleware, directly around the ServeMux. It
// reads the pattern the mux matched and publishes it to the span name, the
// otelhttp metric labels and LogRequests.
func Route() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			pattern := r.Pattern
			if pattern == "" {
				return
			}
			if rt := routeFromContext(r.Context()); rt != nil {
				rt.pattern = pattern
			}
			trace.SpanFromContext(r.Context()).SetName(pattern)
			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("http.route", pattern))
			if labeler, ok := otelhttp.LabelerFromContext(r.Context()); ok {
				labeler.Add(attribute.String("http.route", pattern))
			}
		})
	}
}
