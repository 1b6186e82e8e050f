package telemetry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName names the tracer used for inbound requests.
	TracerName = "github.com/emporium-commerce/emporium/http"

	// TraceIDHeader carries the request's trace ID back to the caller.
	TraceIDHeader = "X-Trace-ID"
)

type middlewareConfig struct {
	provider   trace.TracerProvider
	propagator propagation.TextMapPropagator
}

// Option configures Middleware.
type Option func(*middlewareConfig)

// WithTracerProvider records spans on p instead of the global provider.
func WithTracerProvider(p trace.TracerProvider) Option {
	return func(c *middlewareConfig) {
		if p != nil {
			c.provider = p
		}
	}
}

// WithPropagator extracts inbound trace context with p instead of the global
// propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *middlewareConfig) {
		if p != nil {
			c.propagator = p
		}
	}
}

// Middleware starts a server span for each request. The span is named after
// the matched chi route once the handler has run, so it must be installed on
// the root router.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := middlewareConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provider, propagator := cfg.provider, cfg.propagator
			if provider == nil {
				provider = otel.GetTracerProvider()
			}
			if propagator == nil {
				propagator = otel.GetTextMapPropagator()
			}

			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := provider.Tracer(TracerName).Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPMethod(r.Method),
					semconv.HTTPURL(r.URL.String()),
					semconv.NetHostName(r.Host),
					semconv.UserAgentOriginal(r.UserAgent()),
				),
			)
			defer span.End()

			if sc := span.SpanContext(); sc.HasTraceID() {
				w.Header().Set(TraceIDHeader, sc.TraceID().String())
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					span.SetName(r.Method + " " + pattern)
					span.SetAttributes(semconv.HTTPRoute(pattern))
				}
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			span.SetAttributes(semconv.HTTPStatusCode(status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		})
	}
}
