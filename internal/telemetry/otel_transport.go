package telemetry

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// NewHttpClient returns a client whose outbound requests are traced. The
// timeout bounds the whole exchange; zero means no timeout.
func NewHttpClient(timeout time.Duration) *http.Client {
	spanName := func(_ string, r *http.Request) string {
		return "HTTP " + r.Method + " " + r.URL.Path
	}

	rt := otelhttp.NewTransport(
		http.DefaultTransport,
		otelhttp.WithPropagators(otel.GetTextMapPropagator()),
		otelhttp.WithTracerProvider(otel.GetTracerProvider()),
		otelhttp.WithSpanNameFormatter(spanName),
		otelhttp.WithServerName(serviceName),
	)

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
	}
}

// StartSpan opens a span on the global tracer provider.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, name)
}
