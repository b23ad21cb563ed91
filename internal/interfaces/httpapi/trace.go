package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	handlerTracer   = otel.Tracer("jersey-metadata/internal/interfaces/httpapi")
	handlerNoopSpan = trace.SpanFromContext(context.Background())
)

// startSpan opens a child of the request span for Handler methods. Anything
// else, or a request that was not traced, gets a no-op span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !isHandlerSpan(name) || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, handlerNoopSpan
	}
	return handlerTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

// failSpan marks span as failed with the status code the client will see.
func failSpan(span trace.Span, status int, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
