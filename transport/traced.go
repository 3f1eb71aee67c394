package transport

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracedClient wraps a Client with OpenTelemetry tracing. Every Post is
// recorded as a "neorest.transport.post" span carrying the endpoint path and
// response status.
//
// Thread-safety: safe for concurrent access (delegates to the inner client).
type TracedClient struct {
	inner  Client
	tracer trace.Tracer
}

// NewTracedClient creates a traced transport client around inner.
func NewTracedClient(inner Client, tracer trace.Tracer) *TracedClient {
	return &TracedClient{
		inner:  inner,
		tracer: tracer,
	}
}

// Post delegates to the inner client inside a span.
func (c *TracedClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "neorest.transport.post",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(attribute.String("neorest.endpoint", path))

	resp, err := c.inner.Post(ctx, path, body)
	if err != nil {
		if serverErr, ok := err.(*ServerError); ok {
			span.SetAttributes(
				attribute.Int("http.status_code", serverErr.Status),
				attribute.String("neorest.exception", serverErr.Failure.Exception),
			)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.Status))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}
