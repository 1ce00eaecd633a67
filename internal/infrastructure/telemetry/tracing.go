package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer used for business spans
const TracerName = "mbvogue-storefront"

// Business span attributes
const (
	AttrReference     = attribute.Key("payment.reference")
	AttrPaymentStatus = attribute.Key("payment.status")
	AttrCheckoutToken = attribute.Key("checkout.token")
	AttrOrderNumber   = attribute.Key("order.number")
	AttrCartLines     = attribute.Key("cart.lines")
)

// Start opens an internal span named component.operation on the global
// provider. The caller ends it.
//
//	ctx, span := telemetry.Start(ctx, "payment", "verify", telemetry.AttrReference.String(ref))
//	defer span.End()
func Start(ctx context.Context, component, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, component+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...))
}

// Fail records err on span and marks it failed. A nil err is ignored.
func Fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceID returns the trace id of the span in ctx, or ""
func TraceID(ctx context.Context) string {
	id := trace.SpanContextFromContext(ctx).TraceID()
	if !id.IsValid() {
		return ""
	}
	return id.String()
}
