package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	SetFailed(span, err.Error(), attrs...)
}

// SetFailed marks span as failed when there is no error value, as for a node
// that reported an Error status.
func SetFailed(span trace.Span, description string, attrs ...attribute.KeyValue) {
	span.SetStatus(codes.Error, description)
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}
