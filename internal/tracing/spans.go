package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrNoteID    = "note.id"
	AttrNoteField = "note.field"
	AttrHTMLBytes = "html.bytes"
	AttrTextRunes = "text.runes"
	AttrTextRuns  = "text.runs"
	AttrChanged   = "normalize.changed"
	AttrCacheHit  = "cache.hit"
)

// Span names.
const (
	SpanNoteLoad      = "notes.load"
	SpanNoteSave      = "notes.save"
	SpanNoteSaveHTML  = "notes.save_html"
	SpanNoteNormalize = "notes.normalize"
	SpanParse         = "notehtml.parse"
	SpanSerialize     = "notehtml.serialize"
)

// Event names.
const (
	EventStoreRead  = "store.read"
	EventStoreWrite = "store.write"
)

// Run starts a span named name, calls fn inside it and records fn's error
// on the span.
func Run(ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context, trace.Span) error, attrs ...attribute.KeyValue) error {
	ctx, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	if err := fn(ctx, span); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// TraceID returns the trace id of the span in ctx, or "" when there is none.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
