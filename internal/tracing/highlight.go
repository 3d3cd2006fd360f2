package tracing

import (
	"context"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/cqlhl/internal/cql"
)

// Highlight runs cql.Highlight inside a span. A nil tracer runs it untraced.
// Extra attributes, such as the corpus name, are added to the span.
func Highlight(ctx context.Context, tracer trace.Tracer, query string, opts cql.Options, extra ...attribute.KeyValue) (cql.Result, error) {
	if tracer == nil {
		return cql.Highlight(query, opts)
	}

	supertype := opts.Supertype
	if supertype == "" {
		supertype = cql.SupertypeConc
	}
	_, span := tracer.Start(ctx, SpanHighlight, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	span.SetAttributes(
		attribute.Int(AttrQueryLength, utf8.RuneCountInString(query)),
		attribute.String(AttrQuerySupertype, supertype.String()),
	)
	span.SetAttributes(extra...)

	res, err := cql.Highlight(query, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	span.SetAttributes(
		attribute.Int(AttrHighlightAttrs, len(res.Attrs)),
		attribute.Int(AttrHighlightPQItems, len(res.PQItems)),
	)
	if res.Error != "" {
		span.AddEvent(EventQueryRecovered, trace.WithAttributes(attribute.String(AttrHighlightError, res.Error)))
	}
	span.SetStatus(codes.Ok, "")
	return res, nil
}
