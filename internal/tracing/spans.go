package tracing

// Span attribute keys.
const (
	AttrQueryLength    = "query.length"
	AttrQuerySupertype = "query.supertype"
	AttrCorpusName     = "corpus.name"
	AttrLocale         = "locale"

	AttrHighlightAttrs   = "highlight.attrs"
	AttrHighlightPQItems = "highlight.pq_items"
	AttrHighlightError   = "highlight.error"
	AttrOutputFormat     = "output.format"
)

// Span names.
const (
	SpanHighlight  = "cqlhl.highlight"
	SpanLoadSchema = "cqlhl.schema.load"
)

// Event names.
const (
	EventQueryRecovered = "query.recovered"
)
