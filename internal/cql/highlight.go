package cql

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/zjrosen/cqlhl/internal/cql/grammar"
	"github.com/zjrosen/cqlhl/internal/log"
)

// ErrInvalidQuery wraps grammar failures returned in strict mode.
var ErrInvalidQuery = errors.New("invalid query")

// recoverySplit separates the unconsumed suffix into the token the grammar
// choked on, the whitespace after it and the rest.
var recoverySplit = regexp.MustCompile(`^([^\s]+|)(\s+)(.+)$`)

// Options configures a highlighting run. Zero values are usable: nil Attrs
// knows no attributes, nil Translator returns message keys and nil Renderer
// renders HTML.
type Options struct {
	Supertype     Supertype
	Attrs         AttrHelper
	Translator    Translator
	Renderer      Renderer
	WrapLongQuery bool
	WrapRange     WrapRangeFunc
	// Strict stops at the first grammar error and returns it.
	Strict bool
}

func (o Options) withDefaults() Options {
	if o.Supertype == "" {
		o.Supertype = SupertypeConc
	}
	if o.Attrs == nil {
		o.Attrs = noAttrs{}
	}
	if o.Translator == nil {
		o.Translator = keyTranslator{}
	}
	if o.Renderer == nil {
		o.Renderer = HTMLRenderer{}
	}
	return o
}

// Result is the outcome of highlighting a query. Error is the translated
// description of the first grammar error, empty when the query parsed.
type Result struct {
	Markup  string         `json:"markup"`
	Attrs   []ParsedAttr   `json:"attrs"`
	PQItems []ParsedPQItem `json:"pqItems"`
	Error   string         `json:"error,omitempty"`
}

// Highlight renders query and extracts its entities. When the grammar cannot
// consume the whole query, the remainder is re-parsed with the next entry
// rules of the supertype after skipping one token at a time; whatever is
// still left is marked as unrecognized.
func Highlight(query string, opts Options) (Result, error) {
	o := opts.withDefaults()
	runes := []rune(query)
	h := &highlighter{opts: &o, query: runes}
	return h.highlight(runes, o.Supertype.EntryRules(), 0, 0)
}

type highlighter struct {
	opts *Options
	// query is the full query; passes over suffixes report columns in it.
	query []rune
}

func (h *highlighter) highlight(query []rune, rules []string, base, depth int) (Result, error) {
	if len(query) == 0 || len(rules) == 0 {
		return Result{}, nil
	}

	stack := NewTraceStack()
	err := grammar.CQL.Parse(string(query), grammar.StartRule(rules[0]), grammar.WithTracer(stack))
	if err != nil && h.opts.Strict {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	store, lastPos := stack.Reduce()
	res := Result{Markup: colorize(query, store, base, h.opts)}
	res.Attrs, res.PQItems = ExtractEntities(query, store.NonTerminals())
	if err != nil {
		res.Error = h.errorMessage(err, base)
		log.Debug(log.CatHighlight, "Partial parse",
			"rule", rules[0], "depth", depth, "lastPos", lastPos, "len", len(query), "error", err.Error())
	}

	if lastPos >= len(query) {
		return res, nil
	}

	if len(rules) > 1 {
		if m := recoverySplit.FindStringSubmatch(string(query[lastPos:])); m != nil {
			next := rules
			if m[1] != "" {
				next = rules[1:]
			}
			skipped := m[1] + m[2]
			skippedLen := len([]rune(skipped))
			sub, err := h.highlight([]rune(m[3]), next, base+lastPos+skippedLen, depth+1)
			if err != nil {
				return Result{}, err
			}
			marker := h.opts.Renderer.Terminal(ClassNone, skipped)
			if depth == 0 {
				marker = h.opts.Renderer.Unrecognized(skipped, res.Error)
			}
			res.Markup += marker + sub.Markup
			return res, nil
		}
	}

	res.Markup += h.opts.Renderer.Unrecognized(string(query[lastPos:]), res.Error)
	return res, nil
}

// errorMessage translates a grammar error. The column is 1-based within
// the line of the full query holding the error, whatever pass found it.
func (h *highlighter) errorMessage(err error, base int) string {
	var synErr *grammar.SyntaxError
	if !errors.As(err, &synErr) {
		return h.opts.Translator.Translate(KeyParserFailure, nil)
	}
	wrongChar := synErr.Found
	if synErr.AtEOF {
		wrongChar = h.opts.Translator.Translate(KeyEndOfInput, nil)
	}
	return h.opts.Translator.Translate(KeyUnrecognizedInput, map[string]string{
		"wrongChar": wrongChar,
		"column":    strconv.Itoa(h.column(base + synErr.Location.Start.Offset)),
	})
}

// column converts an offset of the full query into a 1-based column.
func (h *highlighter) column(offset int) int {
	offset = min(max(offset, 0), len(h.query))
	lineStart := 0
	for i := offset - 1; i >= 0; i-- {
		if h.query[i] == '\n' {
			lineStart = i + 1
			break
		}
	}
	return offset - lineStart + 1
}
