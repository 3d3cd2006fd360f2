package cql

import "strings"

// AttrHelper answers corpus schema questions for the highlighter.
type AttrHelper interface {
	AttrExists(name string) bool
	IsTagAttr(name string) bool
	StructExists(name string) bool
	StructAttrExists(structName, attrName string) bool
}

// Translator renders user-facing messages. Placeholders in the message are
// written as {name}.
type Translator interface {
	Translate(key string, subs map[string]string) string
}

// Message keys passed to the Translator.
const (
	KeyUnrecognizedInput = "query__unrecognized_input_{wrongChar}{column}"
	KeyEndOfInput        = "query__end_of_input"
	KeyParserFailure     = "query__parser_failure"
	KeyPosAttrTooltip    = "query__posattr_tooltip"
	KeyStructTooltip     = "query__struct_tooltip"
	KeyStructAttrTooltip = "query__structattr_tooltip"
	KeyTagEditorTooltip  = "query__tag_editor_tooltip"
)

// WrapRangeFunc decorates an attribute value spanning the absolute query
// offsets [start,end). Returning ok=false leaves the value undecorated.
type WrapRangeFunc func(start, end int) (prefix, suffix string, ok bool)

type noAttrs struct{}

func (noAttrs) AttrExists(string) bool               { return false }
func (noAttrs) IsTagAttr(string) bool                { return false }
func (noAttrs) StructExists(string) bool             { return false }
func (noAttrs) StructAttrExists(string, string) bool { return false }

// keyTranslator returns the key with placeholders substituted.
type keyTranslator struct{}

func (keyTranslator) Translate(key string, subs map[string]string) string {
	return Substitute(key, subs)
}

// Substitute replaces every {name} in msg with subs[name].
func Substitute(msg string, subs map[string]string) string {
	if len(subs) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(subs)*2)
	for k, v := range subs {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
