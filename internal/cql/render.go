package cql

import (
	"html"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Class is the semantic category of a terminal chunk.
type Class string

const (
	ClassNone     Class = ""
	ClassBracket  Class = "sh-bracket"
	ClassOperator Class = "sh-operator"
	ClassKeyword  Class = "sh-keyword"
	ClassRegexp   Class = "sh-regexp"
	ClassAttr     Class = "sh-attr"
	ClassError    Class = "sh-error"
	ClassLook     Class = "sh-rg-look"
	ClassAttrOK   Class = "sh-attr-known"
	ClassStructOK Class = "sh-struct-known"
	ClassTag      Class = "sh-tag"
)

// MarkKind identifies a wrap inserted around a range of chunks.
type MarkKind int

const (
	MarkAttr MarkKind = iota
	MarkStruct
	MarkStructAttr
	MarkTag
	MarkLook
	MarkCustom
)

// DataAttr is a data-* attribute carried by a mark.
type DataAttr struct {
	Name  string
	Value string
}

// Mark describes a wrap. Custom marks carry caller-supplied markup verbatim.
type Mark struct {
	Kind  MarkKind
	Title string
	Data  []DataAttr
	Open  string
	Close string
}

// Renderer turns chunks and marks into output text.
type Renderer interface {
	Terminal(class Class, text string) string
	Open(m Mark) string
	Close(m Mark) string
	Unrecognized(text, title string) string
	LineBreak() string
}

// HTMLRenderer produces the markup used by web clients. All text is escaped.
type HTMLRenderer struct{}

func (HTMLRenderer) Terminal(class Class, text string) string {
	if class == ClassNone {
		return html.EscapeString(text)
	}
	return `<span class="` + string(class) + `">` + html.EscapeString(text) + `</span>`
}

func (HTMLRenderer) Open(m Mark) string {
	var b strings.Builder
	switch m.Kind {
	case MarkCustom:
		return m.Open
	case MarkTag:
		b.WriteString(`<a class="` + string(ClassTag) + `"`)
	case MarkLook:
		b.WriteString(`<span class="` + string(ClassLook) + `"`)
	case MarkStruct, MarkStructAttr:
		b.WriteString(`<span class="` + string(ClassStructOK) + `"`)
	default:
		b.WriteString(`<span class="` + string(ClassAttrOK) + `"`)
	}
	for _, d := range m.Data {
		b.WriteString(` data-` + d.Name + `="` + html.EscapeString(d.Value) + `"`)
	}
	if m.Title != "" {
		b.WriteString(` title="` + html.EscapeString(m.Title) + `"`)
	}
	b.WriteString(">")
	return b.String()
}

func (HTMLRenderer) Close(m Mark) string {
	switch m.Kind {
	case MarkCustom:
		return m.Close
	case MarkTag:
		return "</a>"
	}
	return "</span>"
}

func (HTMLRenderer) Unrecognized(text, title string) string {
	return `<span class="` + string(ClassError) + `" title="` + html.EscapeString(title) + `">` +
		html.EscapeString(text) + `</span>`
}

func (HTMLRenderer) LineBreak() string {
	return "<br />"
}

// ANSIRenderer colors terminals with lipgloss styles. Wraps are invisible in
// a terminal, so only terminals and the unrecognized tail are styled.
type ANSIRenderer struct{}

var classStyles = map[Class]lipgloss.Style{
	ClassBracket:  BracketStyle,
	ClassOperator: OperatorStyle,
	ClassKeyword:  KeywordStyle,
	ClassRegexp:   RegexpStyle,
	ClassAttr:     AttrStyle,
}

func (ANSIRenderer) Terminal(class Class, text string) string {
	style, ok := classStyles[class]
	if !ok {
		return text
	}
	return renderLines(style, text)
}

func (ANSIRenderer) Open(Mark) string  { return "" }
func (ANSIRenderer) Close(Mark) string { return "" }

func (ANSIRenderer) Unrecognized(text, _ string) string {
	return renderLines(ErrorStyle, text)
}

// renderLines styles each line separately so lipgloss does not pad
// multi-line text into a block.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (ANSIRenderer) LineBreak() string {
	return "\n"
}

func dataIdx(from, to int) []DataAttr {
	return []DataAttr{
		{Name: "leftIdx", Value: strconv.Itoa(from)},
		{Name: "rightIdx", Value: strconv.Itoa(to)},
	}
}
