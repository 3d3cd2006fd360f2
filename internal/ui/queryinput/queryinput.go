// Package queryinput provides a text input with live CQL syntax highlighting.
package queryinput

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/zjrosen/cqlhl/internal/cql"
	"github.com/zjrosen/cqlhl/internal/log"
)

// ChangedMsg is emitted after an edit changed the value.
type ChangedMsg struct {
	Value string
}

// Model is a single-line query input. Every edit re-highlights the query;
// the latest Result replaces the previous one.
type Model struct {
	value       []rune
	cursor      int // rune index, 0 = before the first rune
	focused     bool
	width       int
	placeholder string

	opts   cql.Options
	result cql.Result
	err    error

	placeholderStyle lipgloss.Style
}

// New creates an input highlighting with opts. The renderer is always ANSI.
func New(opts cql.Options) Model {
	opts.Renderer = cql.ANSIRenderer{}
	return Model{
		width:            40,
		opts:             opts,
		placeholderStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

func (m Model) Value() string {
	return string(m.value)
}

// SetValue replaces the text, clamps the cursor and re-highlights.
func (m *Model) SetValue(v string) {
	m.value = []rune(v)
	if m.cursor > len(m.value) {
		m.cursor = len(m.value)
	}
	m.rehighlight()
}

func (m Model) Cursor() int {
	return m.cursor
}

// SetCursor moves the cursor, clamped to the value.
func (m *Model) SetCursor(pos int) {
	m.cursor = max(0, min(pos, len(m.value)))
}

// Options returns the highlighting options.
func (m Model) Options() cql.Options {
	return m.opts
}

// SetOptions changes the highlighting options and re-highlights.
func (m *Model) SetOptions(opts cql.Options) {
	opts.Renderer = cql.ANSIRenderer{}
	m.opts = opts
	m.rehighlight()
}

// Result is the highlighting of the current value.
func (m Model) Result() cql.Result {
	return m.result
}

// Err is the error of the last highlighting run, set only in strict mode.
func (m Model) Err() error {
	return m.err
}

func (m Model) Focused() bool {
	return m.focused
}

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
}

// SetWidth sets the display width.
func (m *Model) SetWidth(w int) {
	m.width = max(1, w)
}

func (m Model) Width() int {
	return m.width
}

// Height is the number of lines View renders.
func (m Model) Height() int {
	return len(m.lines())
}

func (m *Model) SetPlaceholder(p string) {
	m.placeholder = p
}

func (m *Model) rehighlight() {
	if len(m.value) == 0 {
		m.result, m.err = cql.Result{}, nil
		return
	}
	m.result, m.err = cql.Highlight(string(m.value), m.opts)
	if m.err != nil {
		log.Debug(log.CatUI, "Highlight failed", "error", m.err.Error())
	}
}

// Update handles key messages. Edits return a command emitting ChangedMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	before := string(m.value)
	switch key.Type {
	case tea.KeyLeft:
		if key.Alt {
			m.cursor = prevWordStart(m.value, m.cursor)
		} else if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyRight:
		if key.Alt {
			m.cursor = nextWordEnd(m.value, m.cursor)
		} else if m.cursor < len(m.value) {
			m.cursor++
		}
	case tea.KeyCtrlF:
		m.cursor = nextWordEnd(m.value, m.cursor)
	case tea.KeyCtrlB:
		m.cursor = prevWordStart(m.value, m.cursor)
	case tea.KeyHome, tea.KeyCtrlA:
		m.cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		m.cursor = len(m.value)
	case tea.KeyBackspace:
		if m.cursor > 0 {
			m.value = append(m.value[:m.cursor-1:m.cursor-1], m.value[m.cursor:]...)
			m.cursor--
		}
	case tea.KeyDelete:
		if m.cursor < len(m.value) {
			m.value = append(m.value[:m.cursor:m.cursor], m.value[m.cursor+1:]...)
		}
	case tea.KeyCtrlW:
		start := prevWordStart(m.value, m.cursor)
		m.value = append(m.value[:start:start], m.value[m.cursor:]...)
		m.cursor = start
	case tea.KeyCtrlK:
		m.value = m.value[:m.cursor:m.cursor]
	case tea.KeyCtrlU:
		m.value = append([]rune(nil), m.value[m.cursor:]...)
		m.cursor = 0
	case tea.KeyRunes:
		// Option+arrow on macOS arrives as alt+f / alt+b.
		if key.Alt && len(key.Runes) == 1 {
			switch key.Runes[0] {
			case 'f':
				m.cursor = nextWordEnd(m.value, m.cursor)
				return m, nil
			case 'b':
				m.cursor = prevWordStart(m.value, m.cursor)
				return m, nil
			}
		}
		m.insert(key.Runes)
	case tea.KeySpace:
		m.insert([]rune{' '})
	}

	if string(m.value) == before {
		return m, nil
	}
	m.rehighlight()
	value := string(m.value)
	return m, func() tea.Msg { return ChangedMsg{Value: value} }
}

func (m *Model) insert(rs []rune) {
	// Pasted line breaks and tabs would break the single-line layout.
	rs = []rune(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(string(rs)))
	tail := append([]rune(nil), m.value[m.cursor:]...)
	m.value = append(append(m.value[:m.cursor:m.cursor], rs...), tail...)
	m.cursor += len(rs)
}

// Reverse video toggles that leave the surrounding colors alone.
const (
	cursorOn  = "\x1b[7m"
	cursorOff = "\x1b[27m"
)

// View renders the highlighted query wrapped to the input width.
func (m Model) View() string {
	return strings.Join(m.lines(), "\n")
}

func (m Model) lines() []string {
	if len(m.value) == 0 {
		if m.focused {
			return []string{cursorOn + " " + cursorOff}
		}
		if m.placeholder != "" {
			return []string{m.placeholderStyle.Render(m.placeholder)}
		}
		return []string{""}
	}

	text := m.result.Markup
	if text == "" {
		text = string(m.value)
	}
	if m.focused {
		text = m.withCursor(text)
	}
	if ansi.StringWidth(text) <= m.width {
		return []string{text}
	}
	return strings.Split(wrap.String(wordwrap.String(text, m.width), m.width), "\n")
}

// withCursor reverses the cell under the cursor. Highlighted text keeps the
// display width of the raw value, so the rune cursor maps to a cell column.
func (m Model) withCursor(highlighted string) string {
	if m.cursor >= len(m.value) {
		return highlighted + cursorOn + " " + cursorOff
	}
	col := runewidth.StringWidth(string(m.value[:m.cursor]))
	under := m.value[m.cursor]
	w := max(1, runewidth.RuneWidth(under))
	return ansi.Truncate(highlighted, col, "") +
		cursorOn + string(under) + cursorOff +
		ansi.TruncateLeft(highlighted, col+w, "")
}

// nextWordEnd skips non-word runes, then word runes.
func nextWordEnd(s []rune, pos int) int {
	for pos < len(s) && !isWordChar(s[pos]) {
		pos++
	}
	for pos < len(s) && isWordChar(s[pos]) {
		pos++
	}
	return pos
}

// prevWordStart skips non-word runes backward, then word runes.
func prevWordStart(s []rune, pos int) int {
	for pos > 0 && !isWordChar(s[pos-1]) {
		pos--
	}
	for pos > 0 && isWordChar(s[pos-1]) {
		pos--
	}
	return pos
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
