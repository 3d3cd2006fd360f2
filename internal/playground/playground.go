// Package playground provides an interactive query editor that shows the
// highlighting, the extracted entities and the grammar error of a CQL query
// as it is typed.
package playground

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/cqlhl/internal/config"
	"github.com/zjrosen/cqlhl/internal/cql"
	"github.com/zjrosen/cqlhl/internal/i18n"
	"github.com/zjrosen/cqlhl/internal/keys"
	"github.com/zjrosen/cqlhl/internal/log"
	"github.com/zjrosen/cqlhl/internal/pubsub"
	"github.com/zjrosen/cqlhl/internal/ui/queryinput"
)

var supertypes = []cql.Supertype{cql.SupertypeConc, cql.SupertypePQuery, cql.SupertypeWList}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(cql.KeywordColor)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	errStyle   = lipgloss.NewStyle().Foreground(cql.ErrorColor)
	inputStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cql.BracketColor).Padding(0, 1)
)

// Config seeds the playground.
type Config struct {
	Query         string
	Corpus        string
	Supertype     cql.Supertype
	Locale        string
	WrapLongQuery bool
	Attrs         cql.AttrHelper

	// ConfigPath receives the settings on save. Empty disables saving.
	ConfigPath string

	// SchemaEvents, when set, re-highlights the query after schema reloads.
	SchemaEvents *pubsub.Listener[string]
}

// Model is the playground program state.
type Model struct {
	cfg     Config
	input   queryinput.Model
	catalog *i18n.Catalog
	html    cql.Result

	entities viewport.Model
	help     help.Model
	showHelp bool
	status   string

	width  int
	height int
}

// New builds the playground. An unknown locale falls back to English.
func New(cfg Config) Model {
	if cfg.Supertype == "" {
		cfg.Supertype = cql.SupertypeConc
	}
	catalog, err := i18n.Load(cfg.Locale)
	if err != nil {
		log.Warn(log.CatUI, "Unknown locale, using fallback", "locale", cfg.Locale)
		catalog, _ = i18n.Load(i18n.FallbackLocale)
	}
	cfg.Locale = catalog.Locale()

	vp := viewport.New(80, 10)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	m := Model{
		cfg:      cfg,
		catalog:  catalog,
		entities: vp,
		help:     help.New(),
		width:    80,
		height:   24,
	}
	m.input = queryinput.New(m.inputOptions())
	m.input.SetPlaceholder(`type a query, e.g. [word="dog"] within <s/>`)
	m.input.Focus()
	m.input.SetValue(cfg.Query)
	m.input.SetCursor(len([]rune(cfg.Query)))
	m.refresh()
	m.layout()
	return m
}

// inputOptions never wrap: line breaks only show in the markup.
func (m Model) inputOptions() cql.Options {
	opts := m.options()
	opts.WrapLongQuery = false
	return opts
}

func (m Model) options() cql.Options {
	return cql.Options{
		Supertype:     m.cfg.Supertype,
		Attrs:         m.cfg.Attrs,
		Translator:    m.catalog,
		WrapLongQuery: m.cfg.WrapLongQuery,
	}
}

// Query is the current query text.
func (m Model) Query() string {
	return m.input.Value()
}

// Supertype is the selected supertype.
func (m Model) Supertype() cql.Supertype {
	return m.cfg.Supertype
}

// Result is the HTML highlighting of the current query.
func (m Model) Result() cql.Result {
	return m.html
}

func (m Model) Init() tea.Cmd {
	if m.cfg.SchemaEvents == nil {
		return nil
	}
	return m.cfg.SchemaEvents.Listen()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case queryinput.ChangedMsg:
		m.status = ""
		m.refresh()
		return m, nil

	case pubsub.Event[string]:
		m.reconfigure()
		m.status = "schema reloaded from " + msg.Payload
		if m.cfg.SchemaEvents == nil {
			return m, nil
		}
		return m, m.cfg.SchemaEvents.Listen()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Playground.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Playground.Help):
			m.showHelp = !m.showHelp
			m.layout()
			return m, nil
		case key.Matches(msg, keys.Playground.NextSupertype):
			m.cycleSupertype(1)
			return m, nil
		case key.Matches(msg, keys.Playground.PrevSupertype):
			m.cycleSupertype(-1)
			return m, nil
		case key.Matches(msg, keys.Playground.ToggleWrap):
			m.cfg.WrapLongQuery = !m.cfg.WrapLongQuery
			m.reconfigure()
			return m, nil
		case key.Matches(msg, keys.Playground.NextLocale):
			m.cycleLocale()
			return m, nil
		case key.Matches(msg, keys.Playground.Save):
			m.save()
			return m, nil
		case key.Matches(msg, keys.Playground.Clear):
			m.input.SetValue("")
			m.refresh()
			return m, nil
		case key.Matches(msg, m.entities.KeyMap.PageDown, m.entities.KeyMap.PageUp):
			var cmd tea.Cmd
			m.entities, cmd = m.entities.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) cycleSupertype(delta int) {
	i := slices.Index(supertypes, m.cfg.Supertype)
	n := len(supertypes)
	m.cfg.Supertype = supertypes[((i+delta)%n+n)%n]
	m.reconfigure()
}

func (m *Model) cycleLocale() {
	locales := i18n.Available()
	i := slices.Index(locales, m.catalog.Locale())
	next := locales[(i+1)%len(locales)]
	catalog, err := i18n.Load(next)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.catalog = catalog
	m.cfg.Locale = next
	m.reconfigure()
}

func (m *Model) reconfigure() {
	m.status = ""
	m.input.SetOptions(m.inputOptions())
	m.refresh()
}

func (m *Model) save() {
	if m.cfg.ConfigPath == "" {
		m.status = "no config file to save to"
		return
	}
	values := []struct {
		key   string
		value any
	}{
		{"supertype", m.cfg.Supertype.String()},
		{"locale", m.cfg.Locale},
		{"wrap_long_query", m.cfg.WrapLongQuery},
	}
	for _, v := range values {
		if err := config.SaveValue(m.cfg.ConfigPath, v.key, v.value); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to save playground settings", err, "path", m.cfg.ConfigPath)
			m.status = "save failed: " + err.Error()
			return
		}
	}
	m.status = "saved to " + m.cfg.ConfigPath
}

// refresh renders the markup preview and the entity panel for the current
// query. A newer query simply replaces the previous result.
func (m *Model) refresh() {
	res, err := cql.Highlight(m.input.Value(), m.options())
	if err != nil {
		log.ErrorErr(log.CatUI, "Highlight failed", err)
	}
	m.html = res
	m.entities.SetContent(m.entityLines())
	m.entities.GotoTop()
}

func (m *Model) layout() {
	inner := max(10, m.width-4)
	m.input.SetWidth(inner)
	m.help.Width = m.width
	m.help.ShowAll = m.showHelp

	used := 1 + m.input.Height() + 2 + 1 + 1 + 1 + m.footerHeight()
	m.entities.Width = m.width
	m.entities.Height = max(3, m.height-used-m.markupHeight())
	m.entities.SetContent(m.entityLines())
}

func (m Model) footerHeight() int {
	return lipgloss.Height(m.help.View(keys.Playground))
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.errorLine())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("markup"))
	b.WriteString("\n")
	b.WriteString(m.markup())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("entities"))
	b.WriteString("\n")
	b.WriteString(m.entities.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(labelStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys.Playground))
	return b.String()
}

func (m Model) header() string {
	wrap := "off"
	if m.cfg.WrapLongQuery {
		wrap = "on"
	}
	corpus := m.cfg.Corpus
	if corpus == "" {
		corpus = "-"
	}
	line := fmt.Sprintf("%s  corpus %s · supertype %s · locale %s · wrap %s",
		titleStyle.Render("cqlhl"), corpus, m.cfg.Supertype, m.cfg.Locale, wrap)
	return truncate.StringWithTail(line, uint(max(0, m.width)), "…")
}

func (m Model) errorLine() string {
	switch {
	case m.input.Value() == "":
		return ""
	case m.html.Error != "":
		return errStyle.Render(truncate.StringWithTail(m.html.Error, uint(max(0, m.width)), "…"))
	default:
		return okStyle.Render("✓ query parsed")
	}
}

// markup shows the HTML output, at most three lines.
func (m Model) markup() string {
	lines := strings.Split(wordwrap.String(m.html.Markup, max(10, m.width)), "\n")
	if len(lines) > maxMarkupLines {
		lines = append(lines[:maxMarkupLines-1], "…")
	}
	for i, l := range lines {
		lines[i] = truncate.String(l, uint(max(0, m.width)))
	}
	return strings.Join(lines, "\n")
}

const maxMarkupLines = 3

func (m Model) markupHeight() int {
	return len(strings.Split(m.markup(), "\n"))
}

func (m Model) entityLines() string {
	var lines []string
	for _, a := range m.html.Attrs {
		lines = append(lines, formatAttr(a, ""))
		for _, c := range a.Children {
			lines = append(lines, formatAttr(c, "  "))
		}
	}
	for _, item := range m.html.PQItems {
		limit := "-"
		if item.Limit != nil {
			limit = strconv.FormatFloat(*item.Limit, 'f', -1, 64)
		}
		lines = append(lines, fmt.Sprintf("%s limit=%s %s", item.Type, limit, item.Query))
	}
	if len(lines) == 0 {
		return labelStyle.Render("no entities")
	}
	for i, l := range lines {
		lines[i] = truncate.StringWithTail(l, uint(max(0, m.width)), "…")
	}
	return strings.Join(lines, "\n")
}

func formatAttr(a cql.ParsedAttr, indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(string(a.Type))
	b.WriteString(" ")
	if a.Name != "" {
		b.WriteString(a.Name)
	} else {
		b.WriteString("(default)")
	}
	if a.RangeVal != nil {
		fmt.Fprintf(&b, " = %s", a.Value)
	}
	fmt.Fprintf(&b, " [%d,%d)", a.RangeAll.From, a.RangeAll.To)
	return b.String()
}
