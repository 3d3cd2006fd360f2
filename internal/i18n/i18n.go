// Package i18n provides message catalogs for the user-facing texts of the
// highlighter: error tooltips and attribute titles.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/cqlhl/internal/cql"
)

// FallbackLocale is consulted for keys missing from another locale.
const FallbackLocale = "en"

// ErrUnknownLocale is returned by Load for locales without a catalog.
var ErrUnknownLocale = errors.New("unknown locale")

//go:embed locales/*.yaml
var locales embed.FS

// Catalog translates message keys. It implements cql.Translator.
type Catalog struct {
	locale   string
	messages map[string]string
	fallback map[string]string
}

// Load returns the catalog for locale. Region suffixes are ignored, so
// "cs_CZ" and "cs-CZ" load "cs". The empty locale loads the fallback.
func Load(locale string) (*Catalog, error) {
	lang := normalize(locale)
	if lang == "" {
		lang = FallbackLocale
	}

	messages, err := readLocale(lang)
	if err != nil {
		return nil, err
	}
	c := &Catalog{locale: lang, messages: messages}
	if lang != FallbackLocale {
		if c.fallback, err = readLocale(FallbackLocale); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Available lists the locales with a catalog.
func Available() []string {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

func normalize(locale string) string {
	lang, _, _ := strings.Cut(locale, "_")
	lang, _, _ = strings.Cut(lang, "-")
	lang, _, _ = strings.Cut(lang, ".")
	return strings.ToLower(lang)
}

func readLocale(lang string) (map[string]string, error) {
	data, err := locales.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, lang)
	}
	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parsing locale %s: %w", lang, err)
	}
	return messages, nil
}

// Locale returns the loaded locale.
func (c *Catalog) Locale() string {
	return c.locale
}

// Translate returns the message for key with {placeholders} substituted.
// Unknown keys fall back to the fallback locale and then to the key itself.
func (c *Catalog) Translate(key string, subs map[string]string) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = c.fallback[key]
	}
	if !ok {
		msg = key
	}
	return cql.Substitute(msg, subs)
}
