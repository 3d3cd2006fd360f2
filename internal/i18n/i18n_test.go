package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cqlhl/internal/cql"
)

var _ cql.Translator = (*Catalog)(nil)

func TestLoad_Locales(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"", "en"},
		{"en", "en"},
		{"cs", "cs"},
		{"cs_CZ", "cs"},
		{"cs-CZ", "cs"},
		{"cs_CZ.UTF-8", "cs"},
		{"EN", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			c, err := Load(tt.locale)
			require.NoError(t, err)
			require.Equal(t, tt.want, c.Locale())
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("xx")
	require.ErrorIs(t, err, ErrUnknownLocale)
}

func TestAvailable(t *testing.T) {
	require.Equal(t, []string{"cs", "en"}, Available())
}

func TestTranslate_Substitutes(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)

	got := c.Translate(cql.KeyUnrecognizedInput, map[string]string{"wrongChar": "x", "column": "12"})
	require.Equal(t, "Unrecognized input x at column 12", got)
	require.Equal(t, "Attribute id of structure doc",
		c.Translate(cql.KeyStructAttrTooltip, map[string]string{"name": "id", "struct": "doc"}))
}

func TestTranslate_FallsBack(t *testing.T) {
	c, err := Load("cs")
	require.NoError(t, err)
	c.messages = map[string]string{}

	require.Equal(t, "end of input", c.Translate(cql.KeyEndOfInput, nil))
	require.Equal(t, "no_such_key", c.Translate("no_such_key", nil))
}

func TestCatalogs_CoverAllKeys(t *testing.T) {
	keys := []string{
		cql.KeyUnrecognizedInput, cql.KeyEndOfInput, cql.KeyParserFailure,
		cql.KeyPosAttrTooltip, cql.KeyStructTooltip, cql.KeyStructAttrTooltip, cql.KeyTagEditorTooltip,
	}
	for _, locale := range Available() {
		c, err := Load(locale)
		require.NoError(t, err)
		for _, key := range keys {
			_, ok := c.messages[key]
			require.True(t, ok, "%s misses %s", locale, key)
		}
	}
}

func TestHighlight_TranslatedTooltip(t *testing.T) {
	c, err := Load("cs")
	require.NoError(t, err)

	res, err := cql.Highlight(`[word="a"] xyz`, cql.Options{Translator: c})
	require.NoError(t, err)
	require.Equal(t, "Nerozpoznaný vstup x na pozici 12", res.Error)

	res, err = cql.Highlight(`[word=`, cql.Options{Translator: c})
	require.NoError(t, err)
	require.Equal(t, "Nerozpoznaný vstup konec vstupu na pozici 7", res.Error)
}
