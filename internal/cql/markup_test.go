package cql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cqlhl/internal/cql/grammar"
)

func TestTerminalClass_CoversGrammar(t *testing.T) {
	for _, rule := range grammar.CQL.Terminals() {
		_, ok := TerminalClass(rule)
		require.True(t, ok, "no class for terminal %s", rule)
	}
	for rule := range terminalClasses {
		require.True(t, grammar.CQL.HasRule(rule), "class for unknown rule %s", rule)
		require.True(t, IsTerminal(rule), "class for non-terminal %s", rule)
	}
}

func TestTerminalClass_Values(t *testing.T) {
	tests := []struct {
		rule  string
		class Class
	}{
		{"LBRACKET", ClassBracket},
		{"LSTRUCT", ClassBracket},
		{"EQ", ClassOperator},
		{"BINAND", ClassOperator},
		{"KW_WITHIN", ClassKeyword},
		{"KW_CCOLL", ClassKeyword},
		{"QUOT", ClassRegexp},
		{"RG_LOOK", ClassRegexp},
		{"ATTR_CHARS", ClassAttr},
		{"_", ClassNone},
		{"NUMBER", ClassNone},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			class, ok := TerminalClass(tt.rule)
			require.True(t, ok)
			require.Equal(t, tt.class, class)
		})
	}

	_, ok := TerminalClass("Query")
	require.False(t, ok)
}
