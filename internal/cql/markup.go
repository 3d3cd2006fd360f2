package cql

// terminalClasses maps every terminal rule of the grammar to its class.
// ClassNone entries are deliberately left unwrapped.
var terminalClasses = map[string]Class{
	"_":       ClassNone,
	"NUMBER":  ClassNone,
	"INTEGER": ClassNone,
	"DOT":     ClassNone,

	"LPAREN":   ClassBracket,
	"RPAREN":   ClassBracket,
	"LBRACKET": ClassBracket,
	"RBRACKET": ClassBracket,
	"LBRACE":   ClassBracket,
	"RBRACE":   ClassBracket,
	"LSTRUCT":  ClassBracket,
	"RSTRUCT":  ClassBracket,

	"SLASH":  ClassOperator,
	"EQ":     ClassOperator,
	"NOT":    ClassOperator,
	"BINAND": ClassOperator,
	"BINOR":  ClassOperator,
	"COLON":  ClassOperator,
	"COMMA":  ClassOperator,
	"SEMI":   ClassOperator,
	"STAR":   ClassOperator,
	"PLUS":   ClassOperator,
	"QUEST":  ClassOperator,

	"KW_WITHIN":     ClassKeyword,
	"KW_CONTAINING": ClassKeyword,
	"KW_MEET":       ClassKeyword,
	"KW_UNION":      ClassKeyword,
	"KW_WS":         ClassKeyword,
	"KW_TERM":       ClassKeyword,
	"KW_SWAP":       ClassKeyword,
	"KW_CCOLL":      ClassKeyword,

	"QUOT":           ClassRegexp,
	"SIMPLE_CHARS":   ClassRegexp,
	"RG_CHARS":       ClassRegexp,
	"RG_ESCAPED":     ClassRegexp,
	"RG_OP":          ClassRegexp,
	"RG_PIPE":        ClassRegexp,
	"RG_LPAREN":      ClassRegexp,
	"RG_RPAREN":      ClassRegexp,
	"RG_LBRACKET":    ClassRegexp,
	"RG_RBRACKET":    ClassRegexp,
	"RG_CARET":       ClassRegexp,
	"RG_CLASS_CHARS": ClassRegexp,
	"RG_LOOK":        ClassRegexp,
	"RG_NONCAP":      ClassRegexp,
	"RG_QUANT":       ClassRegexp,
	"RG_REPEAT":      ClassRegexp,

	"ATTR_CHARS": ClassAttr,
}

// TerminalClass returns the class of a terminal rule. ok is false for rules
// missing from the table.
func TerminalClass(rule string) (class Class, ok bool) {
	class, ok = terminalClasses[rule]
	return class, ok
}
