package grammar

import (
	"strings"
	"unicode"
)

// Rule names referenced by the highlighter.
const (
	RuleQuery                = "Query"
	RuleWithinContainingPart = "WithinContainingPart"
	RuleSequence             = "Sequence"
	RulePosition             = "Position"
	RuleOnePosition          = "OnePosition"
	RuleStructure            = "Structure"
	RuleAttVal               = "AttVal"
	RuleAttName              = "AttName"
	RuleRegExpRaw            = "RegExpRaw"
	RuleSimpleString         = "SimpleString"
	RuleRgLookOperator       = "RgLookOperator"
	RulePQuery               = "PQuery"
	RulePQType               = "PQType"
	RulePQAlways             = "PQAlways"
	RulePQNever              = "PQNever"
	RulePQLimit              = "PQLimit"

	// Space is the whitespace rule. It is a terminal that may match nothing.
	Space = "_"
)

// CQL is the corpus query language grammar. Its default start rule is Query.
var CQL = build(RuleQuery, Space, cqlRules()...)

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func except(set string) func(rune) bool {
	return func(r rune) bool { return !strings.ContainsRune(set, r) }
}

// outsidePQuery keeps a Query nested in a paradigmatic query from consuming
// the within clauses that belong to PQuery itself.
func outsidePQuery(s *state) bool {
	return !s.inside(RulePQuery)
}

func cqlRules() []ruleDef {
	sp := ref(Space)
	return []ruleDef{
		// paradigmatic queries
		define("PQuery", seq(ref("PQType"), star(sp, ref("PQSetOp")))),
		define("PQType", ref("Query")),
		define("PQSetOp", alt(ref("PQNever"), ref("PQAlways"))),
		define("PQAlways", seq(ref("KW_WITHIN"), sp, opt(ref("LBRACE"), sp, ref("PQLimit"), sp, ref("RBRACE"), sp), ref("Query"))),
		define("PQNever", seq(ref("NOT"), sp, ref("KW_WITHIN"), sp, opt(ref("LBRACE"), sp, ref("PQLimit"), sp, ref("RBRACE"), sp), ref("Query"))),
		define("PQLimit", seq(ref("NUMBER"), opt(ref("DOT"), ref("NUMBER")))),

		// concordance queries
		define("Query", seq(
			ref("Sequence"),
			opt(sp, ref("BINAND"), sp, ref("GlobPart")),
			star(when(outsidePQuery), sp, ref("WithinOrContaining")),
			opt(sp, ref("SEMI")),
		)),
		define("GlobPart", seq(ref("GlobCond"), star(sp, ref("BINAND"), sp, ref("GlobCond")))),
		define("GlobCond", seq(
			ref("NUMBER"), ref("DOT"), ref("AttName"), sp,
			opt(ref("NOT")), ref("EQ"), sp,
			ref("NUMBER"), ref("DOT"), ref("AttName"),
		)),
		define("WithinOrContaining", seq(
			opt(ref("NOT")),
			alt(ref("KW_WITHIN"), ref("KW_CONTAINING")), sp,
			ref("WithinContainingPart"),
		)),
		define("WithinContainingPart", alt(
			ref("Sequence"),
			ref("WithinNumber"),
			seq(ref("LPAREN"), sp, ref("WithinContainingPart"), sp, ref("RPAREN")),
		)),
		define("WithinNumber", ref("NUMBER")),
		define("Sequence", seq(ref("Seq"), star(sp, ref("BINOR"), sp, ref("Seq")))),
		define("Seq", seq(opt(ref("NOT"), sp), ref("Repetition"), star(sp, ref("Repetition")))),
		define("Repetition", alt(
			seq(ref("AtomQuery"), opt(ref("RepOpt"))),
			ref("OpenStructTag"),
			ref("CloseStructTag"),
		)),
		define("AtomQuery", alt(
			ref("Position"),
			seq(ref("LPAREN"), sp, ref("Sequence"), star(sp, ref("WithinOrContaining")), sp, ref("RPAREN")),
		)),
		define("RepOpt", alt(
			ref("STAR"),
			ref("PLUS"),
			ref("QUEST"),
			seq(ref("LBRACE"), sp, ref("NUMBER"), opt(sp, ref("COMMA"), sp, opt(ref("NUMBER"))), sp, ref("RBRACE")),
		)),
		define("OpenStructTag", seq(ref("LSTRUCT"), sp, ref("Structure"), sp, opt(ref("SLASH")), sp, ref("RSTRUCT"))),
		define("CloseStructTag", seq(ref("LSTRUCT"), sp, ref("SLASH"), sp, ref("Structure"), sp, ref("RSTRUCT"))),
		define("Structure", seq(ref("AttName"), opt(sp, ref("AttValList")))),

		// positions
		define("Position", alt(
			seq(ref("NUMBER"), ref("COLON"), ref("OnePosition")),
			ref("OnePosition"),
		)),
		define("OnePosition", alt(
			seq(ref("LBRACKET"), sp, opt(ref("AttValList")), sp, ref("RBRACKET")),
			ref("RegExp"),
			ref("MuPart"),
		)),
		define("MuPart", seq(ref("LPAREN"), sp, alt(ref("MeetOp"), ref("UnionOp")), sp, ref("RPAREN"))),
		define("MeetOp", seq(ref("KW_MEET"), sp, ref("Position"), sp, ref("Position"), opt(sp, ref("INTEGER"), sp, ref("INTEGER")))),
		define("UnionOp", seq(ref("KW_UNION"), sp, ref("Position"), sp, ref("Position"))),

		// attribute conditions
		define("AttValList", seq(ref("AttValAnd"), star(sp, ref("BINOR"), sp, ref("AttValAnd")))),
		define("AttValAnd", seq(ref("AttValTerm"), star(sp, ref("BINAND"), sp, ref("AttValTerm")))),
		define("AttValTerm", alt(
			seq(ref("NOT"), sp, ref("AttValTerm")),
			seq(ref("LPAREN"), sp, ref("AttValList"), sp, ref("RPAREN")),
			seq(ref("KW_WS"), sp, ref("LPAREN"), sp,
				ref("RegExp"), sp, ref("COMMA"), sp, ref("RegExp"), sp, ref("COMMA"), sp, ref("RegExp"), sp,
				ref("RPAREN")),
			seq(ref("KW_TERM"), sp, ref("LPAREN"), sp, ref("RegExp"), sp, ref("RPAREN")),
			seq(ref("KW_SWAP"), sp, ref("LPAREN"), sp, ref("NUMBER"), sp, ref("COMMA"), sp, ref("AttValList"), sp, ref("RPAREN")),
			seq(ref("KW_CCOLL"), sp, ref("LPAREN"), sp,
				ref("NUMBER"), sp, ref("COMMA"), sp, ref("NUMBER"), sp, ref("COMMA"), sp, ref("AttValList"), sp,
				ref("RPAREN")),
			ref("AttVal"),
		)),
		define("AttVal", alt(
			seq(ref("AttName"), sp, opt(ref("NOT")), ref("EQ"), ref("EQ"), sp, ref("SimpleString")),
			seq(ref("AttName"), sp, opt(ref("NOT")), ref("EQ"), sp, ref("RegExp")),
		)),
		define("AttName", ref("ATTR_CHARS")),

		// regular expressions
		define("RegExp", seq(and(ref("QUOT")), ref("RegExpRaw"))),
		define("RegExpRaw", alt(
			seq(ref("QUOT"), ref("RgAlt"), ref("QUOT")),
			ref("RgBare"),
		)),
		define("SimpleString", seq(ref("QUOT"), star(alt(ref("SIMPLE_CHARS"), ref("RG_ESCAPED"))), ref("QUOT"))),
		define("RgBare", seq(plus(ref("RgItem")), star(ref("RG_PIPE"), ref("RgSeq")))),
		define("RgAlt", seq(ref("RgSeq"), star(ref("RG_PIPE"), ref("RgSeq")))),
		define("RgSeq", star(ref("RgItem"))),
		define("RgItem", seq(
			alt(ref("RgLook"), ref("RgGroup"), ref("RgCharClass"), ref("RgAtom")),
			opt(ref("RgQuant")),
		)),
		define("RgLook", seq(ref("RgLookOperator"), ref("RgAlt"), ref("RG_RPAREN"))),
		define("RgLookOperator", seq(ref("RG_LPAREN"), ref("RG_LOOK"))),
		define("RgGroup", seq(ref("RG_LPAREN"), opt(ref("RG_NONCAP")), ref("RgAlt"), ref("RG_RPAREN"))),
		define("RgCharClass", seq(
			ref("RG_LBRACKET"), opt(ref("RG_CARET")),
			star(alt(ref("RG_ESCAPED"), ref("RG_CLASS_CHARS"))),
			ref("RG_RBRACKET"),
		)),
		define("RgAtom", alt(ref("RG_ESCAPED"), ref("RG_OP"), ref("RG_CHARS"))),
		define("RgQuant", alt(ref("RG_QUANT"), ref("RG_REPEAT"))),

		// terminals
		token(Space, "whitespace", chars(0, isSpace)),
		token("LPAREN", `"("`, lit("(")),
		token("RPAREN", `")"`, lit(")")),
		token("LBRACKET", `"["`, lit("[")),
		token("RBRACKET", `"]"`, lit("]")),
		token("LBRACE", `"{"`, lit("{")),
		token("RBRACE", `"}"`, lit("}")),
		token("LSTRUCT", `"<"`, lit("<")),
		token("RSTRUCT", `">"`, lit(">")),
		token("SLASH", `"/"`, lit("/")),
		token("EQ", `"="`, lit("=")),
		token("NOT", `"!"`, lit("!")),
		token("BINAND", `"&"`, lit("&")),
		token("BINOR", `"|"`, lit("|")),
		token("COLON", `":"`, lit(":")),
		token("COMMA", `","`, lit(",")),
		token("SEMI", `";"`, lit(";")),
		token("DOT", `"."`, lit(".")),
		token("STAR", `"*"`, lit("*")),
		token("PLUS", `"+"`, lit("+")),
		token("QUEST", `"?"`, lit("?")),
		token("QUOT", `"\""`, lit(`"`)),
		token("NUMBER", "number", chars(1, isDigit)),
		token("INTEGER", "integer", seq(opt(lit("-")), chars(1, isDigit))),
		token("ATTR_CHARS", "attribute name", seq(
			chars(1, func(r rune) bool { return r == '_' || unicode.IsLetter(r) }),
			chars(0, isIdentChar),
		)),
		token("KW_WITHIN", `"within"`, keyword("within")),
		token("KW_CONTAINING", `"containing"`, keyword("containing")),
		token("KW_MEET", `"meet"`, keyword("meet")),
		token("KW_UNION", `"union"`, keyword("union")),
		token("KW_WS", `"ws"`, keyword("ws")),
		token("KW_TERM", `"term"`, keyword("term")),
		token("KW_SWAP", `"swap"`, keyword("swap")),
		token("KW_CCOLL", `"ccoll"`, keyword("ccoll")),
		token("SIMPLE_CHARS", "string character", chars(1, except(`"\`))),
		token("RG_CHARS", "regular expression", chars(1, except("\"\\()[]|*+?{.^$"))),
		token("RG_ESCAPED", "escape sequence", seq(lit(`\`), anyRune())),
		token("RG_OP", "regular expression operator", anyOf(".^$")),
		token("RG_PIPE", `"|"`, lit("|")),
		token("RG_LPAREN", `"("`, lit("(")),
		token("RG_RPAREN", `")"`, lit(")")),
		token("RG_LBRACKET", `"["`, lit("[")),
		token("RG_RBRACKET", `"]"`, lit("]")),
		token("RG_CARET", `"^"`, lit("^")),
		token("RG_CLASS_CHARS", "character class", chars(1, except(`]\"`))),
		token("RG_LOOK", "look-around operator", alt(lit("?<="), lit("?<!"), lit("?="), lit("?!"))),
		token("RG_NONCAP", `"?:"`, lit("?:")),
		token("RG_QUANT", "quantifier", seq(anyOf("*+?"), opt(lit("?")))),
		token("RG_REPEAT", "repetition", seq(
			lit("{"), chars(1, isDigit), opt(lit(","), chars(0, isDigit)), lit("}"), opt(lit("?")),
		)),
	}
}
