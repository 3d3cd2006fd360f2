package cql

import "github.com/charmbracelet/lipgloss"

// Terminal colors (Catppuccin Mocha inspired).
var (
	BracketColor  = lipgloss.Color("#F5C2E7")
	OperatorColor = lipgloss.Color("#F38BA8")
	KeywordColor  = lipgloss.Color("#CBA6F7")
	RegexpColor   = lipgloss.Color("#F9E2AF")
	AttrColor     = lipgloss.Color("#94E2D5")
	ErrorColor    = lipgloss.Color("#EBA0AC")
)

// Token highlight styles for ANSI rendering.
var (
	// BracketStyle for ( ) [ ] { } < >
	BracketStyle = lipgloss.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Foreground(BracketColor).
			Bold(true)

	// OperatorStyle for = ! & | : , ; / * + ?
	OperatorStyle = lipgloss.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Foreground(OperatorColor)

	// KeywordStyle for within, containing, meet, union, ws, term, swap, ccoll
	KeywordStyle = lipgloss.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Foreground(KeywordColor).
			Bold(true)

	// RegexpStyle for quoted values and their regular expression syntax
	RegexpStyle = lipgloss.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Foreground(RegexpColor)

	// AttrStyle for attribute and structure names
	AttrStyle = lipgloss.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Foreground(AttrColor)

	// ErrorStyle for input the grammar could not recognize
	ErrorStyle = lipgloss.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Foreground(ErrorColor).
			Underline(true)
)
