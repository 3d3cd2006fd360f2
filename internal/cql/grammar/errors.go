package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError describes the furthest point the parser could not get past.
type SyntaxError struct {
	// Found is the offending character, empty when AtEOF is set.
	Found    string
	AtEOF    bool
	Expected []string
	Location Location
}

func (e *SyntaxError) Error() string {
	found := "end of input"
	if !e.AtEOF {
		found = strconv.Quote(e.Found)
	}
	expected := "nothing"
	if len(e.Expected) > 0 {
		expected = strings.Join(e.Expected, ", ")
	}
	return fmt.Sprintf("syntax error at line %d, column %d: expected %s but %s found",
		e.Location.Start.Line, e.Location.Start.Column, expected, found)
}
