package cql

import (
	"errors"
	"fmt"

	"github.com/zjrosen/cqlhl/internal/cql/grammar"
)

// ErrUnknownSupertype is returned for an unrecognized query supertype.
var ErrUnknownSupertype = errors.New("unknown query supertype")

// Supertype selects the grammar entry rules tried for a query, in order.
type Supertype string

const (
	SupertypeConc   Supertype = "conc"
	SupertypePQuery Supertype = "pquery"
	SupertypeWList  Supertype = "wlist"
)

var entryRules = map[Supertype][]string{
	SupertypePQuery: {grammar.RulePQuery, grammar.RuleQuery, grammar.RuleWithinContainingPart, grammar.RuleSequence, grammar.RuleRegExpRaw},
	SupertypeConc:   {grammar.RuleQuery, grammar.RuleWithinContainingPart, grammar.RuleSequence, grammar.RuleRegExpRaw},
	SupertypeWList:  {grammar.RuleRegExpRaw},
}

// ParseSupertype converts a name to a Supertype. The empty string means conc.
func ParseSupertype(name string) (Supertype, error) {
	if name == "" {
		return SupertypeConc, nil
	}
	st := Supertype(name)
	if _, ok := entryRules[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSupertype, name)
	}
	return st, nil
}

// EntryRules returns a copy of the rules tried for the supertype. Unknown
// supertypes fall back to conc.
func (s Supertype) EntryRules() []string {
	rules, ok := entryRules[s]
	if !ok {
		rules = entryRules[SupertypeConc]
	}
	return append([]string(nil), rules...)
}

func (s Supertype) String() string {
	return string(s)
}
