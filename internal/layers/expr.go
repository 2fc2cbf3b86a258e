package layers

import "strings"

// Expr is an expression base split for pairing. "e_nom_s" has core "nom"
// and unique part "s"; "m_nom" has core "nom" and no unique part.
type Expr struct {
	Base   string
	Core   string
	Unique string
}

// ParseExpr strips the eye or mouth prefix, then one trailing "_<letter>"
// sub-variant suffix.
func ParseExpr(base string) Expr {
	rest := base
	switch {
	case strings.HasPrefix(rest, EyePrefix):
		rest = rest[len(EyePrefix):]
	case strings.HasPrefix(rest, MouthPrefix):
		rest = rest[len(MouthPrefix):]
	}

	e := Expr{Base: base, Core: rest}
	if n := len(rest); n > 2 && rest[n-2] == '_' && isLower(rest[n-1]) {
		e.Core = rest[:n-2]
		e.Unique = rest[n-1:]
	}
	return e
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// CorePair lists the eye and mouth bases that share one core tag.
type CorePair struct {
	Core   string
	Eyes   []Expr
	Mouths []Expr
}

// PairCores returns one entry per core tag present among both eyes and
// mouths, in eye order.
func PairCores(eyes, mouths *ExprSet) []CorePair {
	byCore := make(map[string][]Expr)
	for _, b := range mouths.Bases() {
		e := ParseExpr(b)
		byCore[e.Core] = append(byCore[e.Core], e)
	}

	var pairs []CorePair
	index := make(map[string]int)
	for _, b := range eyes.Bases() {
		e := ParseExpr(b)
		ms, ok := byCore[e.Core]
		if !ok {
			continue
		}
		i, seen := index[e.Core]
		if !seen {
			i = len(pairs)
			index[e.Core] = i
			pairs = append(pairs, CorePair{Core: e.Core, Mouths: ms})
		}
		pairs[i].Eyes = append(pairs[i].Eyes, e)
	}
	return pairs
}
