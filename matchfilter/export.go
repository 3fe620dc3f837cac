package matchfilter

import "strings"

// Canonical export: flatten the AST into a list of AND-only clause
// strings whose disjunction is equivalent to the original expression.
// This is plain distribution of AND over OR, so it can grow with the
// product of OR widths under an AND; real filters are shallow enough
// that this never matters.

// Export returns the filter as a minimal set of '&'-joined clause
// strings, free of '||' and parentheses. Exact duplicate conjunctions
// are dropped; order otherwise follows the source expression.
func (f *Filter) Export() []string {
	conjunctions := f.root.export()

	seen := make(map[string]struct{}, len(conjunctions))
	out := make([]string, 0, len(conjunctions))
	for _, clauses := range conjunctions {
		joined := strings.Join(clauses, "&")
		if _, dup := seen[joined]; dup {
			continue
		}
		seen[joined] = struct{}{}
		out = append(out, joined)
	}
	return out
}

func (a *atomExpr) export() [][]string {
	return [][]string{{a.text}}
}

// And: every left conjunction concatenated with every right conjunction.
func (a *andExpr) export() [][]string {
	left := a.left.export()
	right := a.right.export()

	out := make([][]string, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			merged := make([]string, 0, len(l)+len(r))
			merged = append(merged, l...)
			merged = append(merged, r...)
			out = append(out, merged)
		}
	}
	return out
}

// Or: union of both sides.
func (o *orExpr) export() [][]string {
	left := o.left.export()
	right := o.right.export()
	return append(append([][]string{}, left...), right...)
}
