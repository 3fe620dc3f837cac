// Package matchfilter implements a small boolean query language over flat
// metadata records, in the spirit of yt-dlp's --match-filter option:
//
//	filesize>1000000 & duration<600 || uploader='BBC'
//
// AND ('&') binds tighter than OR ('||'); parentheses override. Each
// clause compares one record field against a value, with human-friendly
// coercion of file sizes ("1.5GiB") and durations ("1:30:00"), or tests
// bare field presence ("is_live", "!is_live").
//
// A Filter is immutable once built, so one instance may be evaluated
// concurrently against many records.
package matchfilter

// Record is a flat metadata record: field name to string, number, bool
// or nil. The engine never mutates it.
type Record = map[string]any

// Options tunes evaluation behavior.
type Options struct {
	// MatchIncomplete makes every clause over a missing or nil field
	// succeed, mirroring yt-dlp's treatment of incomplete metadata.
	// Individual clauses can opt in with the '?' marker regardless.
	MatchIncomplete bool
}

// Filter is a parsed match-filter expression.
type Filter struct {
	source string
	root   expr
}

// expr is the AST node: a clause leaf, or an AND/OR pair.
type expr interface {
	eval(rec Record, opts Options) (bool, error)
	export() [][]string
}

type atomExpr struct {
	text string
}

type andExpr struct {
	left, right expr
}

type orExpr struct {
	left, right expr
}

// Match parses expr and evaluates it against rec in one shot. Callers
// filtering many records should construct the Filter once instead.
func Match(expression string, rec Record) (bool, error) {
	f, err := New(expression)
	if err != nil {
		return false, err
	}
	return f.Evaluate(rec)
}

// Source returns the original expression text.
func (f *Filter) Source() string {
	return f.source
}

// Evaluate reports whether rec satisfies the filter. Errors are
// *OperatorTypeError or *ClauseFormatError; a clause error is never
// silently folded into a false result.
func (f *Filter) Evaluate(rec Record) (bool, error) {
	return f.root.eval(rec, Options{})
}

// EvaluateWithOptions is Evaluate with an explicit missing-field policy.
func (f *Filter) EvaluateWithOptions(rec Record, opts Options) (bool, error) {
	return f.root.eval(rec, opts)
}

func (a *atomExpr) eval(rec Record, opts Options) (bool, error) {
	return matchClause(a.text, rec, opts)
}

func (a *andExpr) eval(rec Record, opts Options) (bool, error) {
	ok, err := a.left.eval(rec, opts)
	if err != nil || !ok {
		return false, err
	}
	return a.right.eval(rec, opts)
}

func (o *orExpr) eval(rec Record, opts Options) (bool, error) {
	ok, err := o.left.eval(rec, opts)
	if err != nil || ok {
		return ok, err
	}
	return o.right.eval(rec, opts)
}
