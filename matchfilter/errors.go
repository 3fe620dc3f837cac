package matchfilter

import "fmt"

// The three error kinds are all user-input errors and never transient:
// the filter text has to be corrected. Callers are expected to surface
// them as validation feedback, not swallow them into a false result.

// SyntaxError reports a structurally invalid filter expression, detected
// at construction time (unbalanced parentheses, unexpected token, empty
// clause).
type SyntaxError struct {
	Pos int    // byte offset into the expression
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid filter syntax at offset %d: %s", e.Pos, e.Msg)
}

// OperatorTypeError reports a string-only operator applied to a numeric
// comparison, detected at evaluation time.
type OperatorTypeError struct {
	Clause string
	Op     string
}

func (e *OperatorTypeError) Error() string {
	return fmt.Sprintf("operator %s does not support numeric values in clause %q", e.Op, e.Clause)
}

// ClauseFormatError reports a clause that matches neither the binary
// comparison nor the unary presence grammar.
type ClauseFormatError struct {
	Clause string
}

func (e *ClauseFormatError) Error() string {
	return fmt.Sprintf("invalid filter clause %q", e.Clause)
}
