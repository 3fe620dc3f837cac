package matchfilter

import (
	"errors"
	"testing"
)

func TestMatchBasicComparisons(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		rec    Record
		expect bool
	}{
		{
			name:   "numeric greater-than match",
			expr:   "filesize>1000000",
			rec:    Record{"filesize": 2_000_000},
			expect: true,
		},
		{
			name:   "numeric greater-than no match",
			expr:   "filesize>1000000",
			rec:    Record{"filesize": 500_000},
			expect: false,
		},
		{
			name:   "conjunction of numeric clauses",
			expr:   "filesize>1000000 & duration<600",
			rec:    Record{"filesize": 2_000_000, "duration": 200},
			expect: true, // both clauses hold
		},
		{
			name:   "conjunction fails on right clause",
			expr:   "filesize>1000000 & duration<600",
			rec:    Record{"filesize": 2_000_000, "duration": 900},
			expect: false,
		},
		{
			name:   "string equality quoted",
			expr:   "uploader='BBC'",
			rec:    Record{"uploader": "BBC"},
			expect: true,
		},
		{
			name:   "string equality no match across disjunction",
			expr:   "uploader='BBC' || uploader='NHK'",
			rec:    Record{"uploader": "CNN"},
			expect: false,
		},
		{
			name:   "double quoted value",
			expr:   `uploader="BBC"`,
			rec:    Record{"uploader": "BBC"},
			expect: true,
		},
		{
			name:   "quoted value with spaces",
			expr:   "uploader='BBC News Channel'",
			rec:    Record{"uploader": "BBC News Channel"},
			expect: true,
		},
		{
			name:   "quoted value with escaped quote",
			expr:   `title='it\'s fine'`,
			rec:    Record{"title": "it's fine"},
			expect: true,
		},
		{
			name:   "quoted value containing ampersand",
			expr:   "uploader='A&E'",
			rec:    Record{"uploader": "A&E"},
			expect: true,
		},
		{
			name:   "spaced-out comparison",
			expr:   "filesize  >  1000000",
			rec:    Record{"filesize": 2_000_000},
			expect: true, // whitespace around the operator is insignificant
		},
		{
			name:   "spaced-out string comparison",
			expr:   "uploader = 'BBC'",
			rec:    Record{"uploader": "BBC"},
			expect: true,
		},
		{
			name:   "negated equality",
			expr:   "uploader!='BBC'",
			rec:    Record{"uploader": "CNN"},
			expect: true,
		},
		{
			name:   "negated equality no match",
			expr:   "uploader!='BBC'",
			rec:    Record{"uploader": "BBC"},
			expect: false,
		},
		{
			name:   "less-or-equal boundary",
			expr:   "duration<=600",
			rec:    Record{"duration": 600},
			expect: true,
		},
		{
			name:   "bare unquoted value",
			expr:   "ext=mp4",
			rec:    Record{"ext": "mp4"},
			expect: true,
		},
		{
			name:   "presence of boolean true",
			expr:   "is_live",
			rec:    Record{"is_live": true},
			expect: true,
		},
		{
			name:   "presence of boolean false",
			expr:   "is_live",
			rec:    Record{"is_live": false},
			expect: false,
		},
		{
			name:   "negated presence of boolean false",
			expr:   "!is_live",
			rec:    Record{"is_live": false},
			expect: true,
		},
		{
			name:   "presence of non-boolean value",
			expr:   "uploader",
			rec:    Record{"uploader": "BBC"},
			expect: true,
		},
		{
			name:   "substring operator",
			expr:   "uploader*='News'",
			rec:    Record{"uploader": "BBC News Channel"},
			expect: true,
		},
		{
			name:   "prefix operator",
			expr:   "uploader^='BBC'",
			rec:    Record{"uploader": "BBC News"},
			expect: true,
		},
		{
			name:   "suffix operator",
			expr:   "uploader$='News'",
			rec:    Record{"uploader": "BBC News"},
			expect: true,
		},
		{
			name:   "regex operator",
			expr:   "uploader~='^(BBC|NHK)'",
			rec:    Record{"uploader": "NHK World"},
			expect: true,
		},
		{
			name:   "negated substring operator",
			expr:   "uploader!*='News'",
			rec:    Record{"uploader": "BBC Radio"},
			expect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Match(tt.expr, tt.rec)
			if err != nil {
				t.Fatalf("Match failed: %v", err)
			}
			if result != tt.expect {
				t.Errorf("Expected %v, got %v for expression: %s", tt.expect, result, tt.expr)
			}
		})
	}
}

func TestNewSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "empty expression", expr: ""},
		{name: "whitespace only", expr: "   "},
		{name: "unbalanced open paren", expr: "(filesize>100"},
		{name: "unbalanced close paren", expr: "filesize>100)"},
		{name: "empty parentheses", expr: "()"},
		{name: "dangling AND", expr: "filesize>100 &"},
		{name: "dangling OR", expr: "filesize>100 ||"},
		{name: "leading AND", expr: "& filesize>100"},
		{name: "single pipe", expr: "a=1 | b=2"},
		{name: "adjacent clauses without connective", expr: "uploader='BBC' ext=mp4"},
		{name: "unterminated quote", expr: "uploader='BBC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.expr)
			if err == nil {
				t.Fatalf("expected syntax error for %q", tt.expr)
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Errorf("expected *SyntaxError, got %T: %v", err, err)
			}
		})
	}
}

// Construction must fail eagerly; a structural error never waits for the
// first Evaluate call.
func TestNewParsesEagerly(t *testing.T) {
	if _, err := New("(a=1 & b=2"); err == nil {
		t.Fatal("expected error at construction time")
	}

	f, err := New("filesize>1000000 || uploader='BBC'")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if f.Source() != "filesize>1000000 || uploader='BBC'" {
		t.Errorf("Source() = %q", f.Source())
	}
}

func TestFilterReuseAcrossRecords(t *testing.T) {
	f, err := New("(filesize>1000000 & duration<600) || uploader='BBC'")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name   string
		rec    Record
		expect bool
	}{
		{
			name:   "matches on uploader branch alone",
			rec:    Record{"uploader": "BBC"},
			expect: true,
		},
		{
			name:   "matches on size and duration branch",
			rec:    Record{"filesize": 5_000_000, "duration": 100, "uploader": "CNN"},
			expect: true,
		},
		{
			name:   "no branch matches",
			rec:    Record{"filesize": 100, "duration": 100, "uploader": "CNN"},
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.Evaluate(tt.rec)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if result != tt.expect {
				t.Errorf("Expected %v, got %v", tt.expect, result)
			}
		})
	}
}
