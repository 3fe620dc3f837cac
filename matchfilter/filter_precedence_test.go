package matchfilter

import "testing"

// TestOperatorPrecedence tests that '&' binds tighter than '||':
// "a & b || c" parses as "(a & b) || c".
func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		rec    Record
		expect bool
	}{
		{
			name:   "AND before OR - left disjunct match",
			expr:   "uploader='BBC' & duration<600 || ext=mp4",
			rec:    Record{"uploader": "BBC", "duration": 100, "ext": "webm"},
			expect: true, // (BBC AND short) OR mp4 = true OR false = true
		},
		{
			name:   "AND before OR - right disjunct match",
			expr:   "uploader='BBC' & duration<600 || ext=mp4",
			rec:    Record{"uploader": "CNN", "duration": 100, "ext": "mp4"},
			expect: true, // (false AND true) OR true = true
		},
		{
			name:   "AND before OR - no match",
			expr:   "uploader='BBC' & duration<600 || ext=mp4",
			rec:    Record{"uploader": "CNN", "duration": 100, "ext": "webm"},
			expect: false, // (false AND true) OR false = false
		},
		{
			name:   "AND before OR - AND group must fully hold",
			expr:   "ext=mp4 || uploader='BBC' & duration<600",
			rec:    Record{"uploader": "BBC", "duration": 900, "ext": "webm"},
			expect: false, // false OR (true AND false) = false
		},
		{
			name:   "parentheses override precedence",
			expr:   "(ext=mp4 || uploader='BBC') & duration<600",
			rec:    Record{"uploader": "BBC", "duration": 900, "ext": "webm"},
			expect: false, // (false OR true) AND false = false
		},
		{
			name:   "parentheses override precedence - match",
			expr:   "(ext=mp4 || uploader='BBC') & duration<600",
			rec:    Record{"uploader": "BBC", "duration": 100, "ext": "webm"},
			expect: true, // (false OR true) AND true = true
		},
		{
			name:   "left associative chain of AND",
			expr:   "filesize>100 & duration<600 & uploader='BBC'",
			rec:    Record{"filesize": 200, "duration": 100, "uploader": "BBC"},
			expect: true,
		},
		{
			name:   "left associative chain of OR",
			expr:   "uploader='BBC' || uploader='NHK' || uploader='CNN'",
			rec:    Record{"uploader": "CNN"},
			expect: true,
		},
		{
			name:   "redundant parentheses are a no-op",
			expr:   "(uploader='BBC')",
			rec:    Record{"uploader": "BBC"},
			expect: true,
		},
		{
			name:   "nested parentheses",
			expr:   "((uploader='BBC' || uploader='NHK') & (duration<600 || filesize<1000))",
			rec:    Record{"uploader": "NHK", "duration": 900, "filesize": 500},
			expect: true, // true AND (false OR true) = true
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

// TestPrecedenceEquivalence checks that the implicit grouping of
// "a & b || c" matches the explicit "(a & b) || c" on every record of a
// small truth-table corpus.
func TestPrecedenceEquivalence(t *testing.T) {
	implicit, err := New("a=1 & b=1 || c=1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	explicit, err := New("(a=1 & b=1) || c=1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for a := 0; a <= 1; a++ {
		for b := 0; b <= 1; b++ {
			for c := 0; c <= 1; c++ {
				rec := Record{"a": a, "b": b, "c": c}
				got1, err := implicit.Evaluate(rec)
				if err != nil {
					t.Fatalf("Evaluate failed: %v", err)
				}
				got2, err := explicit.Evaluate(rec)
				if err != nil {
					t.Fatalf("Evaluate failed: %v", err)
				}
				if got1 != got2 {
					t.Errorf("divergence on %v: implicit=%v explicit=%v", rec, got1, got2)
				}
			}
		}
	}
}

// TestGroupingNoOp checks that "(a)" and "a" are equivalent.
func TestGroupingNoOp(t *testing.T) {
	records := []Record{
		{"duration": 100},
		{"duration": 900},
		{},
	}

	plain, err := New("duration<600")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	grouped, err := New("(duration<600)")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, rec := range records {
		got1, err := plain.Evaluate(rec)
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		got2, err := grouped.Evaluate(rec)
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if got1 != got2 {
			t.Errorf("divergence on %v: plain=%v grouped=%v", rec, got1, got2)
		}
	}
}
