package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/vidsift/vidsift/matchfilter"
	"github.com/vidsift/vidsift/rules"
)

// The CLI core: stream metadata records as JSON lines, evaluate a filter
// expression or a rules file against each, and write the survivors back
// out. Stdout carries records only; diagnostics go through slog.

// maxRecordSize bounds a single JSON-lines record (metadata dumps for
// playlists can carry very long description fields).
const maxRecordSize = 16 * 1024 * 1024

// Options selects what Run does.
type Options struct {
	FilterExpr      string // match-filter expression (mutually exclusive with RulesPath)
	RulesPath       string // path to a rules.yaml
	Export          bool   // print canonical clauses instead of filtering
	Count           bool   // print the number of matches instead of the records
	MatchIncomplete bool   // missing-field policy for every clause
}

// Run executes one invocation against the given streams.
func Run(opts Options, in io.Reader, out io.Writer) error {
	if opts.Export {
		return runExport(opts.FilterExpr, out)
	}

	decide, err := newDecider(opts)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxRecordSize)

	matched := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec matchfilter.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			slog.Warn("skipping malformed record", "line", lineNo, "error", err)
			continue
		}

		keep, err := decide(rec)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !keep {
			continue
		}

		matched++
		if opts.Count {
			continue
		}
		if _, err := out.Write(line); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading records: %w", err)
	}

	if opts.Count {
		if _, err := fmt.Fprintln(out, matched); err != nil {
			return fmt.Errorf("writing count: %w", err)
		}
	}

	slog.Debug("run finished", "lines", lineNo, "matched", matched)
	return nil
}

// newDecider builds the per-record decision function from either a
// filter expression or a rules file.
func newDecider(opts Options) (func(matchfilter.Record) (bool, error), error) {
	evalOpts := matchfilter.Options{MatchIncomplete: opts.MatchIncomplete}

	if opts.RulesPath != "" {
		set, err := rules.Load(opts.RulesPath)
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded rules", "count", len(set.Rules), "path", opts.RulesPath)
		return func(rec matchfilter.Record) (bool, error) {
			action, rule, err := set.Apply(rec, evalOpts)
			if err != nil {
				return false, err
			}
			if rule != nil {
				slog.Debug("rule matched", "rule", rule.Name, "action", action)
			}
			return action == rules.ActionAccept, nil
		}, nil
	}

	filter, err := matchfilter.New(opts.FilterExpr)
	if err != nil {
		return nil, err
	}
	return func(rec matchfilter.Record) (bool, error) {
		return filter.EvaluateWithOptions(rec, evalOpts)
	}, nil
}

// runExport prints the canonical AND-only clause list, one per line.
func runExport(expr string, out io.Writer) error {
	filter, err := matchfilter.New(expr)
	if err != nil {
		return err
	}
	for _, clause := range filter.Export() {
		if _, err := fmt.Fprintln(out, clause); err != nil {
			return fmt.Errorf("writing clause: %w", err)
		}
	}
	return nil
}
