package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/vidsift/vidsift/config"
	"github.com/vidsift/vidsift/internal/app"
	"github.com/vidsift/vidsift/internal/viewer"
	"github.com/vidsift/vidsift/matchfilter"
)

// main parses flags, loads configuration and runs the record filter.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("vidsift", pflag.ContinueOnError)
	flags.SortFlags = false

	filterExpr := flags.StringP("filter", "f", "", "match-filter expression to apply")
	rulesPath := flags.String("rules", "", "rules.yaml with named filters (default: user config dir)")
	export := flags.Bool("export", false, "print the canonical AND-clause list and exit")
	count := flags.BoolP("count", "c", false, "print the number of matching records instead of the records")
	matchIncomplete := flags.Bool("match-incomplete", false, "let clauses over missing fields succeed")
	input := flags.StringP("input", "i", "", "read records from a file instead of stdin")
	configFile := flags.String("config", "", "explicit config file (default: search user config dir)")
	_ = flags.String("log-level", "", "log level (debug, info, warn, error)")
	version := flags.BoolP("version", "v", false, "print version and exit")

	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: vidsift [flags] < records.jsonl")
		fmt.Fprintln(os.Stderr, "       vidsift syntax")
		fmt.Fprintln(os.Stderr)
		flags.PrintDefaults()
	}

	// Handle the syntax help mode before flag parsing
	if len(args) > 0 && args[0] == "syntax" {
		if err := viewer.RunSyntax(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		return 0
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return 2
	}

	// Handle version flag
	if *version {
		fmt.Printf("vidsift version %s\ncommit: %s\nbuilt: %s\n",
			config.Version, config.GitCommit, config.BuildDate)
		return 0
	}

	// Initialize paths early - configuration lookup depends on them
	if err := config.InitPaths(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	cfg, err := config.LoadConfigFile(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	config.InitLogging(cfg)

	if *filterExpr == "" && *rulesPath == "" {
		// Fall back to the rules file in the user config directory
		if defaultRules := config.GetRulesFile(); fileExists(defaultRules) {
			*rulesPath = defaultRules
		} else {
			fmt.Fprintln(os.Stderr, "error: either --filter or --rules is required")
			flags.Usage()
			return 2
		}
	}
	if *filterExpr != "" && *rulesPath != "" {
		fmt.Fprintln(os.Stderr, "error: --filter and --rules are mutually exclusive")
		return 2
	}
	if *export && *filterExpr == "" {
		fmt.Fprintln(os.Stderr, "error: --export requires --filter")
		return 2
	}

	in := os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	opts := app.Options{
		FilterExpr:      *filterExpr,
		RulesPath:       *rulesPath,
		Export:          *export,
		Count:           *count || cfg.Output.Format == "count",
		MatchIncomplete: *matchIncomplete || cfg.Filter.MatchIncomplete,
	}

	if err := app.Run(opts, in, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if isFilterError(err) {
			return 2
		}
		return 1
	}
	return 0
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// isFilterError reports whether the error stems from the filter text
// itself. Those are usage errors rather than runtime failures.
func isFilterError(err error) bool {
	var syntaxErr *matchfilter.SyntaxError
	var opErr *matchfilter.OperatorTypeError
	var clauseErr *matchfilter.ClauseFormatError
	return errors.As(err, &syntaxErr) || errors.As(err, &opErr) || errors.As(err, &clauseErr)
}
