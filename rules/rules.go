package rules

import (
	"fmt"
	"os"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gopkg.in/yaml.v3"

	"github.com/vidsift/vidsift/matchfilter"
)

// Named filter presets. A rules file carries an ordered list of match
// expressions with an accept/reject action; the first matching rule
// decides a record's fate.

// Action is what a matching rule does with a record.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Rule is one named filter preset.
type Rule struct {
	ID     string
	Name   string
	Match  string
	Action Action

	filter *matchfilter.Filter
}

// Set is an ordered collection of rules.
type Set struct {
	Rules []*Rule
}

// ruleFileConfig mirrors the YAML shape of one rule entry.
type ruleFileConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Match  string `yaml:"match"`
	Action string `yaml:"action"`
}

type rulesFileData struct {
	Rules []ruleFileConfig `yaml:"rules"`
}

// Load reads and parses a rules file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse builds a Set from YAML. Every match expression is parsed
// eagerly so a broken preset fails at load time, not on first use.
func Parse(data []byte) (*Set, error) {
	var file rulesFileData
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules yaml: %w", err)
	}

	set := &Set{Rules: make([]*Rule, 0, len(file.Rules))}
	for i, cfg := range file.Rules {
		rule, err := buildRule(cfg)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, cfg.Name, err)
		}
		set.Rules = append(set.Rules, rule)
	}
	return set, nil
}

func buildRule(cfg ruleFileConfig) (*Rule, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("rule requires a 'name'")
	}
	if cfg.Match == "" {
		return nil, fmt.Errorf("rule requires a 'match' expression")
	}

	action := Action(cfg.Action)
	if cfg.Action == "" {
		action = ActionAccept
	}
	if action != ActionAccept && action != ActionReject {
		return nil, fmt.Errorf("action must be 'accept' or 'reject', got %q", cfg.Action)
	}

	filter, err := matchfilter.New(cfg.Match)
	if err != nil {
		return nil, fmt.Errorf("parsing match expression: %w", err)
	}

	id := cfg.ID
	if id == "" {
		id = generateRuleID()
	}

	return &Rule{
		ID:     id,
		Name:   cfg.Name,
		Match:  cfg.Match,
		Action: action,
		filter: filter,
	}, nil
}

// Filter returns the parsed match expression of the rule.
func (r *Rule) Filter() *matchfilter.Filter {
	return r.filter
}

// Apply runs the record through the rules in order and returns the
// decision of the first matching rule, along with the rule itself.
// A record that matches no rule is accepted with a nil rule.
func (s *Set) Apply(rec matchfilter.Record, opts matchfilter.Options) (Action, *Rule, error) {
	for _, rule := range s.Rules {
		ok, err := rule.filter.EvaluateWithOptions(rec, opts)
		if err != nil {
			return ActionReject, rule, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		if ok {
			return rule.Action, rule, nil
		}
	}
	return ActionAccept, nil, nil
}

// generateRuleID generates a 6-character random alphanumeric ID (lowercase)
func generateRuleID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	const length = 6
	id, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		// Fallback to a fixed marker if nanoid fails
		return "rule00"
	}
	return id
}
