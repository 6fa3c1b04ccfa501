// Package rules defines the ordered compliance rule table the matcher runs
// against contract text. Rules are a closed, strongly-typed record list:
// adding one is a compile-time-checked edit to the builtin table or a YAML
// override validated at load time.
package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"leasewarden/internal/model"
)

// Rule is one entry in the compliance table. Pattern is a Go regular
// expression matched case-insensitively against normalized text.
type Rule struct {
	Label          string         `yaml:"label"`
	Severity       model.Severity `yaml:"severity"`
	Pattern        string         `yaml:"pattern"`
	Suggestion     string         `yaml:"suggestion"`
	LegalReference string         `yaml:"legal_reference"`
}

// Table holds a compiled rule table. Compilation happens once at load time;
// a malformed pattern is a configuration error and never reaches a document.
type Table struct {
	rules    []Rule
	compiled []*regexp.Regexp
	hash     string
}

// Compile validates and compiles a rule list into a Table. It fails fast on
// an empty label, an unknown severity, or a pattern that does not compile.
func Compile(rs []Rule) (*Table, error) {
	t := &Table{
		rules:    make([]Rule, len(rs)),
		compiled: make([]*regexp.Regexp, len(rs)),
	}
	copy(t.rules, rs)

	for i, r := range rs {
		if r.Label == "" {
			return nil, fmt.Errorf("rules: rule %d has no label", i)
		}
		if !r.Severity.Valid() {
			return nil, fmt.Errorf("rules: rule %q has unknown severity %q", r.Label, r.Severity)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: rule %q has malformed pattern: %w", r.Label, err)
		}
		t.compiled[i] = re
	}

	raw, err := yaml.Marshal(rs)
	if err != nil {
		return nil, fmt.Errorf("rules: hash table: %w", err)
	}
	sum := sha256.Sum256(raw)
	t.hash = "sha256:" + hex.EncodeToString(sum[:])

	return t, nil
}

// Len returns the number of rules in the table.
func (t *Table) Len() int { return len(t.rules) }

// At returns the rule and its compiled pattern at position i.
func (t *Table) At(i int) (Rule, *regexp.Regexp) {
	return t.rules[i], t.compiled[i]
}

// Rules returns a copy of the rule list in declaration order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Hash returns "sha256:<hex>" over the serialized rule table. Ledger payloads
// carry it so a verdict can be tied to the exact table that produced it.
func (t *Table) Hash() string { return t.hash }
