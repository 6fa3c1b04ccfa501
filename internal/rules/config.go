package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML document shape for a rule table override.
type File struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads a rule table from a YAML file and compiles it. An empty path or
// a missing file falls back to the builtin table; a malformed file or pattern
// is a configuration error and fails here, not per document.
func Load(path string) (*Table, error) {
	if path == "" {
		return Compile(Builtin())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Compile(Builtin())
		}
		return nil, fmt.Errorf("rules: read config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("rules: parse config: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules: config %q declares no rules", path)
	}

	return Compile(f.Rules)
}
