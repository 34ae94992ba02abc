// Package config loads envmerge's optional YAML configuration file and
// applies ENVMERGE_* environment overrides on top of it. CLI flags override
// both; that precedence lives in the command layer.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"envmerge/internal/merge"
	"envmerge/internal/mergekit"
)

// Config mirrors envmerge.yaml.
type Config struct {
	// Prefer accepts either a scalar side ("template" / "destination") or a
	// mapping with "default" and per-tag "rules".
	Prefer PreferenceConfig `yaml:"prefer"`

	AppendNew   bool   `yaml:"append_new"`
	FreezeToken string `yaml:"freeze_token"`
	Output      string `yaml:"output"`
}

// PreferenceConfig is the YAML shape of a merge preference.
type PreferenceConfig struct {
	Side    string
	Default string
	Rules   map[string]string
}

// UnmarshalYAML accepts both forms:
//
//	prefer: template
//
//	prefer:
//	  default: destination
//	  rules:
//	    secret: destination
func (p *PreferenceConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&p.Side)
	case yaml.MappingNode:
		var m struct {
			Default string            `yaml:"default"`
			Rules   map[string]string `yaml:"rules"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		p.Default = m.Default
		p.Rules = m.Rules
		return nil
	default:
		return fmt.Errorf("prefer: expected a side name or a mapping")
	}
}

// Default returns the built-in configuration: destination preference, no
// appending, the standard freeze token.
func Default() *Config {
	return &Config{
		Prefer:      PreferenceConfig{Side: "destination"},
		FreezeToken: mergekit.DefaultFreezeToken,
	}
}

// Load reads path when it exists, falling back to defaults when it does
// not, then applies environment overrides either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Optional file; defaults apply.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ENVMERGE_PREFER"); v != "" {
		c.Prefer = PreferenceConfig{Side: v}
	}
	if v := os.Getenv("ENVMERGE_APPEND_NEW"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AppendNew = b
		}
	}
	if v := os.Getenv("ENVMERGE_FREEZE_TOKEN"); v != "" {
		c.FreezeToken = v
	}
	if v := os.Getenv("ENVMERGE_OUTPUT"); v != "" {
		c.Output = v
	}
}

// MergeOptions translates the file-level configuration into engine options.
func (c *Config) MergeOptions() (merge.Options, error) {
	o := merge.Options{
		AppendTemplateOnly: c.AppendNew,
		FreezeToken:        c.FreezeToken,
	}

	pref, err := c.Prefer.preference()
	if err != nil {
		return merge.Options{}, err
	}
	o.Preference = pref
	return o, nil
}

func (p PreferenceConfig) preference() (merge.Preference, error) {
	if p.Rules == nil && p.Default == "" {
		side, err := ParseSide(p.Side)
		if err != nil {
			return merge.Preference{}, err
		}
		return merge.Preference{Side: side}, nil
	}

	pref := merge.Preference{Rules: make(map[string]mergekit.Side, len(p.Rules))}
	for tag, name := range p.Rules {
		side, err := ParseSide(name)
		if err != nil {
			return merge.Preference{}, fmt.Errorf("rule %q: %w", tag, err)
		}
		pref.Rules[tag] = side
	}
	if p.Default != "" {
		side, err := ParseSide(p.Default)
		if err != nil {
			return merge.Preference{}, fmt.Errorf("default: %w", err)
		}
		pref.Default = side
	}
	return pref, nil
}

// ParseSide maps a configured side name to its engine value. The empty
// string means destination.
func ParseSide(name string) (mergekit.Side, error) {
	switch name {
	case "", "destination", "dest":
		return mergekit.SideDestination, nil
	case "template", "tpl":
		return mergekit.SideTemplate, nil
	default:
		return 0, fmt.Errorf("unknown side %q (want template or destination)", name)
	}
}
