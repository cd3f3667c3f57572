package dictionary

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMalformedPlugin marks rule data that cannot be compiled. It is fatal for
// the language: a broken pattern would silently change the expansion result.
var ErrMalformedPlugin = errors.New("malformed plugin")

// Definition is the on-disk form of a language plugin.
//
//	patterns:
//	  "1":
//	    'run$': [running, runner]
//	  "2":
//	    '(.*)er$': ['${1}ers']
//	prefixes: [un, re]
//
// JSON with the same shape is accepted too.
type Definition struct {
	Patterns map[string]map[string][]string `yaml:"patterns" json:"patterns"`
	Prefixes []string                       `yaml:"prefixes" json:"prefixes"`
}

// Rule rewrites words matching Pattern into one candidate per replacement template
type Rule struct {
	Pattern      *regexp.Regexp
	Replacements []string
}

// Layer is one expansion stage
type Layer struct {
	Name  string
	Rules []Rule
}

// Plugin is a compiled Definition
type Plugin struct {
	Layers   []Layer
	Prefixes []string

	source []byte
}

// backrefPattern finds \1-style group references in replacement templates
var backrefPattern = regexp.MustCompile(`\\(\d+)`)

// Compile validates a definition and compiles its patterns.
//
// Layers are ordered by plain string comparison of their names, so "10" runs
// before "2". Layer names are expected to be single digits; deeper pipelines
// must pad their names ("02", "10").
func Compile(def Definition) (*Plugin, error) {
	names := make([]string, 0, len(def.Patterns))
	for name := range def.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	plugin := &Plugin{}
	for _, name := range names {
		rules := def.Patterns[name]

		patterns := make([]string, 0, len(rules))
		for p := range rules {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)

		layer := Layer{Name: name}
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("%w: layer %q pattern %q: %v", ErrMalformedPlugin, name, p, err)
			}
			templates := make([]string, len(rules[p]))
			for i, tmpl := range rules[p] {
				templates[i] = backrefPattern.ReplaceAllString(tmpl, "$${${1}}")
			}
			layer.Rules = append(layer.Rules, Rule{Pattern: re, Replacements: templates})
		}
		plugin.Layers = append(plugin.Layers, layer)
	}

	for _, prefix := range def.Prefixes {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			plugin.Prefixes = append(plugin.Prefixes, prefix)
		}
	}

	return plugin, nil
}

// ParsePlugin decodes and compiles a YAML or JSON plugin definition
func ParsePlugin(data []byte) (*Plugin, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlugin, err)
	}
	plugin, err := Compile(def)
	if err != nil {
		return nil, err
	}
	plugin.source = data
	return plugin, nil
}

// Source returns the raw definition the plugin was parsed from, or nil when
// it was compiled directly
func (p *Plugin) Source() []byte {
	return p.source
}

// LoadPluginFile reads and compiles a plugin file. A missing file, or an empty
// path, is not an error: it returns a nil plugin and expansion does nothing.
func LoadPluginFile(path string) (*Plugin, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read plugin: %w", err)
	}

	plugin, err := ParsePlugin(data)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", path, err)
	}
	return plugin, nil
}

// LayerNames returns the layer names in execution order
func (p *Plugin) LayerNames() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.Layers))
	for i, l := range p.Layers {
		names[i] = l.Name
	}
	return names
}
