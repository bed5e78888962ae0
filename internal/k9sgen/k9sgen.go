// Package k9sgen renders k9s plugin configuration from dotkit's declarative
// plugin definitions.
//
// k9s reads plugins from a `plugins` map keyed by plugin name; each value
// carries the shortcut, scopes, and the shell command the keybinding runs.
package k9sgen

import (
	"errors"
	"fmt"
	"sort"

	shellquote "github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"github.com/dotforge/dotkit/pkg/types"
)

// pluginSpec is the k9s-side shape of one plugin.
type pluginSpec struct {
	ShortCut    string   `yaml:"shortCut"`
	Description string   `yaml:"description,omitempty"`
	Scopes      []string `yaml:"scopes,omitempty"`
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args,omitempty"`
	Confirm     bool     `yaml:"confirm"`
	Background  bool     `yaml:"background"`
}

// document is the top-level plugins.yaml shape.
type document struct {
	Plugins map[string]pluginSpec `yaml:"plugins"`
}

var (
	ErrDuplicateName     = errors.New("duplicate plugin name")
	ErrDuplicateShortcut = errors.New("duplicate plugin shortcut")
)

// Render emits a plugins.yaml document. Plugin names must be unique and so
// must shortcuts within a scope-free view; k9s resolves collisions by last
// writer, which is never what the author meant.
func Render(plugins []types.Plugin) ([]byte, error) {
	if err := checkCollisions(plugins); err != nil {
		return nil, err
	}

	doc := document{Plugins: make(map[string]pluginSpec, len(plugins))}
	for _, p := range plugins {
		doc.Plugins[p.Name] = pluginSpec{
			ShortCut:    p.ShortCut,
			Description: p.Description,
			Scopes:      p.Scopes,
			Command:     p.Command,
			Args:        p.Args,
			Confirm:     p.Confirm,
			Background:  p.Background,
		}
	}

	// yaml.Marshal sorts map keys, so output is already deterministic.
	return yaml.Marshal(doc)
}

func checkCollisions(plugins []types.Plugin) error {
	names := make(map[string]bool, len(plugins))
	shortcuts := make(map[string]string, len(plugins))
	for _, p := range plugins {
		if names[p.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		names[p.Name] = true
		if prev, ok := shortcuts[p.ShortCut]; ok {
			return fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateShortcut, p.ShortCut, prev, p.Name)
		}
		shortcuts[p.ShortCut] = p.Name
	}
	return nil
}

// CommandLine returns the plugin's command as a single shell-quoted string
// for display.
func CommandLine(p types.Plugin) string {
	return shellquote.Join(append([]string{p.Command}, p.Args...)...)
}

// Summaries returns one display line per plugin, sorted by name.
func Summaries(plugins []types.Plugin) []string {
	sorted := make([]types.Plugin, len(plugins))
	copy(sorted, plugins)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	out := make([]string, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, fmt.Sprintf("%-16s %-10s %s", p.Name, p.ShortCut, CommandLine(p)))
	}
	return out
}
