package k9sgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dotforge/dotkit/pkg/types"
)

func samplePlugins() []types.Plugin {
	return []types.Plugin{
		{
			Name:        "stern-logs",
			ShortCut:    "Ctrl-L",
			Description: "Tail logs with stern",
			Scopes:      []string{"pods"},
			Command:     "stern",
			Args:        []string{"--tail", "50", "$NAME"},
			Background:  false,
		},
		{
			Name:     "delete-pvc",
			ShortCut: "Ctrl-X",
			Scopes:   []string{"persistentvolumeclaims"},
			Command:  "kubectl",
			Args:     []string{"delete", "pvc", "$NAME", "-n", "$NAMESPACE"},
			Confirm:  true,
		},
	}
}

func TestRender(t *testing.T) {
	data, err := Render(samplePlugins())
	require.NoError(t, err)

	var doc struct {
		Plugins map[string]struct {
			ShortCut string   `yaml:"shortCut"`
			Scopes   []string `yaml:"scopes"`
			Command  string   `yaml:"command"`
			Args     []string `yaml:"args"`
			Confirm  bool     `yaml:"confirm"`
		} `yaml:"plugins"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.Plugins, 2)

	stern := doc.Plugins["stern-logs"]
	assert.Equal(t, "Ctrl-L", stern.ShortCut)
	assert.Equal(t, []string{"pods"}, stern.Scopes)
	assert.Equal(t, "stern", stern.Command)

	del := doc.Plugins["delete-pvc"]
	assert.True(t, del.Confirm)
	assert.Equal(t, []string{"delete", "pvc", "$NAME", "-n", "$NAMESPACE"}, del.Args)
}

func TestRenderDeterministic(t *testing.T) {
	a, err := Render(samplePlugins())
	require.NoError(t, err)
	b, err := Render(samplePlugins())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderDuplicateName(t *testing.T) {
	plugins := samplePlugins()
	plugins[1].Name = plugins[0].Name
	plugins[1].ShortCut = "Ctrl-Y"

	_, err := Render(plugins)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateName))
}

func TestRenderDuplicateShortcut(t *testing.T) {
	plugins := samplePlugins()
	plugins[1].ShortCut = plugins[0].ShortCut

	_, err := Render(plugins)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateShortcut))
}

func TestCommandLineQuoting(t *testing.T) {
	p := types.Plugin{
		Command: "sh",
		Args:    []string{"-c", "echo hello world"},
	}
	assert.Equal(t, `sh -c 'echo hello world'`, CommandLine(p))
}

func TestSummariesSorted(t *testing.T) {
	lines := Summaries(samplePlugins())
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "delete-pvc")
	assert.Contains(t, lines[1], "stern-logs")
}
