package brewfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBrewfile = `# taps
tap "homebrew/bundle"
tap "derailed/k9s"

# formulae
brew "git"
brew "restic"
brew "neovim", args: ["HEAD"]
brew "openssl@3", link: false
brew "derailed/k9s/k9s"

# casks
cask "kitty"
cask "firefox"

# app store
mas "Xcode", id: 497799835
`

func TestParse(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleBrewfile))
	require.NoError(t, err)
	require.Len(t, m.Entries, 10)

	assert.Len(t, m.Filter(KindTap), 2)
	assert.Len(t, m.Filter(KindBrew), 5)
	assert.Len(t, m.Filter(KindCask), 2)
	assert.Len(t, m.Filter(KindMas), 1)

	neovim := m.Entries[4]
	assert.Equal(t, KindBrew, neovim.Kind)
	assert.Equal(t, "neovim", neovim.Name)
	assert.Equal(t, []string{"HEAD"}, neovim.Args)

	openssl := m.Entries[5]
	require.NotNil(t, openssl.Link)
	assert.False(t, *openssl.Link)

	xcode := m.Entries[9]
	assert.Equal(t, KindMas, xcode.Kind)
	assert.Equal(t, int64(497799835), xcode.ID)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{"unknown directive", `apt "git"`, ErrUnknownDirective},
		{"missing quotes", `brew git`, ErrMalformedLine},
		{"option on wrong directive", `cask "kitty", args: ["a"]`, ErrUnknownOption},
		{"unknown option", `brew "git", flags: ["a"]`, ErrUnknownOption},
		{"bad link value", `brew "git", link: maybe`, ErrMalformedLine},
		{"bad mas id", `mas "Xcode", id: abc`, ErrMalformedLine},
		{"unterminated quote", `brew "git`, ErrMalformedLine},
		{"unbalanced bracket", `brew "git", args: ["a"`, ErrMalformedLine},
		{"empty directive", `brew`, ErrMalformedLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.line))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestParseTapURL(t *testing.T) {
	m, err := Parse(strings.NewReader(`tap "user/repo", "https://example.com/user/homebrew-repo.git"`))
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "user/repo", m.Entries[0].Name)
	assert.Equal(t, "https://example.com/user/homebrew-repo.git", m.Entries[0].URL)

	// The URL survives formatting.
	m2, err := Parse(strings.NewReader(m.Format()))
	require.NoError(t, err)
	assert.Equal(t, m.Entries, m2.Entries)
}

func TestParseRejectsStrayPositionalArgs(t *testing.T) {
	_, err := Parse(strings.NewReader(`brew "git", "what"`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedLine))

	_, err = Parse(strings.NewReader(`tap "a/b", "https://x", "https://y"`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedLine))
}

func TestParseCommaInsideQuotes(t *testing.T) {
	m, err := Parse(strings.NewReader(`brew "weird,name"`))
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "weird,name", m.Entries[0].Name)
}

func TestFormatRoundTrip(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleBrewfile))
	require.NoError(t, err)

	formatted := m.Format()
	m2, err := Parse(strings.NewReader(formatted))
	require.NoError(t, err)
	assert.Equal(t, m.Entries, m2.Entries)

	// Groups come out in canonical order.
	tapIdx := strings.Index(formatted, "tap ")
	brewIdx := strings.Index(formatted, "brew ")
	caskIdx := strings.Index(formatted, "cask ")
	masIdx := strings.Index(formatted, "mas ")
	assert.True(t, tapIdx < brewIdx && brewIdx < caskIdx && caskIdx < masIdx)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "k9s", Entry{Name: "derailed/k9s/k9s"}.BaseName())
	assert.Equal(t, "git", Entry{Name: "git"}.BaseName())
}

func TestMissing(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleBrewfile))
	require.NoError(t, err)

	formulae := map[string]bool{"git": true, "restic": true, "neovim": true, "openssl@3": true}
	casks := map[string]bool{"kitty": true}

	missing := m.Missing(formulae, casks)
	require.Len(t, missing, 2)
	assert.Equal(t, "derailed/k9s/k9s", missing[0].Name)
	assert.Equal(t, "firefox", missing[1].Name)
}

func TestMissingTapQualifiedName(t *testing.T) {
	m, err := Parse(strings.NewReader(`brew "derailed/k9s/k9s"`))
	require.NoError(t, err)

	missing := m.Missing(map[string]bool{"k9s": true}, nil)
	assert.Empty(t, missing)
}
