// Package brewfile parses and formats Homebrew Bundle manifests.
//
// The supported directive set is the documented Brewfile grammar: tap, brew
// (with args: and link: options), cask, and mas (with id:). Unknown
// directives are rejected rather than skipped so a typo in the manifest is
// caught at parse time.
package brewfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Kind discriminates manifest entries.
type Kind string

const (
	KindTap  Kind = "tap"
	KindBrew Kind = "brew"
	KindCask Kind = "cask"
	KindMas  Kind = "mas"
)

// Entry is one directive line of a Brewfile.
type Entry struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`

	// URL holds the optional second argument of a tap directive.
	URL string `json:"url,omitempty"`

	// Args holds the args: option of a brew directive.
	Args []string `json:"args,omitempty"`

	// Link holds the link: option of a brew directive. Nil means unset.
	Link *bool `json:"link,omitempty"`

	// ID holds the id: option of a mas directive.
	ID int64 `json:"id,omitempty"`
}

// Manifest is a parsed Brewfile. Entry order is preserved.
type Manifest struct {
	Entries []Entry
}

// Parse errors.
var (
	ErrUnknownDirective = errors.New("unknown directive")
	ErrMalformedLine    = errors.New("malformed line")
	ErrUnknownOption    = errors.New("unknown option")
)

// ParseFile reads and parses the Brewfile at path.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse reads a Brewfile from r. Blank lines and # comments are skipped.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		m.Entries = append(m.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseLine parses one directive line: `word "name"(, key: value)*`.
func parseLine(line string) (Entry, error) {
	word, rest, _ := strings.Cut(line, " ")
	kind := Kind(word)
	switch kind {
	case KindTap, KindBrew, KindCask, KindMas:
	default:
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownDirective, word)
	}

	fields, err := splitTopLevel(rest)
	if err != nil {
		return Entry{}, err
	}
	if len(fields) == 0 {
		return Entry{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	name, err := unquote(fields[0])
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{Kind: kind, Name: name}

	for _, field := range fields[1:] {
		// A quoted field is a positional argument; only tap takes one,
		// the clone URL.
		if strings.HasPrefix(field, `"`) || strings.HasPrefix(field, `'`) {
			if kind != KindTap || entry.URL != "" {
				return Entry{}, fmt.Errorf("%w: unexpected argument %s", ErrMalformedLine, field)
			}
			url, err := unquote(field)
			if err != nil {
				return Entry{}, err
			}
			entry.URL = url
			continue
		}
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			return Entry{}, fmt.Errorf("%w: %q", ErrMalformedLine, field)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if err := applyOption(&entry, key, value); err != nil {
			return Entry{}, err
		}
	}
	return entry, nil
}

// applyOption sets one `key: value` option on the entry, checking the
// option is valid for the entry's directive.
func applyOption(e *Entry, key, value string) error {
	switch {
	case e.Kind == KindBrew && key == "args":
		args, err := parseStringArray(value)
		if err != nil {
			return err
		}
		e.Args = args
	case e.Kind == KindBrew && key == "link":
		link, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: link: %q", ErrMalformedLine, value)
		}
		e.Link = &link
	case e.Kind == KindMas && key == "id":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: id: %q", ErrMalformedLine, value)
		}
		e.ID = id
	default:
		return fmt.Errorf("%w: %q for %s", ErrUnknownOption, key, e.Kind)
	}
	return nil
}

// splitTopLevel splits s on commas that are outside quotes and brackets.
func splitTopLevel(s string) ([]string, error) {
	var fields []string
	var buf strings.Builder
	depth := 0
	inQuote := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			buf.WriteRune(r)
		case inQuote:
			buf.WriteRune(r)
		case r == '[':
			depth++
			buf.WriteRune(r)
		case r == ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced brackets", ErrMalformedLine)
			}
			buf.WriteRune(r)
		case r == ',' && depth == 0:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}
	if inQuote || depth != 0 {
		return nil, fmt.Errorf("%w: unterminated quote or bracket", ErrMalformedLine)
	}
	if f := strings.TrimSpace(buf.String()); f != "" {
		fields = append(fields, f)
	}
	return fields, nil
}

// unquote strips the surrounding double quotes from a name token. Single
// quotes are accepted as well since Brewfiles in the wild use both.
func unquote(s string) (string, error) {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1], nil
		}
	}
	return "", fmt.Errorf("%w: expected quoted name, got %q", ErrMalformedLine, s)
}

// parseStringArray parses `["a", "b"]` into its elements.
func parseStringArray(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("%w: expected array, got %q", ErrMalformedLine, s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, nil
	}
	parts, err := splitTopLevel(inner)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v, err := unquote(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Format renders the manifest back to Brewfile syntax with taps first,
// then formulae, casks, and mas apps, preserving relative order within
// each group.
func (m *Manifest) Format() string {
	var b strings.Builder
	for _, kind := range []Kind{KindTap, KindBrew, KindCask, KindMas} {
		for _, e := range m.Entries {
			if e.Kind != kind {
				continue
			}
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String renders the entry as one Brewfile line.
func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q", e.Kind, e.Name)
	if e.URL != "" {
		fmt.Fprintf(&b, ", %q", e.URL)
	}
	if len(e.Args) > 0 {
		quoted := make([]string, len(e.Args))
		for i, a := range e.Args {
			quoted[i] = strconv.Quote(a)
		}
		fmt.Fprintf(&b, ", args: [%s]", strings.Join(quoted, ", "))
	}
	if e.Link != nil {
		fmt.Fprintf(&b, ", link: %t", *e.Link)
	}
	if e.ID != 0 {
		fmt.Fprintf(&b, ", id: %d", e.ID)
	}
	return b.String()
}

// BaseName returns the entry name without any tap qualifier, so
// "homebrew/cask/kitty" compares equal to an installed "kitty".
func (e Entry) BaseName() string {
	if i := strings.LastIndexByte(e.Name, '/'); i >= 0 {
		return e.Name[i+1:]
	}
	return e.Name
}

// Filter returns the entries of the given kind, in manifest order.
func (m *Manifest) Filter(kind Kind) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Missing returns the brew and cask entries whose base names are absent
// from the installed sets. Taps and mas apps are not checked; brew owns
// tap state and mas lookups need the mas CLI.
func (m *Manifest) Missing(formulae, casks map[string]bool) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		switch e.Kind {
		case KindBrew:
			if !formulae[e.BaseName()] {
				out = append(out, e)
			}
		case KindCask:
			if !casks[e.BaseName()] {
				out = append(out, e)
			}
		}
	}
	return out
}
