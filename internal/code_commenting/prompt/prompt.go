// Package prompt holds the instruction templates the user's code is embedded into.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholder marks where the submitted code is interpolated.
const Placeholder = "{code}"

var (
	ErrUnknownStyle       = errors.New("unknown prompt style")
	ErrInvalidPlaceholder = errors.New("template must contain the {code} placeholder exactly once")
)

var builtin = map[string]string{
	"meme":      memeIntro + "\n\n" + fmt.Sprintf(sharedRules, memeThemes),
	"roast":     roastIntro + "\n\n" + fmt.Sprintf(sharedRules, roastThemes),
	"wholesome": wholesomeIntro + "\n\n" + fmt.Sprintf(sharedRules, wholesomeThemes),
}

// Template is an immutable instruction template with a single code placeholder.
type Template struct {
	name string
	text string
}

// Parse validates text and returns a Template named name.
func Parse(name, text string) (Template, error) {
	if strings.Count(text, Placeholder) != 1 {
		return Template{}, fmt.Errorf("template %q: %w", name, ErrInvalidPlaceholder)
	}
	return Template{name: name, text: text}, nil
}

// ForStyle returns one of the built-in templates.
func ForStyle(style string) (Template, error) {
	text, ok := builtin[style]
	if !ok {
		return Template{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownStyle, style, strings.Join(Styles(), ", "))
	}
	return Parse(style, text)
}

// templateDoc is the YAML form of a template file.
type templateDoc struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

// LoadFile reads a custom template from disk. Files ending in .yaml or .yml
// carry a name and a template; anything else is the raw template text.
func LoadFile(path string) (Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read prompt template: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc templateDoc
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return Template{}, fmt.Errorf("parse prompt template %s: %w", path, err)
		}
		name := doc.Name
		if name == "" {
			name = path
		}
		return Parse(name, doc.Template)
	default:
		return Parse(path, string(b))
	}
}

// Resolve picks the template file when set, otherwise the named style.
func Resolve(style, file string) (Template, error) {
	if file != "" {
		return LoadFile(file)
	}
	return ForStyle(style)
}

// Styles lists the built-in style names.
func Styles() []string {
	out := make([]string, 0, len(builtin))
	for k := range builtin {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (t Template) Name() string { return t.name }

// Build interpolates code verbatim into the template.
func (t Template) Build(code string) string {
	return strings.Replace(t.text, Placeholder, code, 1)
}
