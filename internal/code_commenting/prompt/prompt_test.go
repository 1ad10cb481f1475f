package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinStylesAreValid(t *testing.T) {
	assert.Equal(t, []string{"meme", "roast", "wholesome"}, Styles())

	for _, style := range Styles() {
		t.Run(style, func(t *testing.T) {
			tmpl, err := ForStyle(style)
			require.NoError(t, err)
			assert.Equal(t, style, tmpl.Name())

			out := tmpl.Build("CODE")
			assert.NotContains(t, out, Placeholder)
			assert.True(t, strings.HasSuffix(out, "CODE"))
			assert.Contains(t, out, "max 60 characters")
			assert.Contains(t, out, "120 character total line width")
		})
	}
}

func TestForStyle_Unknown(t *testing.T) {
	_, err := ForStyle("limerick")
	assert.ErrorIs(t, err, ErrUnknownStyle)
}

func TestParse_PlaceholderCount(t *testing.T) {
	_, err := Parse("none", "no placeholder here")
	assert.ErrorIs(t, err, ErrInvalidPlaceholder)

	_, err = Parse("twice", "{code} and {code}")
	assert.ErrorIs(t, err, ErrInvalidPlaceholder)

	tmpl, err := Parse("ok", "Comment this:\n{code}\nThanks")
	require.NoError(t, err)
	assert.Equal(t, "Comment this:\nfoo()\nThanks", tmpl.Build("foo()"))
}

func TestBuild_DoesNotExpandPlaceholderInCode(t *testing.T) {
	tmpl, err := Parse("ok", "<{code}>")
	require.NoError(t, err)
	assert.Equal(t, "<s := \"{code}\">", tmpl.Build(`s := "{code}"`))
}

func TestResolve_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pirate.txt")
	require.NoError(t, os.WriteFile(path, []byte("Arr, comment this:\n{code}"), 0o644))

	tmpl, err := Resolve("meme", path)
	require.NoError(t, err)
	assert.Equal(t, path, tmpl.Name())
	assert.Equal(t, "Arr, comment this:\nx++", tmpl.Build("x++"))

	_, err = Resolve("meme", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "pirate.yaml")
	doc := "name: pirate\ntemplate: |\n  Arr, comment this:\n  {code}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tmpl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pirate", tmpl.Name())
	assert.Equal(t, "Arr, comment this:\nx++\n", tmpl.Build("x++"))

	unnamed := filepath.Join(dir, "unnamed.yml")
	require.NoError(t, os.WriteFile(unnamed, []byte("template: \"{code}\"\n"), 0o644))
	tmpl, err = LoadFile(unnamed)
	require.NoError(t, err)
	assert.Equal(t, unnamed, tmpl.Name())

	noPlaceholder := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(noPlaceholder, []byte("name: bad\ntemplate: hello\n"), 0o644))
	_, err = LoadFile(noPlaceholder)
	assert.ErrorIs(t, err, ErrInvalidPlaceholder)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("template: [unterminated\n"), 0o644))
	_, err = LoadFile(broken)
	assert.Error(t, err)
}
