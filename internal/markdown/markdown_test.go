package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertBasic(t *testing.T) {
	c := New(Options{})

	out, err := c.Convert([]byte("# Title\n\nSome *emphasis* here."))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
	assert.Contains(t, html, "<p>Some <em>emphasis</em> here.</p>")
}

func TestConvertRawHTMLPassesThroughUnlessSafeMode(t *testing.T) {
	src := []byte("before\n\n<div class=\"note\">kept</div>\n")

	out, err := New(Options{}).Convert(src)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<div class="note">kept</div>`)

	out, err = New(Options{SafeMode: true}).Convert(src)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `<div class="note">`)
	assert.Contains(t, string(out), "raw HTML omitted")
}

func TestConvertExtensions(t *testing.T) {
	src := []byte("- [x] done\n- [ ] todo\n\n~~gone~~\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")

	plain, err := New(Options{}).Convert(src)
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "<table>")

	gfm, err := New(Options{Extensions: []string{"GFM", "tasklist", "unknown"}}).Convert(src)
	require.NoError(t, err)
	html := string(gfm)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<del>gone</del>")
	assert.Contains(t, html, `type="checkbox"`)
}

func TestConvertHardWraps(t *testing.T) {
	out, err := New(Options{HardWraps: true}).Convert([]byte("line one\nline two"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "<br>") || strings.Contains(string(out), "<br />"))
}

func TestCollectExtensionsDeduplicates(t *testing.T) {
	assert.Len(t, collectExtensions([]string{"gfm", " GFM ", "footnote", "nope"}), 2)
	assert.Empty(t, collectExtensions(nil))
}
