package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: Hello\n---\nBody text\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "title: Hello\n", string(fm))
	require.Equal(t, "Body text\n", string(body))
}

func TestSplit_CRLFAndEmptyHeader(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\ntitle: Hello\r\n---\r\nBody\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "title: Hello\n", string(fm))
	require.Equal(t, "Body\n", string(body))

	fm, body, had, err = Split([]byte("---\n---\nOnly body"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, "Only body", string(body))
}

func TestSplit_HeaderWithoutBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "title: x\n", string(fm))
	require.Empty(t, body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, _, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestDecode(t *testing.T) {
	var meta struct {
		Title  string    `yaml:"title"`
		Date   time.Time `yaml:"date"`
		Pinned bool      `yaml:"pinned"`
	}
	require.NoError(t, Decode([]byte("title: Hi\ndate: 2024-05-01T10:00:00Z\npinned: true\n"), &meta))
	require.Equal(t, "Hi", meta.Title)
	require.True(t, meta.Pinned)
	require.Equal(t, 2024, meta.Date.Year())

	require.NoError(t, Decode(nil, &meta))
	require.Error(t, Decode([]byte("title: [unterminated"), &meta))
}
