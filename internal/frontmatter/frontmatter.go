// Package frontmatter splits markdown drafts into their YAML header and body.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter reports a draft that opens a YAML header but never
// closes it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

var delimiter = []byte("---\n")

// Split separates `---` delimited YAML frontmatter from the markdown body.
// CRLF line endings are normalised to LF. When the draft has no header, had is
// false and body is the whole input.
func Split(content []byte) (front []byte, body []byte, had bool, err error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	if !bytes.HasPrefix(content, delimiter) {
		return nil, content, false, nil
	}
	rest := content[len(delimiter):]
	if bytes.HasPrefix(rest, delimiter) {
		return []byte{}, rest[len(delimiter):], true, nil
	}

	idx := bytes.Index(rest, []byte("\n---\n"))
	if idx < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("---")], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+1], rest[idx+len("\n---\n"):], true, nil
}

// Decode unmarshals raw frontmatter into out. Empty input leaves out unchanged.
func Decode(front []byte, out any) error {
	if len(bytes.TrimSpace(front)) == 0 {
		return nil
	}
	return yaml.Unmarshal(front, out)
}
