package event

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/frontmatter"
)

type draftMeta struct {
	Title  string `yaml:"title"`
	Date   string `yaml:"date"`
	Pinned bool   `yaml:"pinned"`
}

// ParseMarkdown reads a draft from markdown with optional YAML frontmatter
// (title, date, pinned). Without a title field, a leading "# " heading is used.
func ParseMarkdown(content []byte, loc *time.Location) (Draft, error) {
	front, body, _, err := frontmatter.Split(content)
	if err != nil {
		return Draft{}, ferrors.WrapError(err, ferrors.CategoryInvalidInput, "split draft frontmatter").Fatal().Build()
	}

	var meta draftMeta
	if err := frontmatter.Decode(front, &meta); err != nil {
		return Draft{}, ferrors.WrapError(err, ferrors.CategoryInvalidInput, "decode draft frontmatter").Fatal().Build()
	}

	text := strings.TrimLeft(string(body), "\n")
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		if first, rest, _ := strings.Cut(text, "\n"); strings.HasPrefix(first, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(first, "# "))
			text = strings.TrimLeft(rest, "\n")
		}
	}

	return withCreatedAt(Draft{
		Title:  title,
		Body:   strings.TrimRight(text, "\n"),
		Pinned: meta.Pinned,
		Source: SourceFile,
	}, meta.Date, loc)
}

// LoadMarkdown reads a markdown draft from path.
func LoadMarkdown(path string, loc *time.Location) (Draft, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Draft{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read draft").
			WithContext("path", path).Fatal().Build()
	}
	return ParseMarkdown(data, loc)
}

// LoadAny picks the parser by extension: .json payloads, anything else is
// treated as a markdown draft.
func LoadAny(path string, loc *time.Location) (Draft, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return Load(path, loc)
	}
	return LoadMarkdown(path, loc)
}
