package event

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsync/internal/post"
)

// payload accepts the dispatch, issue and flat shapes in one decode.
type payload struct {
	Inputs *struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Body    string `json:"body"`
		Pinned  any    `json:"pinned"`
	} `json:"inputs"`
	Issue *struct {
		Title     string `json:"title"`
		Body      string `json:"body"`
		CreatedAt string `json:"created_at"`
	} `json:"issue"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	Pinned    bool   `json:"pinned"`
}

// Parse decodes a JSON trigger payload. Zone-less timestamps are read in loc.
// A present but unparsable created_at fails with InvalidInput.
func Parse(data []byte, loc *time.Location) (Draft, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Draft{}, ferrors.WrapError(err, ferrors.CategoryInvalidInput, "decode event payload").Fatal().Build()
	}

	switch {
	case p.Issue != nil:
		d := Draft{Title: strings.TrimSpace(p.Issue.Title), Body: p.Issue.Body, Source: SourceIssue}
		return withCreatedAt(d, p.Issue.CreatedAt, loc)
	case p.Inputs != nil:
		body := p.Inputs.Content
		if body == "" {
			body = p.Inputs.Body
		}
		return Draft{
			Title:  strings.TrimSpace(p.Inputs.Title),
			Body:   body,
			Pinned: truthy(p.Inputs.Pinned),
			Source: SourceDispatch,
		}, nil
	default:
		body := p.Body
		if body == "" {
			body = p.Content
		}
		d := Draft{Title: strings.TrimSpace(p.Title), Body: body, Pinned: p.Pinned, Source: SourcePayload}
		return withCreatedAt(d, p.CreatedAt, loc)
	}
}

// Load reads and parses a payload file.
func Load(path string, loc *time.Location) (Draft, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Draft{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read event payload").
			WithContext("path", path).Fatal().Build()
	}
	d, err := Parse(data, loc)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return Draft{}, ce.WithContext("path", path)
		}
		return Draft{}, err
	}
	return d, nil
}

func withCreatedAt(d Draft, raw string, loc *time.Location) (Draft, error) {
	if strings.TrimSpace(raw) == "" {
		return d, nil
	}
	t, err := post.ParseCreatedAt(raw, loc)
	if err != nil {
		return Draft{}, err
	}
	d.CreatedAt = t
	return d, nil
}

// truthy interprets workflow_dispatch inputs, which arrive as booleans or as
// the strings "true"/"false".
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "1", "on":
			return true
		}
	}
	return false
}
