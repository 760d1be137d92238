package event

import "time"

// Source records where a draft came from.
type Source string

const (
	SourceDispatch Source = "dispatch"
	SourceIssue    Source = "issue"
	SourcePayload  Source = "payload"
	SourceFlags    Source = "flags"
	SourceFile     Source = "file"
	SourceDefault  Source = "default"
)

// Draft is a requested post before it has a slug or rendered HTML.
type Draft struct {
	Title     string
	Body      string
	CreatedAt time.Time // zero means "now" once defaults are applied
	Pinned    bool
	Source    Source
}

// Empty reports whether the draft carries neither title nor body.
func (d Draft) Empty() bool {
	return d.Title == "" && d.Body == ""
}
