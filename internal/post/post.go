package post

import "time"

// Post is a single blog entry as supplied by a trigger.
type Post struct {
	Title     string
	Body      string // markdown
	CreatedAt time.Time
	Pinned    bool
	Slug      string
}

// FileName returns the rendered page name for the post's slug.
func (p Post) FileName() string {
	return FileName(p.Slug)
}

// FileName appends the page suffix to slug.
func FileName(slug string) string {
	return slug + ".html"
}
