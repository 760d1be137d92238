package config

import "git.home.luguber.info/inful/blogsync/internal/foundation/normalization"

// SlugStrategy selects how a post's filename stem is derived.
type SlugStrategy string

const (
	// SlugByDate yields post-YYYY-MM-DD; one post per calendar day.
	SlugByDate SlugStrategy = "date"
	// SlugByTitle lowercases the title and keeps only [a-z0-9-].
	SlugByTitle SlugStrategy = "title"
)

var slugStrategyNormalizer = normalization.NewNormalizer("slug strategy", map[string]SlugStrategy{
	"date":  SlugByDate,
	"title": SlugByTitle,
}, "")

// ParseSlugStrategy maps raw onto a SlugStrategy. Blank input yields "".
func ParseSlugStrategy(raw string) (SlugStrategy, error) {
	return slugStrategyNormalizer.NormalizeWithError(raw)
}
