package post

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/blogsync/internal/config"
	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

// maxSlugLength keeps page names well below common filesystem limits.
const maxSlugLength = 120

// Slug derives the filename stem for a post using the given strategy.
func Slug(strategy config.SlugStrategy, title string, createdAt time.Time) (string, error) {
	switch strategy {
	case config.SlugByDate:
		return DateSlug(createdAt), nil
	case config.SlugByTitle:
		return TitleSlug(title)
	default:
		return "", ferrors.ConfigError("unknown slug strategy").WithContext("strategy", string(strategy)).Build()
	}
}

// DateSlug returns post-YYYY-MM-DD for t's calendar day in t's location.
func DateSlug(t time.Time) string {
	return "post-" + t.Format("2006-01-02")
}

// TitleSlug lowercases title, turns whitespace runs into single hyphens and drops
// everything outside [a-z0-9-]. Accents are stripped first so "Café" keeps its "e".
// A title with nothing left fails with an InvalidSlug error.
func TitleSlug(title string) (string, error) {
	folded, _, err := transform.String(accentFolder(), title)
	if err != nil {
		folded = title
	}

	joined := strings.Join(strings.Fields(strings.ToLower(folded)), "-")

	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return "", ferrors.InvalidSlugError("title has no characters usable in a file name").
			WithContext("title", title).Build()
	}
	return slug, nil
}

// accentFolder decomposes characters and drops combining marks.
func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
