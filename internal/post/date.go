package post

import (
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

// timestampLayouts are tried in order by ParseCreatedAt.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCreatedAt parses a payload timestamp. Zone-less values are read in loc.
// Unparsable input fails with an InvalidInput error rather than falling back to now.
func ParseCreatedAt(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ferrors.InvalidInputError("created_at is empty").Build()
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ferrors.InvalidInputError("created_at is not a recognised timestamp").
		WithContext("value", raw).Build()
}

// DisplayDate formats t in loc with the given Go layout.
func DisplayDate(t time.Time, layout string, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout)
}
