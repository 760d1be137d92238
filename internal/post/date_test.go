package post

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

func TestParseCreatedAt(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-05-01T10:20:30Z", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{"2024-05-01T10:20:30+02:00", time.Date(2024, 5, 1, 8, 20, 30, 0, time.UTC)},
		{"2024-05-01T10:20:30", time.Date(2024, 5, 1, 10, 20, 30, 0, shanghai)},
		{"2024-05-01 10:20:30", time.Date(2024, 5, 1, 10, 20, 30, 0, shanghai)},
		{" 2024-05-01 ", time.Date(2024, 5, 1, 0, 0, 0, 0, shanghai)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCreatedAt(tt.raw, shanghai)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseCreatedAtInvalid(t *testing.T) {
	for _, raw := range []string{"", "yesterday", "2024-13-45", "05/01/2024"} {
		_, err := ParseCreatedAt(raw, time.UTC)
		require.Error(t, err, "raw=%q", raw)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInvalidInput), "raw=%q", raw)
	}
}

func TestDisplayDate(t *testing.T) {
	ts := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01", DisplayDate(ts, "2006-01-02", time.UTC))
	assert.Equal(t, "2024-05-02", DisplayDate(ts, "2006-01-02", time.FixedZone("CST", 8*3600)))
	assert.Equal(t, "May 1, 2024", DisplayDate(ts, "January 2, 2006", nil))
}
