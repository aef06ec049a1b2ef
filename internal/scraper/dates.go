package scraper

import (
	"strings"
	"time"
)

// dateFormats is tried in order; first successful parse wins.
var dateFormats = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
}

// resolveDate parses a free-text date snippet into a UTC timestamp. It is
// total: for any input, including empty or garbage, it returns a valid time.
// The second return value reports whether the snippet actually parsed; on
// failure the current time is returned and ordering for that entry degrades.
func resolveDate(snippet string) (time.Time, bool) {
	trimmed := strings.TrimSpace(snippet)
	if trimmed != "" {
		for _, format := range dateFormats {
			if t, err := time.Parse(format, trimmed); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Now().UTC(), false
}
