package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Normalized is the canonical split of an upstream datetime: calendar date,
// time of day and the full UTC instant.
type Normalized struct {
	Date     string
	Time     string
	DateTime string
	At       time.Time
}

// acceptedLayouts covers every datetime shape the provider has been seen to
// emit. Order matters: the most specific layouts come first.
var acceptedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse interprets a raw upstream datetime string, converts it to UTC and
// splits it into date, time and RFC3339 components.
func Parse(raw string) (Normalized, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Normalized{}, fmt.Errorf("empty datetime")
	}

	var parsed time.Time
	var lastErr error
	for _, layout := range acceptedLayouts {
		at, err := time.Parse(layout, trimmed)
		if err != nil {
			lastErr = err
			continue
		}
		parsed = at.UTC()
		return Normalized{
			Date:     parsed.Format("2006-01-02"),
			Time:     parsed.Format("15:04:05"),
			DateTime: parsed.Format(time.RFC3339),
			At:       parsed,
		}, nil
	}

	return Normalized{}, fmt.Errorf("parse datetime %q: %w", raw, lastErr)
}
