package fixture

import (
	"strings"
	"time"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusDelayed   = "delayed"
	StatusCancelled = "cancelled"
)

// Fixture is the canonical stored representation of one sporting event.
type Fixture struct {
	ID            string
	MatchID       string
	SportType     string
	Data          string
	Status        string
	DateTime      *time.Time
	Processed     bool
	DateProcessed *time.Time
	DateCreated   time.Time
	DateUpdated   time.Time
	DateDeleted   *time.Time
}

// statusByLongPhrase maps the provider's long-form status phrases onto the
// closed status vocabulary. Phrases missing from the table map to pending.
var statusByLongPhrase = map[string]string{
	"Match Finished":      StatusCompleted,
	"Match Postponed":     StatusDelayed,
	"Match Cancelled":     StatusCancelled,
	"Match Suspended":     StatusDelayed,
	"Match Delayed":       StatusDelayed,
	"Not Started":         StatusPending,
	"Halftime":            StatusPending,
	"Second Half Started": StatusPending,
	"Extra Time":          StatusPending,
	"Break Time":          StatusPending,
	"Penalty In Progress": StatusPending,
	"Match Abandoned":     StatusCancelled,
	"Match Not Finished":  StatusDelayed,
}

// MapStatus translates an upstream long-form status phrase into one of the four
// canonical statuses. Unknown or empty phrases default to pending.
func MapStatus(long string) string {
	if status, ok := statusByLongPhrase[strings.TrimSpace(long)]; ok {
		return status
	}
	return StatusPending
}

func IsValidStatus(value string) bool {
	switch value {
	case StatusPending, StatusCompleted, StatusDelayed, StatusCancelled:
		return true
	default:
		return false
	}
}

// MatchID derives the stable dedup identifier from sport, team names and the
// fixture's ISO date. Segments are the first three runes of each name plus the
// calendar-date portion of the input, joined by dashes. Teams sharing a
// three-letter prefix on the same date will collide; that quirk is kept for
// compatibility with identifiers already in the store.
func MatchID(sport, homeTeam, awayTeam, isoDate string) string {
	datePart, _, _ := strings.Cut(isoDate, "T")
	return prefix(sport, 3) + "-" + datePart + "-" + prefix(homeTeam, 3) + "-" + prefix(awayTeam, 3)
}

func prefix(value string, n int) string {
	runes := []rune(value)
	if len(runes) <= n {
		return value
	}
	return string(runes[:n])
}
