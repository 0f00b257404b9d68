package engine

import (
	"time"

	"github.com/sells-group/fieldcalc/internal/model"
)

// FilterByScope keeps the records whose dateField value falls inside the
// scope's window relative to now. The "all" scope (and any unrecognized
// scope) is the identity. When a window is active, records with an absent
// or unparseable date are excluded. The boundary is computed once so every
// record sees a consistent cutoff.
func FilterByScope(records []model.Record, scope model.TimeScope, dateField string, now time.Time) []model.Record {
	boundary, ok := scopeBoundary(scope, now)
	if !ok {
		return records
	}

	filtered := make([]model.Record, 0, len(records))
	for _, rec := range records {
		t, ok := parseTime(rec.Get(dateField), now.Location())
		if !ok {
			continue
		}
		if !t.Before(boundary) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// scopeBoundary computes the inclusive lower bound for a scope. The second
// return is false when no filtering applies.
func scopeBoundary(scope model.TimeScope, now time.Time) (time.Time, bool) {
	loc := now.Location()
	switch scope {
	case model.ScopeToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), true

	case model.ScopeWeek:
		// Monday is day 1.
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		offset := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset), true

	case model.ScopeMonth, model.ScopeMTD:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), true

	case model.ScopeQuarter:
		quarterStart := time.Month((int(now.Month())-1)/3*3 + 1)
		return time.Date(now.Year(), quarterStart, 1, 0, 0, 0, 0, loc), true

	case model.ScopeYear, model.ScopeYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc), true

	case model.ScopeRolling7:
		return now.Add(-7 * 24 * time.Hour), true

	case model.ScopeRolling30:
		return now.Add(-30 * 24 * time.Hour), true

	default:
		return time.Time{}, false
	}
}
