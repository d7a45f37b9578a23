package agenda

import (
	"sort"
	"strings"
	"time"
)

// Day selector values. 0..6 select a weekday (Sunday = 0) from today onward;
// DayLastWeek selects the trailing 7-day window through end of today; any
// other value applies no date filtering.
const (
	DayLastWeek = -1
	DayAny      = -2
)

type Filter struct {
	Search string
	Status Status // empty matches every status
	Day    int
}

// Apply projects list through the filter and orders the result ascending by
// composed date-time. It never mutates list; ties keep their input order.
// Records whose date or time does not parse are dropped so the projection
// stays total over whatever the remote API returns.
func Apply(list []Appointment, f Filter, now time.Time) []Appointment {
	loc := now.Location()
	search := strings.ToLower(strings.TrimSpace(f.Search))

	type keyed struct {
		appt  Appointment
		start time.Time
	}
	matched := make([]keyed, 0, len(list))
	for _, a := range list {
		if search != "" && !matchesSearch(a, search) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		start, ok := a.StartTime(loc)
		if !ok {
			continue
		}
		if !matchesDay(start, f.Day, now) {
			continue
		}
		matched = append(matched, keyed{appt: a, start: start})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].start.Before(matched[j].start)
	})

	out := make([]Appointment, len(matched))
	for i, k := range matched {
		out[i] = k.appt
	}
	return out
}

func matchesSearch(a Appointment, search string) bool {
	return strings.Contains(strings.ToLower(a.Nome), search) ||
		strings.Contains(strings.ToLower(a.Email), search)
}

func matchesDay(start time.Time, day int, now time.Time) bool {
	switch {
	case day >= 0 && day <= 6:
		// Future (or today's) occurrences of the weekday only.
		if int(start.Weekday()) != day {
			return false
		}
		return !start.Before(startOfDay(now))
	case day == DayLastWeek:
		// Closed window: [start of day now-7d, end of today].
		from := startOfDay(now.AddDate(0, 0, -7))
		to := endOfDay(now)
		return !start.Before(from) && !start.After(to)
	default:
		// Out-of-range selectors intentionally apply no date filter.
		return true
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
