package timeutil

import (
	"strconv"
	"strings"
	"time"
)

// Weekday is a normalized weekday index, 0=Sunday through 6=Saturday.
type Weekday int

// Labels for weekday indices, used when occurrences are denormalized.
var weekdayLabels = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var weekdayNames = map[string]Weekday{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

// Label returns the full name of the weekday, or "" when out of range.
func (w Weekday) Label() string {
	if w < 0 || w > 6 {
		return ""
	}
	return weekdayLabels[w]
}

// Valid reports whether the weekday is a real index.
func (w Weekday) Valid() bool {
	return w >= 0 && w <= 6
}

// ParseWeekday normalizes a day expressed as a name ("Monday"), an
// abbreviation ("mon"), or a numeric index ("1") into a weekday index.
// Unrecognized input yields (0, false), never an error.
func ParseWeekday(value string) (Weekday, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(key); err == nil {
		if n >= 0 && n <= 6 {
			return Weekday(n), true
		}
		return 0, false
	}
	if idx, ok := weekdayNames[key]; ok {
		return idx, true
	}
	return 0, false
}

// ParseWeekdaySet normalizes a list of mixed day representations into a
// deduplicated index set. Unrecognized entries are dropped silently so a
// fully malformed payload comes back as an empty set for the caller to flag.
func ParseWeekdaySet(values []string) map[Weekday]struct{} {
	set := make(map[Weekday]struct{}, len(values))
	for _, v := range values {
		if idx, ok := ParseWeekday(v); ok {
			set[idx] = struct{}{}
		}
	}
	return set
}

// ClockSeconds converts a wall-clock string ("HH:MM" or "HH:MM:SS") to
// seconds since midnight. Missing or malformed components count as zero.
func ClockSeconds(value string) int {
	if value == "" {
		return 0
	}
	parts := strings.Split(value, ":")
	total := 0
	for i, unit := range [3]int{3600, 60, 1} {
		if i >= len(parts) {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			continue
		}
		total += n * unit
	}
	return total
}

// Overlaps reports whether two half-open intervals [startA, endA) and
// [startB, endB) intersect. Touching endpoints do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// ClockOverlaps applies Overlaps to wall-clock strings.
func ClockOverlaps(startA, endA, startB, endB string) bool {
	return Overlaps(ClockSeconds(startA), ClockSeconds(endA), ClockSeconds(startB), ClockSeconds(endB))
}

// Midnight strips the time-of-day so date-range walks are immune to
// timezone-induced off-by-one shifts.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateOccurrence pairs a concrete calendar date with its weekday label.
type DateOccurrence struct {
	Date    time.Time
	Weekday Weekday
}

// ExpandWeekly walks the inclusive [start, end] range day by day and returns
// every date whose weekday is in the set, in chronological order. An empty
// set or inverted range yields an empty slice, not an error; the caller is
// expected to surface the zero count.
func ExpandWeekly(start, end time.Time, days map[Weekday]struct{}) []DateOccurrence {
	var out []DateOccurrence
	if len(days) == 0 {
		return out
	}
	cur := Midnight(start)
	stop := Midnight(end)
	for !cur.After(stop) {
		idx := Weekday(cur.Weekday())
		if _, ok := days[idx]; ok {
			out = append(out, DateOccurrence{Date: cur, Weekday: idx})
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return out
}
