package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapsHalfOpen(t *testing.T) {
	cases := []struct {
		name                       string
		startA, endA, startB, endB string
		want                       bool
	}{
		{"contained", "09:00", "10:00", "09:15", "09:45", true},
		{"partial", "09:00", "10:00", "09:30", "10:30", true},
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"adjacent after", "09:00", "10:00", "10:00", "11:00", false},
		{"adjacent before", "10:00", "11:00", "09:00", "10:00", false},
		{"disjoint", "08:00", "09:00", "13:00", "14:00", false},
		{"with seconds", "09:00:00", "10:00:00", "09:59:59", "11:00:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClockOverlaps(tc.startA, tc.endA, tc.startB, tc.endB))
		})
	}
}

func TestClockSeconds(t *testing.T) {
	assert.Equal(t, 0, ClockSeconds(""))
	assert.Equal(t, 0, ClockSeconds("garbage"))
	assert.Equal(t, 9*3600, ClockSeconds("09:00"))
	assert.Equal(t, 9*3600+30*60, ClockSeconds("09:30"))
	assert.Equal(t, 9*3600+30*60+15, ClockSeconds("09:30:15"))
	assert.Equal(t, 7*3600, ClockSeconds("07"))
}

func TestParseWeekdayTotal(t *testing.T) {
	names := map[string]Weekday{
		"sun": 0, "Sunday": 0, "MON": 1, "monday": 1, "Tue": 2, "tuesday": 2,
		"wed": 3, "WEDNESDAY": 3, "thu": 4, "Thursday": 4, "fri": 5, "friday": 5,
		"sat": 6, "Saturday": 6, "0": 0, "3": 3, "6": 6, " mon ": 1,
	}
	for input, want := range names {
		idx, ok := ParseWeekday(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, idx, "input %q", input)
	}

	for _, garbage := range []string{"", "junk", "7", "-1", "mo", "weds day", "wednes", "satur"} {
		_, ok := ParseWeekday(garbage)
		assert.False(t, ok, "input %q", garbage)
	}
}

func TestParseWeekdaySetDropsUnknown(t *testing.T) {
	set := ParseWeekdaySet([]string{"Mon", "monday", "1", "bogus", "Fri"})
	assert.Len(t, set, 2)
	assert.Contains(t, set, Weekday(1))
	assert.Contains(t, set, Weekday(5))

	assert.Empty(t, ParseWeekdaySet([]string{"nope", "never"}))
}

func TestWeekdayLabel(t *testing.T) {
	assert.Equal(t, "Sunday", Weekday(0).Label())
	assert.Equal(t, "Saturday", Weekday(6).Label())
	assert.Equal(t, "", Weekday(7).Label())
	assert.Equal(t, "", Weekday(-1).Label())
}

func TestExpandWeekly(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) // a Monday
	end := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	days := map[Weekday]struct{}{1: {}, 3: {}}
	occurrences := ExpandWeekly(start, end, days)

	// September 2025: Mondays 1,8,15,22,29 and Wednesdays 3,10,17,24.
	require.Len(t, occurrences, 9)
	assert.Equal(t, start, occurrences[0].Date)
	assert.Equal(t, Weekday(1), occurrences[0].Weekday)
	assert.Equal(t, time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), occurrences[1].Date)
	assert.Equal(t, Weekday(3), occurrences[1].Weekday)
	assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), occurrences[8].Date)

	for i := 1; i < len(occurrences); i++ {
		assert.True(t, occurrences[i].Date.After(occurrences[i-1].Date))
	}
}

func TestExpandWeeklyInclusiveEndpoints(t *testing.T) {
	monday := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	occurrences := ExpandWeekly(monday, monday, map[Weekday]struct{}{1: {}})
	require.Len(t, occurrences, 1)
	assert.Equal(t, monday, occurrences[0].Date)
}

func TestExpandWeeklyEmptyResults(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, ExpandWeekly(start, end, nil))
	assert.Empty(t, ExpandWeekly(start, end, map[Weekday]struct{}{}))
	// Inverted range walks nothing.
	assert.Empty(t, ExpandWeekly(end, start, map[Weekday]struct{}{1: {}}))
}

func TestMidnightStripsClock(t *testing.T) {
	ts := time.Date(2025, 9, 14, 23, 59, 58, 123, time.Local)
	got := Midnight(ts)
	assert.Equal(t, time.Date(2025, 9, 14, 0, 0, 0, 0, time.Local), got)
}
