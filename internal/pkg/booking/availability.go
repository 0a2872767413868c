package booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/ManuelReschke/LocalBiz/app/models"
)

// DefaultTimes is offered when a business has no active slot on a weekday.
var DefaultTimes = []string{
	"09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00",
}

// ParseClock parses HH:MM into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes after midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SlotTimes expands time slots into bookable start times. Each slot yields
// its start, stepping by its duration while start+duration fits before the end.
// The result is sorted and free of duplicates.
func SlotTimes(slots []models.TimeSlot) []string {
	seen := make(map[int]struct{})
	for _, slot := range slots {
		if slot.Duration <= 0 {
			continue
		}
		start, err := ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(slot.EndTime)
		if err != nil {
			continue
		}
		for t := start; t+slot.Duration <= end; t += slot.Duration {
			seen[t] = struct{}{}
		}
	}

	minutes := make([]int, 0, len(seen))
	for m := range seen {
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	out := make([]string, len(minutes))
	for i, m := range minutes {
		out[i] = FormatClock(m)
	}
	return out
}
