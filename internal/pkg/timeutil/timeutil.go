package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Clock values are minutes since midnight on a naive calendar day.
// The wire format carries no timezone, so all comparisons happen on
// plain integers and never touch time.Location.

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * 60
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)

// ParseClock parses a naive "HH:MM" (seconds tolerated and ignored)
// into minutes since midnight.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid clock string %q", s)
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 24 || mm > 59 || (hh == 24 && mm != 0) {
		return 0, fmt.Errorf("clock string %q out of range", s)
	}
	return hh*MinutesPerHour + mm, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/MinutesPerHour, min%MinutesPerHour)
}

// ParseWindow parses an operating-hours string like "06:00-22:00".
// "~" and surrounding whitespace are accepted as separators.
func ParseWindow(s string) (open, close int, err error) {
	normalized := strings.NewReplacer("~", "-", "–", "-").Replace(s)
	parts := strings.SplitN(normalized, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid operating hours %q", s)
	}
	open, err = ParseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}
	close, err = ParseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if open >= close {
		return 0, 0, fmt.Errorf("operating hours %q: open must be before close", s)
	}
	return open, close, nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}
