package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// DayOf truncates t to midnight in its own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey returns the ISO date of t, used as a map key for calendar days.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// AtClock places a time-of-day offset on the calendar day of day.
func AtClock(day time.Time, clock time.Duration) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(clock)
}

// ClockOf returns the time-of-day of t as an offset from midnight.
func ClockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
}

// HM builds a time-of-day offset.
func HM(hour, minute int) time.Duration {
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
}

// WeekStart returns the Monday that opens the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	day := DayOf(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// MinutesBetween returns whole minutes from a to b, truncated toward zero.
func MinutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatClock renders t as HH:mm, or "" when t is nil.
func FormatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(ClockLayout)
}

// ParseClock parses "H:mm", "HH:mm" or "HH:mm:ss" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		if p == "" || len(p) > 2 {
			return 0, fmt.Errorf("invalid clock %q", s)
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid clock %q", s)
		}
		values[i] = v
	}

	if values[0] > 23 || values[1] > 59 || (len(values) == 3 && values[2] > 59) {
		return 0, fmt.Errorf("clock out of range %q", s)
	}

	clock := HM(values[0], values[1])
	if len(values) == 3 {
		clock += time.Duration(values[2]) * time.Second
	}
	return clock, nil
}

// ParseDateIn parses an ISO date as midnight in loc.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}
