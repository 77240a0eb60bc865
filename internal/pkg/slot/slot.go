// Package slot holds the interval arithmetic behind the one invariant this
// system promises: at most one non-cancelled booking per room and slot.
package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60

	// The service day starts at 09:00 and can run past midnight. A start
	// hour in the early-morning band counts as the tail of the previous
	// service day, not a literal pre-dawn slot.
	serviceDayStart = 9 * 60
)

var ErrBadHour = errors.New("malformed hour, want HH:MM")

// Window is a closed-open interval [Start, End) in minutes on the service
// day's linear axis. Always obtained through Normalize.
type Window struct {
	Start int
	End   int
}

// ParseHour reads "HH:MM" into a minute offset from midnight.
func ParseHour(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, ErrBadHour
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrBadHour
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrBadHour
	}
	return h*60 + m, nil
}

// Normalize maps raw minute offsets onto the service-day axis: an end before
// its start crosses midnight, and a start in the 00:00-08:59 band belongs to
// the previous calendar day's service window.
func Normalize(startMin, endMin int) Window {
	if endMin < startMin {
		endMin += minutesPerDay
	}
	if startMin < serviceDayStart {
		startMin += minutesPerDay
		endMin += minutesPerDay
	}
	return Window{Start: startMin, End: endMin}
}

// ParseWindow combines ParseHour and Normalize for a pair of "HH:MM" values.
func ParseWindow(startHour, endHour string) (Window, error) {
	s, err := ParseHour(startHour)
	if err != nil {
		return Window{}, fmt.Errorf("start hour: %w", err)
	}
	e, err := ParseHour(endHour)
	if err != nil {
		return Window{}, fmt.Errorf("end hour: %w", err)
	}
	return Normalize(s, e), nil
}

// Overlaps reports whether two closed-open windows intersect:
// [a,b) and [c,d) overlap iff a < d && c < b.
func Overlaps(a, b Window) bool {
	return a.Start < b.End && b.Start < a.End
}

// ConflictsAny reports whether w overlaps any of the existing windows.
func ConflictsAny(w Window, existing []Window) bool {
	for _, e := range existing {
		if Overlaps(w, e) {
			return true
		}
	}
	return false
}

// DateRangeOverlaps applies the same closed-open rule to night-mode stays:
// [aIn, aOut) against [bIn, bOut) in whole days.
func DateRangeOverlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}
