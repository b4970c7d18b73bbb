package metrics

import (
	"fmt"
	"strconv"
	"strings"
)

// NoData is rendered when a duration cannot be computed.
const NoData = "—"

const minutesPerDay = 24 * 60

// Clock is a time of day in 24-hour form.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// Seconds returns the offset of the clock from midnight in seconds.
func (c Clock) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// Minutes returns the offset of the clock from midnight in whole minutes.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String formats the clock as HH:MM, or HH:MM:SS when seconds are set.
func (c Clock) String() string {
	if c.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

type meridiem int

const (
	meridiemNone meridiem = iota
	meridiemAM
	meridiemPM
)

// ParseClock normalizes "HH:MM[:SS]" and 12-hour values such as "8:55 AM",
// "08:55 p.m." or "8:55 a. m." into a 24-hour Clock. The time may only be
// followed by a meridiem marker; anything else, including fractional
// seconds, is malformed. It reports false for empty or malformed values;
// callers treat those as an absent time.
func ParseClock(value string) (Clock, bool) {
	clean := strings.ToUpper(strings.TrimSpace(value))
	end := strings.IndexFunc(clean, func(r rune) bool {
		return (r < '0' || r > '9') && r != ':'
	})
	if end < 0 {
		end = len(clean)
	}
	if end == 0 {
		return Clock{}, false
	}
	marker, ok := parseMeridiem(clean[end:])
	if !ok {
		return Clock{}, false
	}

	parts := strings.Split(clean[:end], ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, false
	}

	values := make([]int, 3)
	for i, part := range parts {
		if part == "" {
			return Clock{}, false
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Clock{}, false
		}
		values[i] = n
	}

	hour := values[0]
	switch marker {
	case meridiemPM:
		if hour < 12 {
			hour += 12
		}
	case meridiemAM:
		if hour == 12 {
			hour = 0
		}
	}

	c := Clock{Hour: hour, Minute: values[1], Second: values[2]}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 || c.Second < 0 || c.Second > 59 {
		return Clock{}, false
	}
	return c, true
}

// parseMeridiem reads the text after the time digits. Dots and spaces are
// ignored, so "p. m." reads as PM. Anything other than AM, PM or nothing is
// rejected.
func parseMeridiem(rest string) (meridiem, bool) {
	compact := strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' || r == '\u00a0' || r == '\u202f' {
			return -1
		}
		return r
	}, rest)
	switch compact {
	case "":
		return meridiemNone, true
	case "AM":
		return meridiemAM, true
	case "PM":
		return meridiemPM, true
	default:
		return meridiemNone, false
	}
}

// ElapsedMinutes returns the minutes between two clocks on the same day. A
// checkout earlier than the check-in is an overnight shift and wraps by a day.
func ElapsedMinutes(in, out Clock) int {
	diff := out.Minutes() - in.Minutes()
	if diff < 0 {
		diff += minutesPerDay
	}
	return diff
}

// FormatDuration renders the time worked between a check-in and a check-out
// as "{h}h {m}m". Missing or malformed endpoints yield NoData.
func FormatDuration(checkin, checkout string) string {
	in, ok := ParseClock(checkin)
	if !ok {
		return NoData
	}
	out, ok := ParseClock(checkout)
	if !ok {
		return NoData
	}
	diff := ElapsedMinutes(in, out)
	return fmt.Sprintf("%dh %dm", diff/60, diff%60)
}
