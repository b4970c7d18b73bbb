package metrics

// Status is the attendance bucket of a single day.
type Status string

const (
	StatusEarly  Status = "early"
	StatusOnTime Status = "on_time"
	StatusDelay  Status = "delay"
	StatusLate   Status = "late"
	StatusAbsent Status = "absent"
)

// Thresholds against which check-in clocks are classified. All limits are inclusive.
var (
	EarlyLimit  = Clock{Hour: 9, Minute: 0}
	OnTimeLimit = Clock{Hour: 9, Minute: 15}
	DelayLimit  = Clock{Hour: 9, Minute: 25}
)

// Statuses lists every bucket in classification order.
func Statuses() []Status {
	return []Status{StatusEarly, StatusOnTime, StatusDelay, StatusLate, StatusAbsent}
}

// Color returns the chart color token of the bucket.
func (s Status) Color() string {
	switch s {
	case StatusEarly:
		return "blue"
	case StatusOnTime:
		return "green"
	case StatusDelay:
		return "amber"
	case StatusLate:
		return "red"
	default:
		return "gray"
	}
}

// Label returns a human readable description of the bucket.
func (s Status) Label() string {
	switch s {
	case StatusEarly:
		return "Arrived early"
	case StatusOnTime:
		return "On time"
	case StatusDelay:
		return "Small delay"
	case StatusLate:
		return "Late"
	default:
		return "Absent"
	}
}

// ClassifyClock places a parsed check-in clock into its bucket.
func ClassifyClock(c Clock) Status {
	seconds := c.Seconds()
	switch {
	case seconds <= EarlyLimit.Seconds():
		return StatusEarly
	case seconds <= OnTimeLimit.Seconds():
		return StatusOnTime
	case seconds <= DelayLimit.Seconds():
		return StatusDelay
	default:
		return StatusLate
	}
}

// Classify buckets a raw check-in time. Empty or malformed times are absent.
func Classify(checkin string) Status {
	c, ok := ParseClock(checkin)
	if !ok {
		return StatusAbsent
	}
	return ClassifyClock(c)
}

// IsPunctual reports whether the check-in happened at or before OnTimeLimit.
func IsPunctual(checkin string) bool {
	c, ok := ParseClock(checkin)
	return ok && c.Seconds() <= OnTimeLimit.Seconds()
}

// IsLate reports whether the check-in happened strictly after OnTimeLimit.
// An absent or malformed time is never late.
func IsLate(checkin string) bool {
	c, ok := ParseClock(checkin)
	return ok && c.Seconds() > OnTimeLimit.Seconds()
}

// Percent returns round(100*part/total) rounding halves up, or 0 when total is not positive.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
