// Package metrics derives punctuality and attendance figures from check-in
// records. All functions are pure: the only inputs are the records passed in
// and the injected clock.
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/example/sereno-rh/internal/entity"
)

const (
	// PointsPerCheckIn is awarded for every record carrying a check-in time.
	PointsPerCheckIn = 10
	// WorkdaysPerWeek is the denominator of the weekly attendance percentage.
	WorkdaysPerWeek = 5
	// WorkdaysPerMonth is the denominator of the monthly attendance percentage.
	WorkdaysPerMonth = 22
	// UnknownEmployee names check-ins whose employee is missing from the roster.
	UnknownEmployee = "Unknown"
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Engine computes metrics relative to "today" in a fixed location.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

// NewEngine builds an Engine. A nil now defaults to time.Now and a nil loc to time.Local.
func NewEngine(now func() time.Time, loc *time.Location) *Engine {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{now: now, loc: loc}
}

// Location returns the calendar location of the engine.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Today returns the current calendar date in the engine location. Calendar
// dates are carried as midnight UTC so day arithmetic never crosses a
// daylight saving gap.
func (e *Engine) Today() time.Time {
	n := e.now().In(e.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// TodayString returns the current calendar date formatted with entity.DateLayout.
func (e *Engine) TodayString() string {
	return e.Today().Format(entity.DateLayout)
}

// WeekStart returns the calendar date of the most recent Sunday, today included.
func (e *Engine) WeekStart() time.Time {
	today := e.Today()
	return addDays(today, -int(today.Weekday()))
}

func (e *Engine) parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func addDays(t time.Time, days int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+days, 0, 0, 0, 0, time.UTC)
}

// Punctuality returns the percentage of punctual check-ins among records
// dated within the last windowDays days that carry a check-in time.
func (e *Engine) Punctuality(records []entity.CheckIn, windowDays int) int {
	cutoff := addDays(e.Today(), -windowDays)
	total, punctual := 0, 0
	for _, r := range records {
		date, ok := e.parseDate(r.Date)
		if !ok || date.Before(cutoff) {
			continue
		}
		c, ok := ParseClock(r.CheckinTime)
		if !ok {
			continue
		}
		total++
		if c.Seconds() <= OnTimeLimit.Seconds() {
			punctual++
		}
	}
	return Percent(punctual, total)
}

// AttendanceStreak counts consecutive records, newest first, that carry a
// check-in time. Calendar gaps do not break the streak; late arrivals count.
func (e *Engine) AttendanceStreak(records []entity.CheckIn) int {
	type dated struct {
		date    time.Time
		present bool
	}
	ordered := make([]dated, 0, len(records))
	for _, r := range records {
		date, ok := e.parseDate(r.Date)
		if !ok {
			continue
		}
		_, present := ParseClock(r.CheckinTime)
		ordered = append(ordered, dated{date: date, present: present})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].date.After(ordered[j].date)
	})

	streak := 0
	for _, d := range ordered {
		if !d.present {
			break
		}
		streak++
	}
	return streak
}

// GlobalMetrics summarizes today's attendance across the roster.
type GlobalMetrics struct {
	TotalEmployees  int `json:"totalEmployees"`
	PresentCount    int `json:"presentCount"`
	LateCount       int `json:"lateCount"`
	PunctualCount   int `json:"punctualCount"`
	AbsenteeCount   int `json:"absenteeCount"`
	PunctualityRate int `json:"punctualityRate"`
}

// GlobalMetrics computes today's figures. Every record dated today counts as
// present; AbsenteeCount is not clamped and goes negative when records
// outnumber employees.
func (e *Engine) GlobalMetrics(records []entity.CheckIn, employees []entity.Employee) GlobalMetrics {
	today := e.Today()
	m := GlobalMetrics{TotalEmployees: len(employees)}
	for _, r := range records {
		date, ok := e.parseDate(r.Date)
		if !ok || !date.Equal(today) {
			continue
		}
		m.PresentCount++
		if IsLate(r.CheckinTime) {
			m.LateCount++
		}
	}
	m.PunctualCount = m.PresentCount - m.LateCount
	m.AbsenteeCount = m.TotalEmployees - m.PresentCount
	m.PunctualityRate = Percent(m.PunctualCount, m.PresentCount)
	return m
}

// DailyDetail is one check-in contributing to a DailyPunctuality entry.
type DailyDetail struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	CheckinTime  string `json:"checkinTime,omitempty"`
	CheckoutTime string `json:"checkoutTime,omitempty"`
	Punctual     bool   `json:"punctual"`
}

// DailyPunctuality is the punctuality of a single calendar date.
type DailyPunctuality struct {
	Date    string        `json:"date"`
	Percent int           `json:"percent"`
	Details []DailyDetail `json:"details"`
}

// DailyPunctuality returns one entry per date of the last windowDays days,
// oldest first and ending today. The denominator of each date is every
// record on that date, including records without a check-in.
func (e *Engine) DailyPunctuality(records []entity.CheckIn, windowDays int, employees []entity.Employee) []DailyPunctuality {
	if windowDays <= 0 {
		return []DailyPunctuality{}
	}

	names := make(map[string]string, len(employees))
	for _, emp := range employees {
		names[emp.ID] = emp.Name
	}

	byDate := make(map[string][]entity.CheckIn)
	for _, r := range records {
		date, ok := e.parseDate(r.Date)
		if !ok {
			continue
		}
		key := date.Format(entity.DateLayout)
		byDate[key] = append(byDate[key], r)
	}

	today := e.Today()
	out := make([]DailyPunctuality, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		date := addDays(today, -i).Format(entity.DateLayout)
		day := byDate[date]
		details := make([]DailyDetail, 0, len(day))
		punctual := 0
		for _, r := range day {
			ok := IsPunctual(r.CheckinTime)
			if ok {
				punctual++
			}
			name, found := names[r.EmployeeID]
			if !found {
				name = UnknownEmployee
			}
			details = append(details, DailyDetail{
				EmployeeID:   r.EmployeeID,
				EmployeeName: name,
				CheckinTime:  r.CheckinTime,
				CheckoutTime: r.CheckoutTime,
				Punctual:     ok,
			})
		}
		out = append(out, DailyPunctuality{
			Date:    date,
			Percent: Percent(punctual, len(day)),
			Details: details,
		})
	}
	return out
}

// WeeklyAttendance returns round(100*n/5) where n counts the employee's
// records dated on or after the most recent Sunday. It is not clamped.
func (e *Engine) WeeklyAttendance(records []entity.CheckIn, employeeID string) int {
	start := e.WeekStart()
	count := 0
	for _, r := range records {
		if r.EmployeeID != employeeID {
			continue
		}
		date, ok := e.parseDate(r.Date)
		if !ok || date.Before(start) {
			continue
		}
		count++
	}
	return Percent(count, WorkdaysPerWeek)
}

// MonthlyAttendance returns round(100*n/22) where n counts the employee's
// records dated in the current calendar month.
func (e *Engine) MonthlyAttendance(records []entity.CheckIn, employeeID string) int {
	today := e.Today()
	count := 0
	for _, r := range records {
		if r.EmployeeID != employeeID {
			continue
		}
		date, ok := e.parseDate(r.Date)
		if !ok || date.Year() != today.Year() || date.Month() != today.Month() {
			continue
		}
		count++
	}
	return Percent(count, WorkdaysPerMonth)
}

// DayStatus is one day of the current week for a single employee.
type DayStatus struct {
	Day          string `json:"day"`
	Date         string `json:"date"`
	Status       Status `json:"status"`
	Color        string `json:"color"`
	CheckinTime  string `json:"checkinTime,omitempty"`
	CheckoutTime string `json:"checkoutTime,omitempty"`
}

// WeeklyStatus returns exactly seven entries, Sunday through Saturday of the
// current week. Days without a record are absent.
func (e *Engine) WeeklyStatus(records []entity.CheckIn, employeeID string) []DayStatus {
	byDate := make(map[string]entity.CheckIn)
	for _, r := range records {
		if r.EmployeeID != employeeID {
			continue
		}
		date, ok := e.parseDate(r.Date)
		if !ok {
			continue
		}
		key := date.Format(entity.DateLayout)
		if _, seen := byDate[key]; !seen {
			byDate[key] = r
		}
	}

	start := e.WeekStart()
	out := make([]DayStatus, 0, len(weekdayLabels))
	for i, label := range weekdayLabels {
		date := addDays(start, i).Format(entity.DateLayout)
		entry := DayStatus{Day: label, Date: date, Status: StatusAbsent}
		if r, ok := byDate[date]; ok {
			entry.Status = Classify(r.CheckinTime)
			entry.CheckinTime = r.CheckinTime
			entry.CheckoutTime = r.CheckoutTime
		}
		entry.Color = entry.Status.Color()
		out = append(out, entry)
	}
	return out
}

// StatusShare returns the percentage of days that fall into status.
func StatusShare(days []DayStatus, status Status) int {
	count := 0
	for _, d := range days {
		if d.Status == status {
			count++
		}
	}
	return Percent(count, len(days))
}

// Points returns the attendance points earned by records.
func Points(records []entity.CheckIn) int {
	total := 0
	for _, r := range records {
		if _, ok := ParseClock(r.CheckinTime); ok {
			total += PointsPerCheckIn
		}
	}
	return total
}

// PunctualDays counts records whose stored punctual snapshot is set.
func PunctualDays(records []entity.CheckIn) int {
	count := 0
	for _, r := range records {
		if r.Punctual {
			count++
		}
	}
	return count
}
