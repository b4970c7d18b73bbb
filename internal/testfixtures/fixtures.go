package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/sereno-rh/internal/application"
	"github.com/example/sereno-rh/internal/entity"
)

var (
	employeeCounter uint64
	rewardCounter   uint64
	goalCounter     uint64
)

// referenceTime is a Friday, so the Sunday-based week holds six elapsed days.
var referenceTime = time.Date(2024, time.October, 25, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns ReferenceTime shifted by offset days as an ISO date.
func ReferenceDate(offset int) string {
	return referenceTime.AddDate(0, 0, offset).Format(entity.DateLayout)
}

// --------------------------- Employee fixtures ---------------------------

// EmployeeOption configures the generated employee.
type EmployeeOption func(*entity.Employee)

// NewEmployee returns a deterministic active employee with optional overrides.
func NewEmployee(opts ...EmployeeOption) entity.Employee {
	idx := atomic.AddUint64(&employeeCounter, 1)
	id := fmt.Sprintf("emp-%03d", idx)
	employee := entity.Employee{
		ID:     id,
		Name:   fmt.Sprintf("Empleado %03d", idx),
		Email:  fmt.Sprintf("%s@serenorh.test", id),
		Role:   entity.RoleEmployee,
		Active: true,
	}
	for _, opt := range opts {
		opt(&employee)
	}
	return employee
}

// WithEmployeeID overrides the generated employee ID.
func WithEmployeeID(id string) EmployeeOption {
	return func(e *entity.Employee) {
		e.ID = id
	}
}

// WithEmployeeName overrides the generated name.
func WithEmployeeName(name string) EmployeeOption {
	return func(e *entity.Employee) {
		e.Name = name
	}
}

// WithEmployeeEmail overrides the generated email address.
func WithEmployeeEmail(email string) EmployeeOption {
	return func(e *entity.Employee) {
		e.Email = email
	}
}

// AsAdmin grants the administrator role.
func AsAdmin() EmployeeOption {
	return func(e *entity.Employee) {
		e.Role = entity.RoleAdmin
	}
}

// Inactive marks the employee as deactivated.
func Inactive() EmployeeOption {
	return func(e *entity.Employee) {
		e.Active = false
	}
}

// PrincipalOf returns the principal acting as employee.
func PrincipalOf(employee entity.Employee) application.Principal {
	return application.Principal{EmployeeID: employee.ID, Role: employee.Role}
}

// --------------------------- Check-in fixtures ---------------------------

// CheckInOption configures the generated check-in.
type CheckInOption func(*entity.CheckIn)

// NewCheckIn returns a punctual 08:55 record for employeeID on the reference date.
func NewCheckIn(employeeID string, opts ...CheckInOption) entity.CheckIn {
	checkIn := entity.CheckIn{
		EmployeeID:  employeeID,
		Date:        ReferenceDate(0),
		CheckinTime: "08:55",
		Punctual:    true,
		RecordedAt:  referenceTime,
	}
	for _, opt := range opts {
		opt(&checkIn)
	}
	return checkIn
}

// OnDate sets the calendar date of the record.
func OnDate(date string) CheckInOption {
	return func(c *entity.CheckIn) {
		c.Date = date
	}
}

// DaysAgo places the record offset days before the reference date.
func DaysAgo(offset int) CheckInOption {
	return func(c *entity.CheckIn) {
		c.Date = ReferenceDate(-offset)
	}
}

// CheckedInAt sets the arrival time and derives the punctual flag from it.
func CheckedInAt(clock string) CheckInOption {
	return func(c *entity.CheckIn) {
		c.CheckinTime = clock
		c.Punctual = isPunctualClock(clock)
	}
}

// CheckedOutAt sets the departure time and duration.
func CheckedOutAt(clock, duration string) CheckInOption {
	return func(c *entity.CheckIn) {
		c.CheckoutTime = clock
		c.Duration = duration
	}
}

// WithoutCheckin clears the arrival time.
func WithoutCheckin() CheckInOption {
	return func(c *entity.CheckIn) {
		c.CheckinTime = ""
		c.Punctual = false
	}
}

func isPunctualClock(clock string) bool {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return false
	}
	return t.Hour() < 9 || (t.Hour() == 9 && t.Minute() <= 15)
}

// ---------------------------- Reward fixtures ----------------------------

// RewardOption configures the generated reward.
type RewardOption func(*entity.Reward)

// NewReward returns a deterministic active reward.
func NewReward(opts ...RewardOption) entity.Reward {
	idx := atomic.AddUint64(&rewardCounter, 1)
	reward := entity.Reward{
		ID:             fmt.Sprintf("rew-%03d", idx),
		Name:           fmt.Sprintf("Recompensa %03d", idx),
		PointsRequired: int(idx) * 100,
		Active:         true,
	}
	for _, opt := range opts {
		opt(&reward)
	}
	return reward
}

// WithRewardID overrides the generated reward ID.
func WithRewardID(id string) RewardOption {
	return func(r *entity.Reward) {
		r.ID = id
	}
}

// WithRewardPoints sets the cost of the reward.
func WithRewardPoints(points int) RewardOption {
	return func(r *entity.Reward) {
		r.PointsRequired = points
	}
}

// InactiveReward hides the reward from the employee catalogue.
func InactiveReward() RewardOption {
	return func(r *entity.Reward) {
		r.Active = false
	}
}

// ----------------------------- Goal fixtures -----------------------------

// GoalOption configures the generated goal.
type GoalOption func(*entity.Goal)

// NewGoal returns a goal of employeeID for the reference month.
func NewGoal(employeeID string, opts ...GoalOption) entity.Goal {
	idx := atomic.AddUint64(&goalCounter, 1)
	goal := entity.Goal{
		ID:          fmt.Sprintf("goal-%03d", idx),
		EmployeeID:  employeeID,
		Month:       application.CurrentMonth(referenceTime),
		Description: fmt.Sprintf("Meta %03d", idx),
	}
	for _, opt := range opts {
		opt(&goal)
	}
	return goal
}

// WithGoalMonth sets the month the goal belongs to.
func WithGoalMonth(month string) GoalOption {
	return func(g *entity.Goal) {
		g.Month = month
	}
}

// WithGoalProgress sets the progress percentage.
func WithGoalProgress(progress int) GoalOption {
	return func(g *entity.Goal) {
		g.Progress = progress
	}
}
