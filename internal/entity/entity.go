// Package entity defines the records held by the entity store and read by the
// metrics engine. The types carry no behaviour beyond small accessors so every
// layer can share them without conversion.
package entity

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout used for check-in dates and goal months.
const DateLayout = "2006-01-02"

// Role distinguishes administrators from regular employees.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Employee is a roster entry. Email doubles as the login key.
type Employee struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

// IsAdmin reports whether the employee holds the admin role.
func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// CheckIn is the attendance record of one employee on one calendar date.
//
// CheckinTime and CheckoutTime hold the wall clock as entered, either
// "15:04" or "3:04 PM"; an empty string means the time is absent.
// Punctual is a snapshot taken when the check-in was written and is never
// recomputed; the metrics engine classifies from CheckinTime instead.
type CheckIn struct {
	EmployeeID   string    `json:"employeeId"`
	Date         string    `json:"date"`
	CheckinTime  string    `json:"checkinTime,omitempty"`
	CheckoutTime string    `json:"checkoutTime,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	Punctual     bool      `json:"punctual"`
	RecordedAt   time.Time `json:"recordedAt,omitempty"`
}

// Key returns the composite identity of the record.
func (c CheckIn) Key() CheckInKey {
	return CheckInKey{EmployeeID: c.EmployeeID, Date: c.Date}
}

// HasCheckin reports whether a check-in time was recorded.
func (c CheckIn) HasCheckin() bool {
	return strings.TrimSpace(c.CheckinTime) != ""
}

// HasCheckout reports whether a check-out time was recorded.
func (c CheckIn) HasCheckout() bool {
	return strings.TrimSpace(c.CheckoutTime) != ""
}

// CheckInKey identifies a check-in: at most one record exists per employee and date.
type CheckInKey struct {
	EmployeeID string
	Date       string
}

// Reward is an item employees can redeem with attendance points.
type Reward struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PointsRequired int    `json:"pointsRequired"`
	Active         bool   `json:"active"`
}

// Goal is a monthly objective assigned to an employee. Progress is a
// percentage that is not clamped here.
type Goal struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employeeId"`
	Month       string `json:"month"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
}

// Credential stores the hashed secret of an employee, keyed by employee id.
type Credential struct {
	EmployeeID string
	SecretHash string
}

// Redemption records points spent on a reward.
type Redemption struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	RewardID   string    `json:"rewardId"`
	Points     int       `json:"points"`
	RedeemedAt time.Time `json:"redeemedAt"`
}

// Snapshot is a read-only copy of the store collections handed to the metrics engine.
type Snapshot struct {
	Employees   []Employee
	CheckIns    []CheckIn
	Rewards     []Reward
	Goals       []Goal
	Redemptions []Redemption
}

// CheckInsFor returns the check-ins belonging to employeeID, in snapshot order.
func (s Snapshot) CheckInsFor(employeeID string) []CheckIn {
	out := make([]CheckIn, 0)
	for _, c := range s.CheckIns {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	return out
}

// Collection names used for the one-time seed bookkeeping.
const (
	CollectionEmployees   = "employees"
	CollectionCheckIns    = "checkins"
	CollectionRewards     = "rewards"
	CollectionGoals       = "goals"
	CollectionCredentials = "credentials"
)

// Collections lists the seeded collections in seeding order.
func Collections() []string {
	return []string{
		CollectionEmployees,
		CollectionCheckIns,
		CollectionRewards,
		CollectionGoals,
		CollectionCredentials,
	}
}
