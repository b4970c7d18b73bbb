package application

import (
	"time"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/metrics"
)

// Principal represents the authenticated employee invoking a service method.
type Principal struct {
	EmployeeID string
	Role       entity.Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == entity.RoleAdmin
}

// CanAccess reports whether the principal may read data owned by employeeID.
func (p Principal) CanAccess(employeeID string) bool {
	return p.IsAdmin() || (p.EmployeeID != "" && p.EmployeeID == employeeID)
}

// EmployeeInput captures caller provided roster fields. Secret is optional on update.
type EmployeeInput struct {
	Name   string
	Email  string
	Secret string
}

// CreateEmployeeParams wraps the data required to add an employee.
type CreateEmployeeParams struct {
	Principal Principal
	Input     EmployeeInput
}

// UpdateEmployeeParams wraps the data required to edit an employee.
type UpdateEmployeeParams struct {
	Principal  Principal
	EmployeeID string
	Input      EmployeeInput
}

// UpdateProfileParams wraps a self-service profile edit.
type UpdateProfileParams struct {
	Principal Principal
	Name      string
	Email     string
}

// SetActiveParams toggles or forces the active flag of an employee.
type SetActiveParams struct {
	Principal  Principal
	EmployeeID string
	// Active forces the flag when set; nil flips the current value.
	Active *bool
}

// CheckAction names the transition performed by ToggleCheck.
type CheckAction string

const (
	CheckActionIn  CheckAction = "checkin"
	CheckActionOut CheckAction = "checkout"
)

// ToggleCheckResult reports the record written by ToggleCheck.
type ToggleCheckResult struct {
	Action CheckAction
	Record entity.CheckIn
}

// SearchCheckInsParams filters the attendance log for administrators. Text
// and EmployeeIDs are combined with OR; when both are empty every record matches.
type SearchCheckInsParams struct {
	Principal   Principal
	Text        string
	EmployeeIDs []string
	From        string
	To          string
}

// ExportStatus summarizes a record in export rows.
type ExportStatus string

const (
	ExportStatusComplete        ExportStatus = "complete"
	ExportStatusPendingCheckout ExportStatus = "pending_checkout"
	ExportStatusAbsent          ExportStatus = "absent"
)

// ExportRow is one flattened attendance record ready for CSV or XLSX output.
type ExportRow struct {
	EmployeeID   string       `json:"employeeId"`
	Date         string       `json:"date"`
	CheckinTime  string       `json:"checkinTime"`
	CheckoutTime string       `json:"checkoutTime"`
	Duration     string       `json:"duration"`
	EmployeeName string       `json:"employeeName"`
	Status       ExportStatus `json:"status"`
}

// RewardInput captures caller provided reward fields.
type RewardInput struct {
	Name           string
	Description    string
	PointsRequired int
	Active         *bool
}

// CreateRewardParams wraps the data required to add a reward.
type CreateRewardParams struct {
	Principal Principal
	Input     RewardInput
}

// UpdateRewardParams wraps the data required to edit a reward.
type UpdateRewardParams struct {
	Principal Principal
	RewardID  string
	Input     RewardInput
}

// RewardView is a reward as seen by one employee.
type RewardView struct {
	entity.Reward
	Available     bool `json:"available"`
	PointsMissing int  `json:"pointsMissing"`
}

// RewardCatalog lists rewards together with the viewer's balance.
type RewardCatalog struct {
	Balance int          `json:"balance"`
	Rewards []RewardView `json:"rewards"`
}

// RedeemParams wraps a redemption request.
type RedeemParams struct {
	Principal Principal
	RewardID  string
}

// RedeemResult reports a completed redemption.
type RedeemResult struct {
	Redemption entity.Redemption `json:"redemption"`
	Balance    int               `json:"balance"`
}

// GoalInput captures caller provided goal fields. Month accepts YYYY-MM or YYYY-MM-DD.
type GoalInput struct {
	EmployeeID  string
	Month       string
	Description string
	Progress    int
}

// CreateGoalParams wraps the data required to add a goal.
type CreateGoalParams struct {
	Principal Principal
	Input     GoalInput
}

// UpdateGoalParams wraps the data required to edit a goal.
type UpdateGoalParams struct {
	Principal Principal
	GoalID    string
	Input     GoalInput
}

// AuthenticateParams captures the data required to log in.
type AuthenticateParams struct {
	Email  string
	Secret string
}

// Session is a signed session token issued at login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthenticateResult captures the outcome of a successful login.
type AuthenticateResult struct {
	Employee entity.Employee `json:"employee"`
	Session  Session         `json:"session"`
}

// AutoGoal is a metric tracked against a fixed target.
type AutoGoal struct {
	Name     string `json:"name"`
	Value    int    `json:"value"`
	Target   int    `json:"target"`
	Achieved bool   `json:"achieved"`
}

// EmployeeDashboard is the personal dashboard of one employee.
type EmployeeDashboard struct {
	Employee          entity.Employee            `json:"employee"`
	Today             *entity.CheckIn            `json:"today,omitempty"`
	WeeklyPunctuality int                        `json:"weeklyPunctuality"`
	MonthlyPunctual   int                        `json:"monthlyPunctuality"`
	Streak            int                        `json:"streak"`
	PunctualDays      int                        `json:"punctualDays"`
	PointsEarned      int                        `json:"pointsEarned"`
	PointsBalance     int                        `json:"pointsBalance"`
	WeeklyAttendance  int                        `json:"weeklyAttendance"`
	WeeklyStatus      []metrics.DayStatus        `json:"weeklyStatus"`
	StatusShares      map[metrics.Status]int     `json:"statusShares"`
	Daily             []metrics.DailyPunctuality `json:"daily"`
	MonthlyGoal       *entity.Goal               `json:"monthlyGoal,omitempty"`
	AutoGoals         []AutoGoal                 `json:"autoGoals"`
}

// PunctualityMatrixRow is the per-employee punctuality of one date.
type PunctualityMatrixRow struct {
	Date      string         `json:"date"`
	Employees map[string]int `json:"employees"`
}

// AdminDashboard summarizes the whole roster.
type AdminDashboard struct {
	Global          metrics.GlobalMetrics      `json:"global"`
	ActiveEmployees int                        `json:"activeEmployees"`
	Daily           []metrics.DailyPunctuality `json:"daily"`
	Matrix          []PunctualityMatrixRow     `json:"matrix"`
}
