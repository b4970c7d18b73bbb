package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

// GoalService manages monthly goals.
type GoalService struct {
	goals     persistence.GoalRepository
	employees persistence.EmployeeRepository
	newID     IDGenerator
	now       func() time.Time
	loc       *time.Location
	logger    *slog.Logger
}

// NewGoalService wires dependencies for the goal service.
func NewGoalService(goals persistence.GoalRepository, employees persistence.EmployeeRepository, newID IDGenerator, now func() time.Time, loc *time.Location, logger *slog.Logger) *GoalService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &GoalService{
		goals:     goals,
		employees: employees,
		newID:     orDefaultID(newID, "goal"),
		now:       now,
		loc:       loc,
		logger:    defaultLogger(logger),
	}
}

func (s *GoalService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "GoalService", operation, attrs...)
}

// CreateGoal assigns a monthly goal to an employee.
func (s *GoalService) CreateGoal(ctx context.Context, params CreateGoalParams) (goal entity.Goal, err error) {
	if s == nil {
		return entity.Goal{}, fmt.Errorf("GoalService is nil")
	}
	logger := s.loggerWith(ctx, "CreateGoal", "principal_id", params.Principal.EmployeeID)
	defer func() { logOutcome(ctx, logger, err, "goal created", "goal_id", goal.ID) }()

	if !params.Principal.IsAdmin() {
		return entity.Goal{}, ErrUnauthorized
	}

	input, vErr := s.normalizeGoalInput(ctx, params.Input)
	if vErr.HasErrors() {
		return entity.Goal{}, vErr
	}

	goal = entity.Goal{
		ID:          s.newID(),
		EmployeeID:  input.EmployeeID,
		Month:       input.Month,
		Description: input.Description,
		Progress:    input.Progress,
	}
	if err = s.goals.CreateGoal(ctx, goal); err != nil {
		return entity.Goal{}, storeError(err)
	}
	return goal, nil
}

// UpdateGoal replaces every field of a goal.
func (s *GoalService) UpdateGoal(ctx context.Context, params UpdateGoalParams) (goal entity.Goal, err error) {
	if s == nil {
		return entity.Goal{}, fmt.Errorf("GoalService is nil")
	}
	logger := s.loggerWith(ctx, "UpdateGoal", "principal_id", params.Principal.EmployeeID, "goal_id", params.GoalID)
	defer func() { logOutcome(ctx, logger, err, "goal updated") }()

	if !params.Principal.IsAdmin() {
		return entity.Goal{}, ErrUnauthorized
	}

	goal, err = s.goals.GetGoal(ctx, params.GoalID)
	if err != nil {
		return entity.Goal{}, storeError(err)
	}

	input, vErr := s.normalizeGoalInput(ctx, params.Input)
	if vErr.HasErrors() {
		return entity.Goal{}, vErr
	}

	goal.EmployeeID = input.EmployeeID
	goal.Month = input.Month
	goal.Description = input.Description
	goal.Progress = input.Progress
	if err = s.goals.UpdateGoal(ctx, goal); err != nil {
		return entity.Goal{}, storeError(err)
	}
	return goal, nil
}

// DeleteGoal removes a goal.
func (s *GoalService) DeleteGoal(ctx context.Context, principal Principal, goalID string) (err error) {
	if s == nil {
		return fmt.Errorf("GoalService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteGoal", "principal_id", principal.EmployeeID, "goal_id", goalID)
	defer func() { logOutcome(ctx, logger, err, "goal deleted") }()

	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	return storeError(s.goals.DeleteGoal(ctx, goalID))
}

// ListGoals returns every goal to administrators and the own goals to employees, newest month first.
func (s *GoalService) ListGoals(ctx context.Context, principal Principal) ([]entity.Goal, error) {
	if s == nil {
		return nil, fmt.Errorf("GoalService is nil")
	}
	if principal.EmployeeID == "" {
		return nil, ErrUnauthorized
	}

	filter := persistence.GoalFilter{}
	if !principal.IsAdmin() {
		filter.EmployeeID = principal.EmployeeID
	}
	goals, err := s.goals.ListGoals(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return goals, nil
}

// MonthlyGoal returns the goal of employeeID for the current month, or nil.
func (s *GoalService) MonthlyGoal(ctx context.Context, principal Principal, employeeID string) (*entity.Goal, error) {
	if s == nil {
		return nil, fmt.Errorf("GoalService is nil")
	}
	if employeeID == "" {
		employeeID = principal.EmployeeID
	}
	if !principal.CanAccess(employeeID) {
		return nil, ErrUnauthorized
	}

	goals, err := s.goals.ListGoals(ctx, persistence.GoalFilter{
		EmployeeID: employeeID,
		Month:      CurrentMonth(s.now().In(s.loc)),
	})
	if err != nil {
		return nil, storeError(err)
	}
	if len(goals) == 0 {
		return nil, nil
	}
	goal := goals[0]
	return &goal, nil
}

// CurrentMonth returns the first day of the month of t as an ISO date.
func CurrentMonth(t time.Time) string {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(entity.DateLayout)
}

// NormalizeMonth accepts YYYY-MM or any ISO date and returns the first day of that month.
func NormalizeMonth(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01", entity.DateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return CurrentMonth(t), true
		}
	}
	return "", false
}

func (s *GoalService) normalizeGoalInput(ctx context.Context, input GoalInput) (GoalInput, *ValidationError) {
	vErr := &ValidationError{}

	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	input.Description = strings.TrimSpace(input.Description)

	if input.EmployeeID == "" {
		vErr.add("employee_id", "employee is required")
	} else if _, err := s.employees.GetEmployee(ctx, input.EmployeeID); err != nil {
		vErr.add("employee_id", "employee does not exist")
	}

	if month, ok := NormalizeMonth(input.Month); ok {
		input.Month = month
	} else {
		vErr.add("month", "month must be YYYY-MM or YYYY-MM-DD")
	}

	if input.Description == "" {
		vErr.add("description", "description is required")
	}

	return input, vErr
}
