package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/sereno-rh/internal/application"
	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/metrics"
)

const defaultHistoryLimit = 30

type loginPayload struct {
	Employee  entity.Employee `json:"employee"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Home      string          `json:"home"`
}

func (a *App) login(ctx context.Context, args []string) (any, error) {
	fs := newFlagSet(ViewLogin, "")
	email := fs.String("email", "", "employee email")
	secret := fs.String("secret", "", "employee secret")
	secretStdin := fs.Bool("secret-stdin", false, "read the secret from the first line of stdin")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if *secretStdin {
		line, err := readLine(a.stdin)
		if err != nil {
			return nil, usageErrorf("login: read secret: %v", err)
		}
		*secret = line
	}
	if err := requireFlag(fs, "email", *email); err != nil {
		return nil, err
	}

	logger := viewLogger(ctx, a.logger, ViewLogin, "", "email", strings.ToLower(strings.TrimSpace(*email)))
	result, err := a.services.Auth.Authenticate(ctx, application.AuthenticateParams{Email: *email, Secret: *secret})
	if err != nil {
		logger.WarnContext(ctx, "login rejected", "error_kind", application.ErrorKind(err))
		return nil, err
	}
	if err := a.sessions.Save(StoredSession{
		Token:      result.Session.Token,
		EmployeeID: result.Employee.ID,
		ExpiresAt:  result.Session.ExpiresAt,
	}); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "login succeeded", "employee_id", result.Employee.ID)

	home := ViewEmployeeDashboard
	if result.Employee.IsAdmin() {
		home = ViewAdminDashboard
	}
	return loginPayload{Employee: result.Employee, ExpiresAt: result.Session.ExpiresAt, Home: home.String()}, nil
}

func (a *App) logout(ctx context.Context) (any, error) {
	if err := a.sessions.Clear(); err != nil {
		return nil, err
	}
	viewLogger(ctx, a.logger, ViewLogout, "").InfoContext(ctx, "session cleared")
	return map[string]bool{"loggedOut": true}, nil
}

func (a *App) employeeDashboard(ctx context.Context, principal application.Principal, args []string) (any, error) {
	fs := newFlagSet(ViewEmployeeDashboard, "")
	employeeID := fs.String("employee", "", "employee id (administrators only)")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return a.services.Dashboards.EmployeeDashboard(ctx, principal, *employeeID)
}

type togglePayload struct {
	Action application.CheckAction `json:"action"`
	Record entity.CheckIn          `json:"record"`
}

type todayPayload struct {
	Today *entity.CheckIn `json:"today"`
}

type historyPayload struct {
	Entries []application.AttendanceEntry `json:"entries"`
}

func (a *App) attendance(ctx context.Context, principal application.Principal, args []string) (any, error) {
	action, rest := splitAction(args, "today")
	switch action {
	case "today":
		if err := parseFlags(newFlagSet(ViewAttendance, action), rest); err != nil {
			return nil, err
		}
		today, err := a.services.Attendance.Today(ctx, principal)
		if err != nil {
			return nil, err
		}
		return todayPayload{Today: today}, nil
	case "toggle":
		if err := parseFlags(newFlagSet(ViewAttendance, action), rest); err != nil {
			return nil, err
		}
		result, err := a.services.Attendance.ToggleCheck(ctx, principal)
		if err != nil {
			return nil, err
		}
		return togglePayload{Action: result.Action, Record: result.Record}, nil
	case "history":
		fs := newFlagSet(ViewAttendance, action)
		limit := fs.Int("limit", defaultHistoryLimit, "number of records, newest first")
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		entries, err := a.services.Attendance.History(ctx, principal, principal.EmployeeID, *limit)
		if err != nil {
			return nil, err
		}
		return historyPayload{Entries: entries}, nil
	default:
		return nil, usageErrorf("attendance: unknown action %q, expected today, toggle or history", action)
	}
}

func (a *App) profile(ctx context.Context, principal application.Principal, args []string) (any, error) {
	action, rest := splitAction(args, "show")
	switch action {
	case "show":
		if err := parseFlags(newFlagSet(ViewProfile, action), rest); err != nil {
			return nil, err
		}
		return a.services.Employees.GetEmployee(ctx, principal, principal.EmployeeID)
	case "update":
		fs := newFlagSet(ViewProfile, action)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email address")
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		return a.services.Employees.UpdateProfile(ctx, application.UpdateProfileParams{
			Principal: principal,
			Name:      *name,
			Email:     *email,
		})
	default:
		return nil, usageErrorf("profile: unknown action %q, expected show or update", action)
	}
}

type goalsPayload struct {
	Goals []entity.Goal `json:"goals"`
}

type monthlyGoalPayload struct {
	Goal *entity.Goal `json:"goal"`
}

func (a *App) goals(ctx context.Context, principal application.Principal, args []string) (any, error) {
	action, rest := splitAction(args, "list")
	if err := parseFlags(newFlagSet(ViewGoals, action), rest); err != nil {
		return nil, err
	}
	switch action {
	case "list":
		goals, err := a.services.Goals.ListGoals(ctx, application.Principal{EmployeeID: principal.EmployeeID, Role: entity.RoleEmployee})
		if err != nil {
			return nil, err
		}
		return goalsPayload{Goals: goals}, nil
	case "monthly":
		goal, err := a.services.Goals.MonthlyGoal(ctx, principal, principal.EmployeeID)
		if err != nil {
			return nil, err
		}
		return monthlyGoalPayload{Goal: goal}, nil
	default:
		return nil, usageErrorf("goals: unknown action %q, expected list or monthly", action)
	}
}

func (a *App) rewards(ctx context.Context, principal application.Principal, args []string) (any, error) {
	action, rest := splitAction(args, "list")
	switch action {
	case "list":
		if err := parseFlags(newFlagSet(ViewRewards, action), rest); err != nil {
			return nil, err
		}
		// The employee view hides inactive rewards even for administrators.
		return a.services.Rewards.ListRewards(ctx, application.Principal{EmployeeID: principal.EmployeeID, Role: entity.RoleEmployee})
	case "redeem":
		fs := newFlagSet(ViewRewards, action)
		id := fs.String("id", "", "reward id")
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		if err := requireFlag(fs, "id", *id); err != nil {
			return nil, err
		}
		return a.services.Rewards.Redeem(ctx, application.RedeemParams{Principal: principal, RewardID: *id})
	default:
		return nil, usageErrorf("rewards: unknown action %q, expected list or redeem", action)
	}
}

type reportsPayload struct {
	WeeklyPunctuality  int                           `json:"weeklyPunctuality"`
	MonthlyPunctuality int                           `json:"monthlyPunctuality"`
	Streak             int                           `json:"streak"`
	PunctualDays       int                           `json:"punctualDays"`
	StatusShares       map[metrics.Status]int        `json:"statusShares"`
	History            []application.AttendanceEntry `json:"history"`
}

func (a *App) reports(ctx context.Context, principal application.Principal, args []string) (any, error) {
	fs := newFlagSet(ViewReports, "")
	limit := fs.Int("limit", defaultHistoryLimit, "number of records, newest first")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	dash, err := a.services.Dashboards.EmployeeDashboard(ctx, principal, principal.EmployeeID)
	if err != nil {
		return nil, err
	}
	history, err := a.services.Attendance.History(ctx, principal, principal.EmployeeID, *limit)
	if err != nil {
		return nil, err
	}
	return reportsPayload{
		WeeklyPunctuality:  dash.WeeklyPunctuality,
		MonthlyPunctuality: dash.MonthlyPunctual,
		Streak:             dash.Streak,
		PunctualDays:       dash.PunctualDays,
		StatusShares:       dash.StatusShares,
		History:            history,
	}, nil
}

func readLine(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("no input")
	}
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no input")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}
