package cli

import (
	"context"
	"flag"

	"github.com/example/sereno-rh/internal/application"
	"github.com/example/sereno-rh/internal/entity"
)

type employeesPayload struct {
	Employees []entity.Employee `json:"employees"`
}

type deletedPayload struct {
	Deleted string `json:"deleted"`
}

type rewardsPayload struct {
	Rewards []application.RewardView `json:"rewards"`
}

func (a *App) adminDashboard(ctx context.Context, principal application.Principal) (any, error) {
	return a.services.Dashboards.AdminDashboard(ctx, principal)
}

func (a *App) adminEmployees(ctx context.Context, principal application.Principal, args []string) (any, error) {
	action, rest := splitAction(args, "list")
	fs := newFlagSet(ViewAdminEmployees, action)
	switch action {
	case "list":
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		employees, err := a.services.Employees.ListEmployees(ctx, principal)
		if err != nil {
			return nil, err
		}
		return employeesPayload{Employees: employees}, nil
	case "create":
		input := employeeInputFlags(fs)
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		return a.services.Employees.CreateEmployee(ctx, application.CreateEmployeeParams{Principal: principal, Input: *input})
	case "update":
		id := fs.String("id", "", "employee id")
		input := employeeInputFlags(fs)
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		if err := requireFlag(fs, "id", *id); err != nil {
			return nil, err
		}
		return a.services.Employees.UpdateEmployee(ctx, application.UpdateEmployeeParams{Principal: principal, EmployeeID: *id, Input: *input})
	case "toggle":
		id := fs.String("id", "", "employee id")
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		if err := requireFlag(fs, "id", *id); err != nil {
			return nil, err
		}
		return a.services.Employees.SetActive(ctx, application.SetActiveParams{Principal: principal, EmployeeID: *id})
	case "delete":
		id := fs.String("id", "", "employee id")
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		if err := requireFlag(fs, "id", *id); err != nil {
			return nil, err
		}
		if err := a.services.Employees.DeleteEmployee(ctx, principal, *id); err != nil {
			return nil, err
		}
		viewLogger(ctx, a.logger, ViewAdminEmployees, action, "employee_id", *id).InfoContext(ctx, "employee deleted")
		return deletedPayload{Deleted: *id}, nil
	default:
		return nil, usageErrorf("admin-employees: unknown action %q, expected list, create, update, toggle or delete", action)
	}
}

func employeeInputFlags(fs *flag.FlagSet) *application.EmployeeInput {
	input := &application.EmployeeInput{}
	fs.StringVar(&input.Name, "name", "", "full name")
	fs.StringVar(&input.Email, "email", "", "email address")
	fs.StringVar(&input.Secret, "secret", "", "login secret")
	return input
}

func (a *App) adminAttendance(ctx context.Context, principal application.Principal, args []string) (any, error) {
	action, rest := splitAction(args, "search")
	if action != "search" {
		return nil, usageErrorf("admin-attendance: unknown action %q, expected search", action)
	}
	fs := newFlagSet(ViewAdminAttendance, action)
	params := searchFlags(fs)
	if err := parseFlags(fs, rest); err != nil {
		return nil, err
	}
	search := params.build(principal)
	entries, err := a.services.Attendance.Search(ctx, search)
	if err != nil {
		return nil, err
	}
	return historyPayload{Entries: entries}, nil
}

type searchFlagValues struct {
	text      *string
	employees *string
	from      *string
	to        *string
}

func searchFlags(fs *flag.FlagSet) searchFlagValues {
	return searchFlagValues{
		text:      fs.String("q", "", "text matched against employee name or email"),
		employees: fs.String("employee", "", "comma separated employee ids"),
		from:      fs.String("from", "", "first date, YYYY-MM-DD"),
		to:        fs.String("to", "", "last date, YYYY-MM-DD"),
	}
}

func (v searchFlagValues) build(principal application.Principal) application.SearchCheckInsParams {
	return application.SearchCheckInsParams{
		Principal:   principal,
		Text:        *v.text,
		EmployeeIDs: splitList(*v.employees),
		From:        *v.from,
		To:          *v.to,
	}
}

func (a *App) adminRewards(ctx context.Context, principal application.Principal, args []string) (any, error) {
	action, rest := splitAction(args, "list")
	fs := newFlagSet(ViewAdminRewards, action)
	switch action {
	case "list":
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		catalog, err := a.services.Rewards.ListRewards(ctx, principal)
		if err != nil {
			return nil, err
		}
		return rewardsPayload{Rewards: catalog.Rewards}, nil
	case "create":
		input, inactive := rewardInputFlags(fs)
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		if *inactive {
			active := false
			input.Active = &active
		}
		return a.services.Rewards.CreateReward(ctx, application.CreateRewardParams{Principal: principal, Input: *input})
	case "update":
		id := fs.String("id", "", "reward id")
		input, inactive := rewardInputFlags(fs)
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		if err := requireFlag(fs, "id", *id); err != nil {
			return nil, err
		}
		if *inactive {
			active := false
			input.Active = &active
		}
		return a.services.Rewards.UpdateReward(ctx, application.UpdateRewardParams{Principal: principal, RewardID: *id, Input: *input})
	case "toggle", "delete":
		id := fs.String("id", "", "reward id")
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		if err := requireFlag(fs, "id", *id); err != nil {
			return nil, err
		}
		if action == "toggle" {
			return a.services.Rewards.ToggleReward(ctx, principal, *id)
		}
		if err := a.services.Rewards.DeleteReward(ctx, principal, *id); err != nil {
			return nil, err
		}
		return deletedPayload{Deleted: *id}, nil
	default:
		return nil, usageErrorf("admin-rewards: unknown action %q, expected list, create, update, toggle or delete", action)
	}
}

func rewardInputFlags(fs *flag.FlagSet) (*application.RewardInput, *bool) {
	input := &application.RewardInput{}
	fs.StringVar(&input.Name, "name", "", "reward name")
	fs.StringVar(&input.Description, "description", "", "reward description")
	fs.IntVar(&input.PointsRequired, "points", 0, "points required")
	inactive := fs.Bool("inactive", false, "hide the reward from employees")
	return input, inactive
}

func (a *App) adminGoals(ctx context.Context, principal application.Principal, args []string) (any, error) {
	action, rest := splitAction(args, "list")
	fs := newFlagSet(ViewAdminGoals, action)
	switch action {
	case "list":
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		goals, err := a.services.Goals.ListGoals(ctx, principal)
		if err != nil {
			return nil, err
		}
		return goalsPayload{Goals: goals}, nil
	case "create":
		input := goalInputFlags(fs)
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		return a.services.Goals.CreateGoal(ctx, application.CreateGoalParams{Principal: principal, Input: *input})
	case "update":
		id := fs.String("id", "", "goal id")
		input := goalInputFlags(fs)
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		if err := requireFlag(fs, "id", *id); err != nil {
			return nil, err
		}
		return a.services.Goals.UpdateGoal(ctx, application.UpdateGoalParams{Principal: principal, GoalID: *id, Input: *input})
	case "delete":
		id := fs.String("id", "", "goal id")
		if err := parseFlags(fs, rest); err != nil {
			return nil, err
		}
		if err := requireFlag(fs, "id", *id); err != nil {
			return nil, err
		}
		if err := a.services.Goals.DeleteGoal(ctx, principal, *id); err != nil {
			return nil, err
		}
		return deletedPayload{Deleted: *id}, nil
	default:
		return nil, usageErrorf("admin-goals: unknown action %q, expected list, create, update or delete", action)
	}
}

func goalInputFlags(fs *flag.FlagSet) *application.GoalInput {
	input := &application.GoalInput{}
	fs.StringVar(&input.EmployeeID, "employee", "", "employee id")
	fs.StringVar(&input.Month, "month", "", "month, YYYY-MM")
	fs.StringVar(&input.Description, "description", "", "goal description")
	fs.IntVar(&input.Progress, "progress", 0, "progress percentage")
	return input
}
