package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/sereno-rh/internal/application"
	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/logging"
)

// AuthService authenticates employees and validates stored sessions.
type AuthService interface {
	Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error)
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// EmployeeService manages the roster.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, params application.CreateEmployeeParams) (entity.Employee, error)
	UpdateEmployee(ctx context.Context, params application.UpdateEmployeeParams) (entity.Employee, error)
	UpdateProfile(ctx context.Context, params application.UpdateProfileParams) (entity.Employee, error)
	SetActive(ctx context.Context, params application.SetActiveParams) (entity.Employee, error)
	DeleteEmployee(ctx context.Context, principal application.Principal, employeeID string) error
	ListEmployees(ctx context.Context, principal application.Principal) ([]entity.Employee, error)
	GetEmployee(ctx context.Context, principal application.Principal, employeeID string) (entity.Employee, error)
}

// AttendanceService records and searches check-ins.
type AttendanceService interface {
	ToggleCheck(ctx context.Context, principal application.Principal) (application.ToggleCheckResult, error)
	Today(ctx context.Context, principal application.Principal) (*entity.CheckIn, error)
	History(ctx context.Context, principal application.Principal, employeeID string, limit int) ([]application.AttendanceEntry, error)
	Search(ctx context.Context, params application.SearchCheckInsParams) ([]application.AttendanceEntry, error)
	ExportRows(ctx context.Context, params application.SearchCheckInsParams) ([]application.ExportRow, error)
}

// RewardService manages the reward catalogue and redemptions.
type RewardService interface {
	CreateReward(ctx context.Context, params application.CreateRewardParams) (entity.Reward, error)
	UpdateReward(ctx context.Context, params application.UpdateRewardParams) (entity.Reward, error)
	ToggleReward(ctx context.Context, principal application.Principal, rewardID string) (entity.Reward, error)
	DeleteReward(ctx context.Context, principal application.Principal, rewardID string) error
	ListRewards(ctx context.Context, principal application.Principal) (application.RewardCatalog, error)
	Redeem(ctx context.Context, params application.RedeemParams) (application.RedeemResult, error)
}

// GoalService manages monthly goals.
type GoalService interface {
	CreateGoal(ctx context.Context, params application.CreateGoalParams) (entity.Goal, error)
	UpdateGoal(ctx context.Context, params application.UpdateGoalParams) (entity.Goal, error)
	DeleteGoal(ctx context.Context, principal application.Principal, goalID string) error
	ListGoals(ctx context.Context, principal application.Principal) ([]entity.Goal, error)
	MonthlyGoal(ctx context.Context, principal application.Principal, employeeID string) (*entity.Goal, error)
}

// DashboardService computes the dashboards.
type DashboardService interface {
	EmployeeDashboard(ctx context.Context, principal application.Principal, employeeID string) (application.EmployeeDashboard, error)
	AdminDashboard(ctx context.Context, principal application.Principal) (application.AdminDashboard, error)
}

// Services groups the application services used by the views.
type Services struct {
	Auth       AuthService
	Employees  EmployeeService
	Attendance AttendanceService
	Rewards    RewardService
	Goals      GoalService
	Dashboards DashboardService
}

// Options configures an App.
type Options struct {
	Services Services
	Sessions *SessionFile
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	// ExportDir is where export writes files given without a directory.
	ExportDir string
}

// App dispatches command line invocations to the views.
type App struct {
	services  Services
	sessions  *SessionFile
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	logger    *slog.Logger
	exportDir string
}

// New wires an App.
func New(opts Options) *App {
	return &App{
		services:  opts.Services,
		sessions:  opts.Sessions,
		stdin:     opts.Stdin,
		stdout:    opts.Stdout,
		stderr:    opts.Stderr,
		logger:    defaultLogger(opts.Logger),
		exportDir: opts.ExportDir,
	}
}

// Run executes args (without the program name) and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	global := flag.NewFlagSet("serenorh", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	compact := global.Bool("compact", false, "write compact JSON")

	base := newResponder(a.stdout, a.stderr, false, a.logger)
	if err := global.Parse(args); err != nil {
		return base.handleError(ctx, usageErrorf("%v", err))
	}
	resp := newResponder(a.stdout, a.stderr, *compact, a.logger)

	rest := global.Args()
	if len(rest) == 0 {
		return resp.handleError(ctx, usageErrorf("missing view, expected one of: %s", viewList()))
	}
	view, err := ParseView(rest[0])
	if err != nil {
		return resp.handleError(ctx, err)
	}

	logger := a.logger.With("invocation_id", uuid.NewString(), "view", view.String())
	ctx = logging.ContextWithLogger(ctx, logger)
	start := time.Now()
	logger.DebugContext(ctx, "command started")

	var principal application.Principal
	if view.RequiresSession() {
		principal, err = a.authenticate(ctx)
		if err != nil {
			return resp.handleError(ctx, err)
		}
		if view.RequiresAdmin() && !principal.IsAdmin() {
			return resp.handleError(ctx, application.ErrUnauthorized)
		}
	}

	payload, err := a.dispatch(ctx, view, principal, rest[1:])
	if err != nil {
		return resp.handleError(ctx, err)
	}
	logger.DebugContext(ctx, "command completed", "duration", time.Since(start))
	return resp.writeJSON(ctx, payload)
}

// authenticate resolves the stored session. Sessions rejected by the service
// are forgotten so the next invocation asks for a login.
func (a *App) authenticate(ctx context.Context) (application.Principal, error) {
	stored, err := a.sessions.Load()
	if err != nil {
		return application.Principal{}, err
	}
	principal, err := a.services.Auth.ValidateSession(ctx, stored.Token)
	if err != nil {
		if errors.Is(err, application.ErrSessionExpired) ||
			errors.Is(err, application.ErrAccountDisabled) ||
			errors.Is(err, application.ErrUnauthorized) {
			if cerr := a.sessions.Clear(); cerr != nil {
				defaultLogger(logging.FromContext(ctx)).WarnContext(ctx, "failed to clear rejected session", "error", cerr)
			}
		}
		return application.Principal{}, err
	}
	return principal, nil
}

func (a *App) dispatch(ctx context.Context, view View, principal application.Principal, args []string) (any, error) {
	switch view {
	case ViewLogin:
		return a.login(ctx, args)
	case ViewLogout:
		return a.logout(ctx)
	case ViewEmployeeDashboard:
		return a.employeeDashboard(ctx, principal, args)
	case ViewAttendance:
		return a.attendance(ctx, principal, args)
	case ViewProfile:
		return a.profile(ctx, principal, args)
	case ViewGoals:
		return a.goals(ctx, principal, args)
	case ViewRewards:
		return a.rewards(ctx, principal, args)
	case ViewReports:
		return a.reports(ctx, principal, args)
	case ViewAdminDashboard:
		return a.adminDashboard(ctx, principal)
	case ViewAdminEmployees:
		return a.adminEmployees(ctx, principal, args)
	case ViewAdminAttendance:
		return a.adminAttendance(ctx, principal, args)
	case ViewAdminRewards:
		return a.adminRewards(ctx, principal, args)
	case ViewAdminGoals:
		return a.adminGoals(ctx, principal, args)
	case ViewExport:
		return a.export(ctx, principal, args)
	default:
		return nil, fmt.Errorf("cli: unhandled view %s", view)
	}
}

func viewList() string {
	names := make([]string, 0, len(viewNames))
	for _, entry := range viewNames {
		names = append(names, entry.name)
	}
	return strings.Join(names, ", ")
}

// splitAction separates an optional leading action word from the flags.
func splitAction(args []string, fallback string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fallback, args
	}
	return strings.ToLower(args[0]), args[1:]
}

func newFlagSet(view View, action string) *flag.FlagSet {
	name := view.String()
	if action != "" {
		name += " " + action
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageErrorf("%s: %v", fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return usageErrorf("%s: unexpected arguments %v", fs.Name(), fs.Args())
	}
	return nil
}

func requireFlag(fs *flag.FlagSet, name, value string) error {
	if strings.TrimSpace(value) == "" {
		return usageErrorf("%s: -%s is required", fs.Name(), name)
	}
	return nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
