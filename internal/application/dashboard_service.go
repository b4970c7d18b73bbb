package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/metrics"
	"github.com/example/sereno-rh/internal/persistence"
)

const (
	// WeeklyPunctualityTarget is the automatic goal for seven-day punctuality.
	WeeklyPunctualityTarget = 90
	// MonthlyAttendanceTarget is the automatic goal for monthly attendance.
	MonthlyAttendanceTarget = 95

	shortWindowDays = 7
	longWindowDays  = 30
)

// Automatic goal names.
const (
	AutoGoalWeeklyPunctuality = "weekly_punctuality"
	AutoGoalMonthlyAttendance = "monthly_attendance"
)

// DashboardService reads one store snapshot per call and hands it to the metrics engine.
type DashboardService struct {
	store  persistence.SnapshotReader
	engine *metrics.Engine
	logger *slog.Logger
}

// NewDashboardService wires dependencies for the dashboard service.
func NewDashboardService(store persistence.SnapshotReader, engine *metrics.Engine, logger *slog.Logger) *DashboardService {
	if engine == nil {
		engine = metrics.NewEngine(nil, nil)
	}
	return &DashboardService{
		store:  store,
		engine: engine,
		logger: defaultLogger(logger),
	}
}

func (s *DashboardService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DashboardService", operation, attrs...)
}

// EmployeeDashboard builds the personal dashboard of employeeID.
func (s *DashboardService) EmployeeDashboard(ctx context.Context, principal Principal, employeeID string) (EmployeeDashboard, error) {
	if s == nil {
		return EmployeeDashboard{}, fmt.Errorf("DashboardService is nil")
	}
	if employeeID == "" {
		employeeID = principal.EmployeeID
	}
	if !principal.CanAccess(employeeID) {
		return EmployeeDashboard{}, ErrUnauthorized
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		s.loggerWith(ctx, "EmployeeDashboard").ErrorContext(ctx, "failed to read snapshot", "error", err)
		return EmployeeDashboard{}, storeError(err)
	}

	employee, ok := findEmployee(snapshot.Employees, employeeID)
	if !ok {
		return EmployeeDashboard{}, ErrNotFound
	}

	records := snapshot.CheckInsFor(employeeID)
	today := s.engine.TodayString()
	currentMonth := CurrentMonth(s.engine.Today())

	dash := EmployeeDashboard{
		Employee:          employee,
		WeeklyPunctuality: s.engine.Punctuality(records, shortWindowDays),
		MonthlyPunctual:   s.engine.Punctuality(records, longWindowDays),
		Streak:            s.engine.AttendanceStreak(records),
		PunctualDays:      metrics.PunctualDays(records),
		PointsEarned:      metrics.Points(records),
		WeeklyAttendance:  s.engine.WeeklyAttendance(records, employeeID),
		WeeklyStatus:      s.engine.WeeklyStatus(records, employeeID),
		Daily:             s.engine.DailyPunctuality(records, longWindowDays, snapshot.Employees),
		StatusShares:      make(map[metrics.Status]int, len(metrics.Statuses())),
	}

	for i := range records {
		if records[i].Date == today {
			record := records[i]
			dash.Today = &record
			break
		}
	}

	redemptions := make([]entity.Redemption, 0)
	for _, r := range snapshot.Redemptions {
		if r.EmployeeID == employeeID {
			redemptions = append(redemptions, r)
		}
	}
	dash.PointsBalance = pointsBalance(records, redemptions)

	for _, status := range metrics.Statuses() {
		dash.StatusShares[status] = metrics.StatusShare(dash.WeeklyStatus, status)
	}

	for i := range snapshot.Goals {
		if snapshot.Goals[i].EmployeeID == employeeID && snapshot.Goals[i].Month == currentMonth {
			goal := snapshot.Goals[i]
			dash.MonthlyGoal = &goal
			break
		}
	}

	monthly := s.engine.MonthlyAttendance(records, employeeID)
	dash.AutoGoals = []AutoGoal{
		autoGoal(AutoGoalWeeklyPunctuality, dash.WeeklyPunctuality, WeeklyPunctualityTarget),
		autoGoal(AutoGoalMonthlyAttendance, monthly, MonthlyAttendanceTarget),
	}
	return dash, nil
}

// AdminDashboard builds the roster-wide dashboard.
func (s *DashboardService) AdminDashboard(ctx context.Context, principal Principal) (AdminDashboard, error) {
	if s == nil {
		return AdminDashboard{}, fmt.Errorf("DashboardService is nil")
	}
	if !principal.IsAdmin() {
		return AdminDashboard{}, ErrUnauthorized
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		s.loggerWith(ctx, "AdminDashboard").ErrorContext(ctx, "failed to read snapshot", "error", err)
		return AdminDashboard{}, storeError(err)
	}

	dash := AdminDashboard{
		Global: s.engine.GlobalMetrics(snapshot.CheckIns, snapshot.Employees),
		Daily:  s.engine.DailyPunctuality(snapshot.CheckIns, longWindowDays, snapshot.Employees),
		Matrix: PunctualityMatrix(snapshot.CheckIns, snapshot.Employees),
	}
	for _, emp := range snapshot.Employees {
		if emp.Active {
			dash.ActiveEmployees++
		}
	}
	return dash, nil
}

// PunctualityMatrix returns one row per distinct record date, oldest first.
// Each row maps every employee id to the punctuality of that employee on
// that date, or 0 when the employee has no record.
func PunctualityMatrix(records []entity.CheckIn, employees []entity.Employee) []PunctualityMatrixRow {
	type tally struct{ punctual, total int }

	byDate := make(map[string]map[string]*tally)
	for _, r := range records {
		perEmployee, ok := byDate[r.Date]
		if !ok {
			perEmployee = make(map[string]*tally)
			byDate[r.Date] = perEmployee
		}
		t, ok := perEmployee[r.EmployeeID]
		if !ok {
			t = &tally{}
			perEmployee[r.EmployeeID] = t
		}
		t.total++
		if metrics.IsPunctual(r.CheckinTime) {
			t.punctual++
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	rows := make([]PunctualityMatrixRow, 0, len(dates))
	for _, date := range dates {
		row := PunctualityMatrixRow{Date: date, Employees: make(map[string]int, len(employees))}
		for _, emp := range employees {
			if t, ok := byDate[date][emp.ID]; ok {
				row.Employees[emp.ID] = metrics.Percent(t.punctual, t.total)
			} else {
				row.Employees[emp.ID] = 0
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func autoGoal(name string, value, target int) AutoGoal {
	return AutoGoal{Name: name, Value: value, Target: target, Achieved: value >= target}
}

func findEmployee(employees []entity.Employee, id string) (entity.Employee, bool) {
	for _, emp := range employees {
		if emp.ID == id {
			return emp, true
		}
	}
	return entity.Employee{}, false
}
