package application

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/metrics"
)

// seededStore returns a memory store holding the demo data.
func seededStore(t *testing.T) *memoryStore {
	t.Helper()
	store := newMemoryStore()
	if err := NewSeeder(store, plainHasher, discardLogger()).Seed(context.Background()); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return store
}

func newDashboardServiceForTest(store *memoryStore) *DashboardService {
	friday := time.Date(2024, time.October, 25, 12, 0, 0, 0, time.UTC)
	return NewDashboardService(store, metrics.NewEngine(fixedNow(friday), time.UTC), discardLogger())
}

func TestDashboardService_EmployeeDashboard(t *testing.T) {
	t.Parallel()

	store := seededStore(t)
	store.redemptions = append(store.redemptions, entity.Redemption{ID: "red-1", EmployeeID: "emp-001", RewardID: "rew-001", Points: 50})
	svc := newDashboardServiceForTest(store)
	ana := Principal{EmployeeID: "emp-001", Role: entity.RoleAdmin}

	dash, err := svc.EmployeeDashboard(context.Background(), ana, "")
	if err != nil {
		t.Fatalf("EmployeeDashboard failed: %v", err)
	}

	if dash.Today == nil || dash.Today.CheckinTime != "08:55" {
		t.Fatalf("expected today's record, got %+v", dash.Today)
	}
	checks := []struct {
		name      string
		got, want int
	}{
		{"weekly punctuality", dash.WeeklyPunctuality, 83},
		{"monthly punctuality", dash.MonthlyPunctual, 83},
		{"streak", dash.Streak, 6},
		{"punctual days", dash.PunctualDays, 5},
		{"points earned", dash.PointsEarned, 60},
		{"points balance", dash.PointsBalance, 10},
		{"weekly attendance", dash.WeeklyAttendance, 120},
		{"early share", dash.StatusShares[metrics.StatusEarly], 43},
		{"on time share", dash.StatusShares[metrics.StatusOnTime], 29},
		{"delay share", dash.StatusShares[metrics.StatusDelay], 14},
		{"late share", dash.StatusShares[metrics.StatusLate], 0},
		{"absent share", dash.StatusShares[metrics.StatusAbsent], 14},
		{"daily entries", len(dash.Daily), 30},
		{"weekly entries", len(dash.WeeklyStatus), 7},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: expected %d, got %d", c.name, c.want, c.got)
		}
	}

	if dash.MonthlyGoal == nil || dash.MonthlyGoal.ID != "goal-001" {
		t.Fatalf("expected October goal, got %+v", dash.MonthlyGoal)
	}

	if len(dash.AutoGoals) != 2 {
		t.Fatalf("expected two automatic goals, got %d", len(dash.AutoGoals))
	}
	weekly, monthly := dash.AutoGoals[0], dash.AutoGoals[1]
	if weekly.Name != AutoGoalWeeklyPunctuality || weekly.Value != 83 || weekly.Target != 90 || weekly.Achieved {
		t.Fatalf("unexpected weekly goal %+v", weekly)
	}
	if monthly.Name != AutoGoalMonthlyAttendance || monthly.Value != 27 || monthly.Target != 95 {
		t.Fatalf("unexpected monthly goal %+v", monthly)
	}
}

func TestDashboardService_EmployeeDashboardAccess(t *testing.T) {
	t.Parallel()

	store := seededStore(t)
	svc := newDashboardServiceForTest(store)
	luis := Principal{EmployeeID: "emp-002", Role: entity.RoleEmployee}

	if _, err := svc.EmployeeDashboard(context.Background(), luis, "emp-003"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	dash, err := svc.EmployeeDashboard(context.Background(), luis, "emp-002")
	if err != nil {
		t.Fatalf("EmployeeDashboard failed: %v", err)
	}
	if dash.Today == nil || dash.Today.CheckinTime != "09:05" {
		t.Fatalf("expected Luis's record for today, got %+v", dash.Today)
	}
	if dash.MonthlyGoal == nil || dash.MonthlyGoal.ID != "goal-002" {
		t.Fatalf("expected goal-002, got %+v", dash.MonthlyGoal)
	}

	admin := Principal{EmployeeID: "emp-001", Role: entity.RoleAdmin}
	if _, err := svc.EmployeeDashboard(context.Background(), admin, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	store.snapshotErr = errors.New("locked")
	if _, err := svc.EmployeeDashboard(context.Background(), luis, ""); err == nil {
		t.Fatalf("expected snapshot failure to surface")
	}
}

func TestDashboardService_AdminDashboard(t *testing.T) {
	t.Parallel()

	store := seededStore(t)
	svc := newDashboardServiceForTest(store)

	if _, err := svc.AdminDashboard(context.Background(), Principal{EmployeeID: "emp-002", Role: entity.RoleEmployee}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	dash, err := svc.AdminDashboard(context.Background(), Principal{EmployeeID: "emp-001", Role: entity.RoleAdmin})
	if err != nil {
		t.Fatalf("AdminDashboard failed: %v", err)
	}

	want := metrics.GlobalMetrics{TotalEmployees: 3, PresentCount: 2, LateCount: 0, PunctualCount: 2, AbsenteeCount: 1, PunctualityRate: 100}
	if dash.Global != want {
		t.Fatalf("expected %+v, got %+v", want, dash.Global)
	}
	if dash.ActiveEmployees != 3 {
		t.Fatalf("expected 3 active employees, got %d", dash.ActiveEmployees)
	}
	if len(dash.Daily) != 30 {
		t.Fatalf("expected 30 daily entries, got %d", len(dash.Daily))
	}

	if len(dash.Matrix) != 6 {
		t.Fatalf("expected one matrix row per seeded date, got %d", len(dash.Matrix))
	}
	if dash.Matrix[0].Date != "2024-10-20" || dash.Matrix[5].Date != "2024-10-25" {
		t.Fatalf("expected dates in ascending order, got %s..%s", dash.Matrix[0].Date, dash.Matrix[5].Date)
	}
	thursday := dash.Matrix[4]
	if thursday.Employees["emp-001"] != 0 || thursday.Employees["emp-003"] != 100 || thursday.Employees["emp-002"] != 0 {
		t.Fatalf("unexpected 2024-10-24 row %+v", thursday)
	}
}

func TestPunctualityMatrix_Empty(t *testing.T) {
	t.Parallel()

	rows := PunctualityMatrix(nil, []entity.Employee{{ID: "emp-001"}})
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestDashboardService_TodayOnMidnightDSTTransition(t *testing.T) {
	t.Parallel()

	// 00:00 on 2018-11-04 did not exist in Sao Paulo.
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := fixedNow(time.Date(2018, time.November, 4, 8, 50, 0, 0, loc))
	store := seededStore(t)
	luis := Principal{EmployeeID: "emp-002", Role: entity.RoleEmployee}

	result, err := NewAttendanceService(store, store, now, loc, discardLogger()).ToggleCheck(context.Background(), luis)
	if err != nil {
		t.Fatalf("ToggleCheck failed: %v", err)
	}
	if result.Record.Date != "2018-11-04" {
		t.Fatalf("expected record dated 2018-11-04, got %s", result.Record.Date)
	}

	dash, err := NewDashboardService(store, metrics.NewEngine(now, loc), discardLogger()).EmployeeDashboard(context.Background(), luis, "")
	if err != nil {
		t.Fatalf("EmployeeDashboard failed: %v", err)
	}
	if dash.Today == nil || dash.Today.CheckinTime != result.Record.CheckinTime {
		t.Fatalf("expected the record just written as today's, got %+v", dash.Today)
	}
	if dash.WeeklyStatus[0].Date != "2018-11-04" || dash.WeeklyStatus[0].Status != metrics.StatusEarly {
		t.Fatalf("expected Sunday 2018-11-04 to be early, got %+v", dash.WeeklyStatus[0])
	}
}
