package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/sereno-rh/internal/entity"
)

func newGoalServiceForTest(store *memoryStore) *GoalService {
	now := time.Date(2024, time.October, 25, 12, 0, 0, 0, time.UTC)
	return NewGoalService(store, store, sequentialIDs("goal"), fixedNow(now), time.UTC, discardLogger())
}

func TestNormalizeMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "2024-10", want: "2024-10-01", ok: true},
		{in: " 2024-10-17 ", want: "2024-10-01", ok: true},
		{in: "2024-13", ok: false},
		{in: "October", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := NormalizeMonth(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("NormalizeMonth(%q): expected (%q, %v), got (%q, %v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestGoalService_CreateGoal(t *testing.T) {
	t.Parallel()

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()
		svc := newGoalServiceForTest(newMemoryStore())
		_, err := svc.CreateGoal(context.Background(), CreateGoalParams{Principal: employeePrincipal})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("validates employee month and description", func(t *testing.T) {
		t.Parallel()
		svc := newGoalServiceForTest(newMemoryStore())
		_, err := svc.CreateGoal(context.Background(), CreateGoalParams{
			Principal: adminPrincipal,
			Input:     GoalInput{EmployeeID: "ghost", Month: "soon"},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"employee_id", "month", "description"} {
			if vErr.FieldErrors[field] == "" {
				t.Fatalf("expected %s error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("normalizes the month and keeps progress unclamped", func(t *testing.T) {
		t.Parallel()
		store := newMemoryStore().withEmployees(regularEmployee())
		svc := newGoalServiceForTest(store)
		goal, err := svc.CreateGoal(context.Background(), CreateGoalParams{
			Principal: adminPrincipal,
			Input:     GoalInput{EmployeeID: employeePrincipal.EmployeeID, Month: "2024-10-17", Description: " Liderar proyecto X ", Progress: 120},
		})
		if err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		if goal.ID != "goal-1" || goal.Month != "2024-10-01" || goal.Description != "Liderar proyecto X" || goal.Progress != 120 {
			t.Fatalf("unexpected goal %+v", goal)
		}
	})
}

func TestGoalService_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	store := newMemoryStore().withEmployees(regularEmployee())
	store.goals["goal-001"] = entity.Goal{ID: "goal-001", EmployeeID: employeePrincipal.EmployeeID, Month: "2024-10-01", Description: "a", Progress: 10}
	svc := newGoalServiceForTest(store)
	ctx := context.Background()

	updated, err := svc.UpdateGoal(ctx, UpdateGoalParams{
		Principal: adminPrincipal,
		GoalID:    "goal-001",
		Input:     GoalInput{EmployeeID: employeePrincipal.EmployeeID, Month: "2024-11", Description: "b", Progress: 55},
	})
	if err != nil {
		t.Fatalf("UpdateGoal failed: %v", err)
	}
	if updated.Month != "2024-11-01" || updated.Progress != 55 {
		t.Fatalf("unexpected update %+v", updated)
	}

	if _, err := svc.UpdateGoal(ctx, UpdateGoalParams{Principal: adminPrincipal, GoalID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteGoal(ctx, adminPrincipal, "goal-001"); err != nil {
		t.Fatalf("DeleteGoal failed: %v", err)
	}
	if len(store.goals) != 0 {
		t.Fatalf("expected goal to be removed")
	}
}

func TestGoalService_ListAndMonthly(t *testing.T) {
	t.Parallel()

	store := newMemoryStore().withEmployees(adminEmployee(), regularEmployee())
	store.goals["goal-001"] = entity.Goal{ID: "goal-001", EmployeeID: adminPrincipal.EmployeeID, Month: "2024-10-01", Description: "a"}
	store.goals["goal-002"] = entity.Goal{ID: "goal-002", EmployeeID: employeePrincipal.EmployeeID, Month: "2024-10-01", Description: "b", Progress: 50}
	store.goals["goal-003"] = entity.Goal{ID: "goal-003", EmployeeID: employeePrincipal.EmployeeID, Month: "2023-10-01", Description: "c"}
	svc := newGoalServiceForTest(store)
	ctx := context.Background()

	all, err := svc.ListGoals(ctx, adminPrincipal)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 goals for admin, got %d %v", len(all), err)
	}
	own, err := svc.ListGoals(ctx, employeePrincipal)
	if err != nil || len(own) != 2 {
		t.Fatalf("expected 2 own goals, got %d %v", len(own), err)
	}
	if own[0].ID != "goal-002" {
		t.Fatalf("expected newest month first, got %s", own[0].ID)
	}

	monthly, err := svc.MonthlyGoal(ctx, employeePrincipal, "")
	if err != nil {
		t.Fatalf("MonthlyGoal failed: %v", err)
	}
	if monthly == nil || monthly.ID != "goal-002" {
		t.Fatalf("expected this year's October goal, got %+v", monthly)
	}

	if _, err := svc.MonthlyGoal(ctx, employeePrincipal, adminPrincipal.EmployeeID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
