package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/metrics"
)

func TestAttendanceService_ToggleCheck(t *testing.T) {
	t.Parallel()

	t.Run("checks in then out then refuses", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore().withEmployees(regularEmployee())
		current := time.Date(2024, time.October, 25, 9, 10, 30, 0, time.UTC)
		svc := NewAttendanceService(store, store, func() time.Time { return current }, time.UTC, discardLogger())

		first, err := svc.ToggleCheck(context.Background(), employeePrincipal)
		if err != nil {
			t.Fatalf("check-in failed: %v", err)
		}
		if first.Action != CheckActionIn {
			t.Fatalf("expected check-in, got %s", first.Action)
		}
		if first.Record.Date != "2024-10-25" || first.Record.CheckinTime != "9:10 AM" || !first.Record.Punctual {
			t.Fatalf("unexpected check-in record %+v", first.Record)
		}

		current = time.Date(2024, time.October, 25, 17, 20, 0, 0, time.UTC)
		second, err := svc.ToggleCheck(context.Background(), employeePrincipal)
		if err != nil {
			t.Fatalf("check-out failed: %v", err)
		}
		if second.Action != CheckActionOut {
			t.Fatalf("expected check-out, got %s", second.Action)
		}
		if second.Record.CheckoutTime != "5:20 PM" || second.Record.Duration != "8h 10m" {
			t.Fatalf("unexpected check-out record %+v", second.Record)
		}
		if !second.Record.Punctual {
			t.Fatalf("expected punctual snapshot to survive check-out")
		}

		if _, err := svc.ToggleCheck(context.Background(), employeePrincipal); !errors.Is(err, ErrAlreadyCheckedOut) {
			t.Fatalf("expected ErrAlreadyCheckedOut, got %v", err)
		}
	})

	t.Run("snapshots lateness at write time", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore().withEmployees(regularEmployee())
		now := time.Date(2024, time.October, 25, 9, 16, 0, 0, time.UTC)
		svc := NewAttendanceService(store, store, fixedNow(now), time.UTC, discardLogger())

		result, err := svc.ToggleCheck(context.Background(), employeePrincipal)
		if err != nil {
			t.Fatalf("ToggleCheck failed: %v", err)
		}
		if result.Record.Punctual {
			t.Fatalf("expected 9:16 to be recorded as not punctual")
		}
	})

	t.Run("uses the configured location for the calendar date", func(t *testing.T) {
		t.Parallel()

		loc := time.FixedZone("UTC-5", -5*60*60)
		store := newMemoryStore().withEmployees(regularEmployee())
		now := time.Date(2024, time.October, 26, 2, 0, 0, 0, time.UTC)
		svc := NewAttendanceService(store, store, fixedNow(now), loc, discardLogger())

		result, err := svc.ToggleCheck(context.Background(), employeePrincipal)
		if err != nil {
			t.Fatalf("ToggleCheck failed: %v", err)
		}
		if result.Record.Date != "2024-10-25" || result.Record.CheckinTime != "9:00 PM" {
			t.Fatalf("expected local date and time, got %+v", result.Record)
		}
	})

	t.Run("requires an authenticated principal", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		svc := NewAttendanceService(store, store, nil, time.UTC, discardLogger())
		if _, err := svc.ToggleCheck(context.Background(), Principal{}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAttendanceService_TodayAndHistory(t *testing.T) {
	t.Parallel()

	store := newMemoryStore().withEmployees(regularEmployee()).withCheckIns(
		entity.CheckIn{EmployeeID: employeePrincipal.EmployeeID, Date: "2024-10-23", CheckinTime: "09:20"},
		entity.CheckIn{EmployeeID: employeePrincipal.EmployeeID, Date: "2024-10-24", CheckinTime: "09:05"},
		entity.CheckIn{EmployeeID: employeePrincipal.EmployeeID, Date: "2024-10-25", CheckinTime: "08:55"},
	)
	now := time.Date(2024, time.October, 25, 12, 0, 0, 0, time.UTC)
	svc := NewAttendanceService(store, store, fixedNow(now), time.UTC, discardLogger())

	today, err := svc.Today(context.Background(), employeePrincipal)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if today == nil || today.CheckinTime != "08:55" {
		t.Fatalf("expected today's record, got %+v", today)
	}

	history, err := svc.History(context.Background(), employeePrincipal, "", 2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 || history[0].Date != "2024-10-25" || history[1].Date != "2024-10-24" {
		t.Fatalf("expected two newest records, got %+v", history)
	}
	if history[0].EmployeeName != "Luis Pérez" || history[0].Status != metrics.StatusEarly {
		t.Fatalf("expected decorated entry, got %+v", history[0])
	}

	if _, err := svc.History(context.Background(), employeePrincipal, "emp-other", 0); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for another employee, got %v", err)
	}

	empty := NewAttendanceService(store, store, fixedNow(now.AddDate(0, 0, 1)), time.UTC, discardLogger())
	none, err := empty.Today(context.Background(), employeePrincipal)
	if err != nil || none != nil {
		t.Fatalf("expected no record tomorrow, got %+v %v", none, err)
	}
}

func searchFixture() *memoryStore {
	return newMemoryStore().withEmployees(
		entity.Employee{ID: "emp-001", Name: "Ana García", Email: "admin@serenorh.com", Role: entity.RoleAdmin, Active: true},
		entity.Employee{ID: "emp-002", Name: "Luis Pérez", Email: "empleado@serenorh.com", Role: entity.RoleEmployee, Active: true},
		entity.Employee{ID: "emp-003", Name: "Marta López", Email: "marta.lopez@serenorh.com", Role: entity.RoleEmployee, Active: true},
	).withCheckIns(
		entity.CheckIn{EmployeeID: "emp-003", Date: "2024-10-24", CheckinTime: "09:00", CheckoutTime: "17:00", Duration: "8h 00m"},
		entity.CheckIn{EmployeeID: "emp-001", Date: "2024-10-25", CheckinTime: "08:55", CheckoutTime: "17:05", Duration: "8h 10m"},
		entity.CheckIn{EmployeeID: "emp-002", Date: "2024-10-25", CheckinTime: "09:05"},
		entity.CheckIn{EmployeeID: "emp-002", Date: "2024-10-24"},
	)
}

func TestAttendanceService_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := searchFixture()
	svc := NewAttendanceService(store, store, nil, time.UTC, discardLogger())

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()
		if _, err := svc.Search(ctx, SearchCheckInsParams{Principal: employeePrincipal}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("returns every record without criteria", func(t *testing.T) {
		t.Parallel()
		entries, err := svc.Search(ctx, SearchCheckInsParams{Principal: adminPrincipal})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(entries) != 4 {
			t.Fatalf("expected 4 entries, got %d", len(entries))
		}
		if entries[0].Date != "2024-10-25" {
			t.Fatalf("expected newest first, got %s", entries[0].Date)
		}
	})

	t.Run("matches names ignoring accents and case", func(t *testing.T) {
		t.Parallel()
		entries, err := svc.Search(ctx, SearchCheckInsParams{Principal: adminPrincipal, Text: "PEREZ"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries for Pérez, got %d", len(entries))
		}
		for _, e := range entries {
			if e.EmployeeID != "emp-002" {
				t.Fatalf("unexpected match %+v", e)
			}
		}
	})

	t.Run("matches email fragments", func(t *testing.T) {
		t.Parallel()
		entries, err := svc.Search(ctx, SearchCheckInsParams{Principal: adminPrincipal, Text: "marta.lopez@"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(entries) != 1 || entries[0].EmployeeID != "emp-003" {
			t.Fatalf("expected Marta's record, got %+v", entries)
		}
	})

	t.Run("combines text and ids with OR and sorts by name", func(t *testing.T) {
		t.Parallel()
		entries, err := svc.Search(ctx, SearchCheckInsParams{Principal: adminPrincipal, Text: "marta", EmployeeIDs: []string{"emp-001"}})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].EmployeeName != "Ana García" || entries[1].EmployeeName != "Marta López" {
			t.Fatalf("expected name order, got %s, %s", entries[0].EmployeeName, entries[1].EmployeeName)
		}
	})

	t.Run("restricts to the date range", func(t *testing.T) {
		t.Parallel()
		entries, err := svc.Search(ctx, SearchCheckInsParams{Principal: adminPrincipal, From: "2024-10-25", To: "2024-10-25"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries on 2024-10-25, got %d", len(entries))
		}
	})
}

func TestAttendanceService_ExportRows(t *testing.T) {
	t.Parallel()

	store := searchFixture()
	svc := NewAttendanceService(store, store, nil, time.UTC, discardLogger())

	rows, err := svc.ExportRows(context.Background(), SearchCheckInsParams{Principal: adminPrincipal, EmployeeIDs: []string{"emp-002"}})
	if err != nil {
		t.Fatalf("ExportRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	pending, absent := rows[0], rows[1]
	if pending.Status != ExportStatusPendingCheckout || pending.CheckoutTime != "-" || pending.Duration != "-" {
		t.Fatalf("unexpected pending row %+v", pending)
	}
	if absent.Status != ExportStatusAbsent || absent.CheckinTime != "-" {
		t.Fatalf("unexpected absent row %+v", absent)
	}

	all, err := svc.ExportRows(context.Background(), SearchCheckInsParams{Principal: adminPrincipal, EmployeeIDs: []string{"emp-001"}})
	if err != nil {
		t.Fatalf("ExportRows failed: %v", err)
	}
	if all[0].Status != ExportStatusComplete || all[0].EmployeeName != "Ana García" {
		t.Fatalf("unexpected complete row %+v", all[0])
	}
}

func TestDecorate_UnknownEmployee(t *testing.T) {
	t.Parallel()

	entries := decorate([]entity.CheckIn{{EmployeeID: "ghost", Date: "2024-10-25", CheckinTime: "09:30"}}, map[string]string{})
	if entries[0].EmployeeName != metrics.UnknownEmployee || entries[0].Status != metrics.StatusLate {
		t.Fatalf("expected unknown late entry, got %+v", entries[0])
	}
	row := toExportRow(entries[0])
	if row.EmployeeName != "Unknown" || row.Status != ExportStatusPendingCheckout {
		t.Fatalf("unexpected export row %+v", row)
	}
}
