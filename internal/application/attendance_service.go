package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/metrics"
	"github.com/example/sereno-rh/internal/persistence"
)

// ClockLayout is the 12-hour form in which check-in and check-out times are written.
const ClockLayout = "3:04 PM"

const missingValue = "-"

// AttendanceEntry is a check-in decorated for display.
type AttendanceEntry struct {
	entity.CheckIn
	EmployeeName string         `json:"employeeName"`
	Status       metrics.Status `json:"status"`
}

// AttendanceService records check-ins and serves the attendance log.
type AttendanceService struct {
	checkIns  persistence.CheckInRepository
	employees persistence.EmployeeRepository
	now       func() time.Time
	loc       *time.Location
	logger    *slog.Logger
}

// NewAttendanceService wires dependencies for the attendance service. Dates
// and wall-clock times are taken in loc.
func NewAttendanceService(checkIns persistence.CheckInRepository, employees persistence.EmployeeRepository, now func() time.Time, loc *time.Location, logger *slog.Logger) *AttendanceService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceService{
		checkIns:  checkIns,
		employees: employees,
		now:       now,
		loc:       loc,
		logger:    defaultLogger(logger),
	}
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

// ToggleCheck checks the principal in when no record exists today and checks
// it out when today's record is still open. A closed record yields
// ErrAlreadyCheckedOut.
func (s *AttendanceService) ToggleCheck(ctx context.Context, principal Principal) (result ToggleCheckResult, err error) {
	if s == nil {
		return ToggleCheckResult{}, fmt.Errorf("AttendanceService is nil")
	}
	logger := s.loggerWith(ctx, "ToggleCheck", "principal_id", principal.EmployeeID)
	defer func() {
		logOutcome(ctx, logger, err, "attendance recorded", "action", result.Action, "date", result.Record.Date)
	}()

	if principal.EmployeeID == "" {
		return ToggleCheckResult{}, ErrUnauthorized
	}

	now := s.now().In(s.loc)
	date := now.Format(entity.DateLayout)
	clock := now.Format(ClockLayout)

	record, err := s.checkIns.GetCheckIn(ctx, principal.EmployeeID, date)
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		record = entity.CheckIn{
			EmployeeID:  principal.EmployeeID,
			Date:        date,
			CheckinTime: clock,
			Punctual:    punctualAt(now),
			RecordedAt:  now,
		}
		if err = s.checkIns.CreateCheckIn(ctx, record); err != nil {
			return ToggleCheckResult{}, storeError(err)
		}
		return ToggleCheckResult{Action: CheckActionIn, Record: record}, nil
	case err != nil:
		return ToggleCheckResult{}, storeError(err)
	}

	switch {
	case !record.HasCheckin():
		record.CheckinTime = clock
		record.Punctual = punctualAt(now)
		record.RecordedAt = now
		result.Action = CheckActionIn
	case !record.HasCheckout():
		record.CheckoutTime = clock
		record.Duration = metrics.FormatDuration(record.CheckinTime, clock)
		result.Action = CheckActionOut
	default:
		return ToggleCheckResult{}, ErrAlreadyCheckedOut
	}

	if err = s.checkIns.UpdateCheckIn(ctx, record); err != nil {
		return ToggleCheckResult{}, storeError(err)
	}
	result.Record = record
	return result, nil
}

// punctualAt is the snapshot stored with a new check-in.
func punctualAt(t time.Time) bool {
	return t.Hour() < metrics.OnTimeLimit.Hour ||
		(t.Hour() == metrics.OnTimeLimit.Hour && t.Minute() <= metrics.OnTimeLimit.Minute)
}

// Today returns the principal's record for the current date, or nil.
func (s *AttendanceService) Today(ctx context.Context, principal Principal) (*entity.CheckIn, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if principal.EmployeeID == "" {
		return nil, ErrUnauthorized
	}
	date := s.now().In(s.loc).Format(entity.DateLayout)
	record, err := s.checkIns.GetCheckIn(ctx, principal.EmployeeID, date)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, nil
		}
		return nil, storeError(err)
	}
	return &record, nil
}

// History returns up to limit records of employeeID, newest first. A
// non-positive limit returns every record.
func (s *AttendanceService) History(ctx context.Context, principal Principal, employeeID string, limit int) ([]AttendanceEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if employeeID == "" {
		employeeID = principal.EmployeeID
	}
	if !principal.CanAccess(employeeID) {
		return nil, ErrUnauthorized
	}

	employee, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, storeError(err)
	}
	records, err := s.checkIns.ListCheckIns(ctx, persistence.CheckInFilter{EmployeeIDs: []string{employeeID}})
	if err != nil {
		return nil, storeError(err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	names := map[string]string{employee.ID: employee.Name}
	return decorate(records, names), nil
}

// Search filters the attendance log for administrators. Free text matches
// employee name or email ignoring case and accents; results matched by text
// are ordered by employee name.
func (s *AttendanceService) Search(ctx context.Context, params SearchCheckInsParams) ([]AttendanceEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if !params.Principal.IsAdmin() {
		return nil, ErrUnauthorized
	}

	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	records, err := s.checkIns.ListCheckIns(ctx, persistence.CheckInFilter{From: params.From, To: params.To})
	if err != nil {
		return nil, storeError(err)
	}

	byID := make(map[string]entity.Employee, len(employees))
	names := make(map[string]string, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
		names[emp.ID] = emp.Name
	}

	query := foldText(params.Text)
	exact := make(map[string]struct{}, len(params.EmployeeIDs))
	for _, id := range params.EmployeeIDs {
		if id = strings.TrimSpace(id); id != "" {
			exact[id] = struct{}{}
		}
	}
	hasText, hasExact := query != "", len(exact) > 0

	matched := make([]entity.CheckIn, 0, len(records))
	for _, record := range records {
		if !hasText && !hasExact {
			matched = append(matched, record)
			continue
		}
		if hasExact {
			if _, ok := exact[record.EmployeeID]; ok {
				matched = append(matched, record)
				continue
			}
		}
		if hasText {
			emp := byID[record.EmployeeID]
			if strings.Contains(foldText(emp.Name), query) || strings.Contains(foldText(emp.Email), query) {
				matched = append(matched, record)
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})
	if hasText {
		sort.SliceStable(matched, func(i, j int) bool {
			return foldText(names[matched[i].EmployeeID]) < foldText(names[matched[j].EmployeeID])
		})
	}

	return decorate(matched, names), nil
}

// ExportRows flattens the records selected by params for CSV or XLSX output.
func (s *AttendanceService) ExportRows(ctx context.Context, params SearchCheckInsParams) ([]ExportRow, error) {
	entries, err := s.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	rows := make([]ExportRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, toExportRow(entry))
	}
	return rows, nil
}

func toExportRow(entry AttendanceEntry) ExportRow {
	status := ExportStatusAbsent
	switch {
	case entry.HasCheckin() && entry.HasCheckout():
		status = ExportStatusComplete
	case entry.HasCheckin():
		status = ExportStatusPendingCheckout
	}
	return ExportRow{
		EmployeeID:   entry.EmployeeID,
		Date:         entry.Date,
		CheckinTime:  orMissing(entry.CheckinTime),
		CheckoutTime: orMissing(entry.CheckoutTime),
		Duration:     orMissing(entry.Duration),
		EmployeeName: entry.EmployeeName,
		Status:       status,
	}
}

func orMissing(value string) string {
	if strings.TrimSpace(value) == "" {
		return missingValue
	}
	return value
}

func decorate(records []entity.CheckIn, names map[string]string) []AttendanceEntry {
	out := make([]AttendanceEntry, 0, len(records))
	for _, record := range records {
		name, ok := names[record.EmployeeID]
		if !ok {
			name = metrics.UnknownEmployee
		}
		out = append(out, AttendanceEntry{
			CheckIn:      record,
			EmployeeName: name,
			Status:       metrics.Classify(record.CheckinTime),
		})
	}
	return out
}
