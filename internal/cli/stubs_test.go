package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/example/sereno-rh/internal/application"
	"github.com/example/sereno-rh/internal/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubAuth struct {
	principal application.Principal
	err       error
	tokens    []string
}

func (s *stubAuth) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	if s.err != nil {
		return application.AuthenticateResult{}, s.err
	}
	return application.AuthenticateResult{
		Employee: entity.Employee{ID: s.principal.EmployeeID, Email: params.Email, Role: s.principal.Role, Active: true},
		Session:  application.Session{Token: "token-" + s.principal.EmployeeID},
	}, nil
}

func (s *stubAuth) ValidateSession(ctx context.Context, token string) (application.Principal, error) {
	s.tokens = append(s.tokens, token)
	if s.err != nil {
		return application.Principal{}, s.err
	}
	return s.principal, nil
}

type stubAttendance struct {
	AttendanceService
	calls  int
	result application.ToggleCheckResult
	err    error
}

func (s *stubAttendance) ToggleCheck(ctx context.Context, principal application.Principal) (application.ToggleCheckResult, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubAttendance) ExportRows(ctx context.Context, params application.SearchCheckInsParams) ([]application.ExportRow, error) {
	return nil, s.err
}
