package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

// EmployeeService orchestrates validation, authorization and persistence for the roster.
type EmployeeService struct {
	employees   persistence.EmployeeRepository
	credentials persistence.CredentialRepository
	newID       IDGenerator
	hash        SecretHasher
	logger      *slog.Logger
}

// NewEmployeeService wires dependencies for the employee service.
func NewEmployeeService(employees persistence.EmployeeRepository, credentials persistence.CredentialRepository, newID IDGenerator, hash SecretHasher, logger *slog.Logger) *EmployeeService {
	if hash == nil {
		hash = NewSecretHasher(DefaultArgon2idParams)
	}
	return &EmployeeService{
		employees:   employees,
		credentials: credentials,
		newID:       orDefaultID(newID, "emp"),
		hash:        hash,
		logger:      defaultLogger(logger),
	}
}

func (s *EmployeeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

// CreateEmployee adds an active employee with the employee role and stores its hashed secret.
func (s *EmployeeService) CreateEmployee(ctx context.Context, params CreateEmployeeParams) (employee entity.Employee, err error) {
	if s == nil {
		return entity.Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	logger := s.loggerWith(ctx, "CreateEmployee", "principal_id", params.Principal.EmployeeID)
	defer func() { logOutcome(ctx, logger, err, "employee created", "employee_id", employee.ID) }()

	if !params.Principal.IsAdmin() {
		return entity.Employee{}, ErrUnauthorized
	}

	input := normalizeEmployeeInput(params.Input)
	vErr := validateEmployeeInput(input)
	if input.Secret == "" {
		vErr.add("secret", "secret is required")
	}
	if vErr.HasErrors() {
		return entity.Employee{}, vErr
	}

	hash, err := s.hash(input.Secret)
	if err != nil {
		return entity.Employee{}, fmt.Errorf("hash secret: %w", err)
	}

	employee = entity.Employee{
		ID:     s.newID(),
		Name:   input.Name,
		Email:  input.Email,
		Role:   entity.RoleEmployee,
		Active: true,
	}
	if err = s.employees.CreateEmployee(ctx, employee); err != nil {
		return entity.Employee{}, emailConflict(storeError(err))
	}
	if err = s.credentials.PutCredential(ctx, entity.Credential{EmployeeID: employee.ID, SecretHash: hash}); err != nil {
		if rbErr := s.employees.DeleteEmployee(ctx, employee.ID); rbErr != nil {
			logger.ErrorContext(ctx, "failed to remove employee without credential", "error", rbErr)
		}
		return entity.Employee{}, storeError(err)
	}
	return employee, nil
}

// UpdateEmployee edits the name and email of an employee and replaces its secret when one is given.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, params UpdateEmployeeParams) (employee entity.Employee, err error) {
	if s == nil {
		return entity.Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	logger := s.loggerWith(ctx, "UpdateEmployee", "principal_id", params.Principal.EmployeeID, "employee_id", params.EmployeeID)
	defer func() { logOutcome(ctx, logger, err, "employee updated") }()

	if !params.Principal.IsAdmin() {
		return entity.Employee{}, ErrUnauthorized
	}

	employee, err = s.employees.GetEmployee(ctx, params.EmployeeID)
	if err != nil {
		return entity.Employee{}, storeError(err)
	}

	input := normalizeEmployeeInput(params.Input)
	if vErr := validateEmployeeInput(input); vErr.HasErrors() {
		return entity.Employee{}, vErr
	}

	employee.Name = input.Name
	employee.Email = input.Email
	if err = s.employees.UpdateEmployee(ctx, employee); err != nil {
		return entity.Employee{}, emailConflict(storeError(err))
	}

	if input.Secret != "" {
		hash, hashErr := s.hash(input.Secret)
		if hashErr != nil {
			return entity.Employee{}, fmt.Errorf("hash secret: %w", hashErr)
		}
		if err = s.credentials.PutCredential(ctx, entity.Credential{EmployeeID: employee.ID, SecretHash: hash}); err != nil {
			return entity.Employee{}, storeError(err)
		}
	}
	return employee, nil
}

// UpdateProfile lets an employee edit their own name and email.
func (s *EmployeeService) UpdateProfile(ctx context.Context, params UpdateProfileParams) (employee entity.Employee, err error) {
	if s == nil {
		return entity.Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	logger := s.loggerWith(ctx, "UpdateProfile", "principal_id", params.Principal.EmployeeID)
	defer func() { logOutcome(ctx, logger, err, "profile updated") }()

	if params.Principal.EmployeeID == "" {
		return entity.Employee{}, ErrUnauthorized
	}

	employee, err = s.employees.GetEmployee(ctx, params.Principal.EmployeeID)
	if err != nil {
		return entity.Employee{}, storeError(err)
	}

	input := normalizeEmployeeInput(EmployeeInput{Name: params.Name, Email: params.Email})
	if vErr := validateEmployeeInput(input); vErr.HasErrors() {
		return entity.Employee{}, vErr
	}

	employee.Name = input.Name
	employee.Email = input.Email
	if err = s.employees.UpdateEmployee(ctx, employee); err != nil {
		return entity.Employee{}, emailConflict(storeError(err))
	}
	return employee, nil
}

// SetActive forces or flips the active flag of an employee. Administrators
// cannot deactivate themselves.
func (s *EmployeeService) SetActive(ctx context.Context, params SetActiveParams) (employee entity.Employee, err error) {
	if s == nil {
		return entity.Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	logger := s.loggerWith(ctx, "SetActive", "principal_id", params.Principal.EmployeeID, "employee_id", params.EmployeeID)
	defer func() { logOutcome(ctx, logger, err, "employee activation changed", "active", employee.Active) }()

	if !params.Principal.IsAdmin() {
		return entity.Employee{}, ErrUnauthorized
	}

	employee, err = s.employees.GetEmployee(ctx, params.EmployeeID)
	if err != nil {
		return entity.Employee{}, storeError(err)
	}

	active := !employee.Active
	if params.Active != nil {
		active = *params.Active
	}
	if !active && employee.ID == params.Principal.EmployeeID {
		vErr := &ValidationError{}
		vErr.add("active", "administrators cannot deactivate their own account")
		return entity.Employee{}, vErr
	}

	employee.Active = active
	if err = s.employees.UpdateEmployee(ctx, employee); err != nil {
		return entity.Employee{}, storeError(err)
	}
	return employee, nil
}

// DeleteEmployee removes an employee and everything keyed by its id.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, principal Principal, employeeID string) (err error) {
	if s == nil {
		return fmt.Errorf("EmployeeService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteEmployee", "principal_id", principal.EmployeeID, "employee_id", employeeID)
	defer func() { logOutcome(ctx, logger, err, "employee deleted") }()

	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if employeeID == principal.EmployeeID {
		vErr := &ValidationError{}
		vErr.add("employee_id", "administrators cannot delete their own account")
		return vErr
	}
	return storeError(s.employees.DeleteEmployee(ctx, employeeID))
}

// ListEmployees returns the roster ordered by name for administrators.
func (s *EmployeeService) ListEmployees(ctx context.Context, principal Principal) ([]entity.Employee, error) {
	if s == nil {
		return nil, fmt.Errorf("EmployeeService is nil")
	}
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}

	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	out := make([]entity.Employee, len(employees))
	copy(out, employees)
	sortEmployeesByName(out)
	return out, nil
}

// GetEmployee returns one employee to itself or to an administrator.
func (s *EmployeeService) GetEmployee(ctx context.Context, principal Principal, employeeID string) (entity.Employee, error) {
	if s == nil {
		return entity.Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	if !principal.CanAccess(employeeID) {
		return entity.Employee{}, ErrUnauthorized
	}
	employee, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return entity.Employee{}, storeError(err)
	}
	return employee, nil
}

func sortEmployeesByName(employees []entity.Employee) {
	sort.SliceStable(employees, func(i, j int) bool {
		a, b := foldText(employees[i].Name), foldText(employees[j].Name)
		if a == b {
			return employees[i].ID < employees[j].ID
		}
		return a < b
	})
}

func normalizeEmployeeInput(input EmployeeInput) EmployeeInput {
	return EmployeeInput{
		Name:   strings.Join(strings.Fields(input.Name), " "),
		Email:  strings.TrimSpace(input.Email),
		Secret: input.Secret,
	}
}

func validateEmployeeInput(input EmployeeInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}

	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if addr, err := mail.ParseAddress(input.Email); err != nil || addr.Address != input.Email {
		vErr.add("email", "email is invalid")
	}

	return vErr
}

// emailConflict reports a duplicate email as a field error.
func emailConflict(err error) error {
	if errors.Is(err, ErrAlreadyExists) {
		vErr := &ValidationError{}
		vErr.add("email", "email is already in use")
		return vErr
	}
	return err
}
