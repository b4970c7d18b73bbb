package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository.
type EmployeeRepository struct {
	pool *ConnectionPool
	now  func() time.Time
}

// NewEmployeeRepository creates an employee repository backed by pool.
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool, now: time.Now}
}

const employeeColumns = `id, name, email, role, active`

// CreateEmployee inserts a new employee.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee entity.Employee) error {
	if employee.ID == "" || !employee.Role.Valid() {
		return persistence.ErrConstraintViolation
	}
	now := formatTime(r.now())
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		employee.ID,
		employee.Name,
		strings.TrimSpace(employee.Email),
		string(employee.Role),
		employee.Active,
		now,
		now,
	)
	return mapError(err)
}

// UpdateEmployee overwrites every mutable attribute of an existing employee.
func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee entity.Employee) error {
	if employee.ID == "" || !employee.Role.Valid() {
		return persistence.ErrConstraintViolation
	}
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE employees
		SET name = ?, email = ?, role = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		employee.Name,
		strings.TrimSpace(employee.Email),
		string(employee.Role),
		employee.Active,
		formatTime(r.now()),
		employee.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

// GetEmployee retrieves an employee by id.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (entity.Employee, error) {
	if id == "" {
		return entity.Employee{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

// GetEmployeeByEmail retrieves an employee by email, ignoring case.
func (r *EmployeeRepository) GetEmployeeByEmail(ctx context.Context, email string) (entity.Employee, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return entity.Employee{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = ?`, email)
	return scanEmployee(row)
}

// ListEmployees returns every employee ordered by creation then id.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]entity.Employee, error) {
	return listEmployees(ctx, r.pool.db)
}

func listEmployees(ctx context.Context, q queryer) ([]entity.Employee, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	employees := make([]entity.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return employees, nil
}

// DeleteEmployee removes the employee, its check-ins, credential, goals and
// redemptions in a single transaction.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		dependents := []string{
			`DELETE FROM check_ins WHERE employee_id = ?`,
			`DELETE FROM credentials WHERE employee_id = ?`,
			`DELETE FROM goals WHERE employee_id = ?`,
			`DELETE FROM redemptions WHERE employee_id = ?`,
		}
		for _, stmt := range dependents {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return mapError(err)
			}
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		return expectAffected(result)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (entity.Employee, error) {
	var (
		employee entity.Employee
		role     string
	)
	if err := row.Scan(&employee.ID, &employee.Name, &employee.Email, &role, &employee.Active); err != nil {
		return entity.Employee{}, mapError(err)
	}
	employee.Role = entity.Role(role)
	return employee, nil
}
