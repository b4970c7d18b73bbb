package sqlite

import (
	"context"
	"strings"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

// GoalRepository implements persistence.GoalRepository.
type GoalRepository struct {
	pool *ConnectionPool
}

// NewGoalRepository creates a goal repository backed by pool.
func NewGoalRepository(pool *ConnectionPool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = `id, employee_id, month, description, progress`

// CreateGoal inserts a goal. The employee must exist.
func (r *GoalRepository) CreateGoal(ctx context.Context, goal entity.Goal) error {
	if goal.ID == "" || goal.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?)`,
		goal.ID, goal.EmployeeID, goal.Month, goal.Description, goal.Progress,
	)
	return mapError(err)
}

// UpdateGoal overwrites an existing goal.
func (r *GoalRepository) UpdateGoal(ctx context.Context, goal entity.Goal) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE goals
		SET employee_id = ?, month = ?, description = ?, progress = ?
		WHERE id = ?`,
		goal.EmployeeID, goal.Month, goal.Description, goal.Progress, goal.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

// GetGoal retrieves a goal by id.
func (r *GoalRepository) GetGoal(ctx context.Context, id string) (entity.Goal, error) {
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	return scanGoal(row)
}

// ListGoals returns goals matching filter, newest month first.
func (r *GoalRepository) ListGoals(ctx context.Context, filter persistence.GoalFilter) ([]entity.Goal, error) {
	return listGoals(ctx, r.pool.db, filter)
}

func listGoals(ctx context.Context, q queryer, filter persistence.GoalFilter) ([]entity.Goal, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.EmployeeID != "" {
		clauses = append(clauses, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.Month != "" {
		clauses = append(clauses, "month = ?")
		args = append(args, filter.Month)
	}

	query := `SELECT ` + goalColumns + ` FROM goals`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY month DESC, employee_id ASC, id ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	goals := make([]entity.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return goals, nil
}

// DeleteGoal removes a goal by id.
func (r *GoalRepository) DeleteGoal(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

func scanGoal(row rowScanner) (entity.Goal, error) {
	var goal entity.Goal
	if err := row.Scan(&goal.ID, &goal.EmployeeID, &goal.Month, &goal.Description, &goal.Progress); err != nil {
		return entity.Goal{}, mapError(err)
	}
	return goal, nil
}
