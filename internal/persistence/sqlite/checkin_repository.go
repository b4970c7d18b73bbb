package sqlite

import (
	"context"
	"strings"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

// CheckInRepository implements persistence.CheckInRepository. The
// (employee_id, date) primary key enforces one record per employee per day.
type CheckInRepository struct {
	pool *ConnectionPool
}

// NewCheckInRepository creates a check-in repository backed by pool.
func NewCheckInRepository(pool *ConnectionPool) *CheckInRepository {
	return &CheckInRepository{pool: pool}
}

const checkInColumns = `employee_id, date, checkin_time, checkout_time, duration, punctual, recorded_at`

// CreateCheckIn inserts a record. A second record for the same employee and
// date fails with persistence.ErrAlreadyExists.
func (r *CheckInRepository) CreateCheckIn(ctx context.Context, checkIn entity.CheckIn) error {
	if checkIn.EmployeeID == "" || checkIn.Date == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO check_ins (`+checkInColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		checkIn.EmployeeID,
		checkIn.Date,
		checkIn.CheckinTime,
		checkIn.CheckoutTime,
		checkIn.Duration,
		checkIn.Punctual,
		formatTime(checkIn.RecordedAt),
	)
	return mapError(err)
}

// UpdateCheckIn overwrites the times, duration and snapshot of an existing record.
func (r *CheckInRepository) UpdateCheckIn(ctx context.Context, checkIn entity.CheckIn) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE check_ins
		SET checkin_time = ?, checkout_time = ?, duration = ?, punctual = ?, recorded_at = ?
		WHERE employee_id = ? AND date = ?`,
		checkIn.CheckinTime,
		checkIn.CheckoutTime,
		checkIn.Duration,
		checkIn.Punctual,
		formatTime(checkIn.RecordedAt),
		checkIn.EmployeeID,
		checkIn.Date,
	)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

// GetCheckIn retrieves the record of employeeID on date.
func (r *CheckInRepository) GetCheckIn(ctx context.Context, employeeID, date string) (entity.CheckIn, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT `+checkInColumns+` FROM check_ins WHERE employee_id = ? AND date = ?`,
		employeeID, date,
	)
	return scanCheckIn(row)
}

// ListCheckIns returns records matching filter ordered by date then employee.
func (r *CheckInRepository) ListCheckIns(ctx context.Context, filter persistence.CheckInFilter) ([]entity.CheckIn, error) {
	return listCheckIns(ctx, r.pool.db, filter)
}

func listCheckIns(ctx context.Context, q queryer, filter persistence.CheckInFilter) ([]entity.CheckIn, error) {
	var (
		clauses []string
		args    []any
	)
	if len(filter.EmployeeIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.EmployeeIDs)), ",")
		clauses = append(clauses, "employee_id IN ("+placeholders+")")
		for _, id := range filter.EmployeeIDs {
			args = append(args, id)
		}
	}
	if filter.From != "" {
		clauses = append(clauses, "date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		clauses = append(clauses, "date <= ?")
		args = append(args, filter.To)
	}

	query := `SELECT ` + checkInColumns + ` FROM check_ins`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY date ASC, employee_id ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	records := make([]entity.CheckIn, 0)
	for rows.Next() {
		record, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return records, nil
}

func scanCheckIn(row rowScanner) (entity.CheckIn, error) {
	var (
		record     entity.CheckIn
		recordedAt string
	)
	err := row.Scan(
		&record.EmployeeID,
		&record.Date,
		&record.CheckinTime,
		&record.CheckoutTime,
		&record.Duration,
		&record.Punctual,
		&recordedAt,
	)
	if err != nil {
		return entity.CheckIn{}, mapError(err)
	}
	if record.RecordedAt, err = parseTime(recordedAt); err != nil {
		return entity.CheckIn{}, err
	}
	return record, nil
}
