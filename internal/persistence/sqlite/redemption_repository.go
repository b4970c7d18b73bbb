package sqlite

import (
	"context"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

// RedemptionRepository implements persistence.RedemptionRepository.
type RedemptionRepository struct {
	pool *ConnectionPool
}

// NewRedemptionRepository creates a redemption repository backed by pool.
func NewRedemptionRepository(pool *ConnectionPool) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

const redemptionColumns = `id, employee_id, reward_id, points, redeemed_at`

// CreateRedemption records points spent on a reward.
func (r *RedemptionRepository) CreateRedemption(ctx context.Context, redemption entity.Redemption) error {
	if redemption.ID == "" || redemption.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO redemptions (`+redemptionColumns+`) VALUES (?, ?, ?, ?, ?)`,
		redemption.ID,
		redemption.EmployeeID,
		redemption.RewardID,
		redemption.Points,
		formatTime(redemption.RedeemedAt),
	)
	return mapError(err)
}

// ListRedemptions returns redemptions oldest first, limited to employeeID when set.
func (r *RedemptionRepository) ListRedemptions(ctx context.Context, employeeID string) ([]entity.Redemption, error) {
	return listRedemptions(ctx, r.pool.db, employeeID)
}

func listRedemptions(ctx context.Context, q queryer, employeeID string) ([]entity.Redemption, error) {
	query := `SELECT ` + redemptionColumns + ` FROM redemptions`
	var args []any
	if employeeID != "" {
		query += ` WHERE employee_id = ?`
		args = append(args, employeeID)
	}
	query += ` ORDER BY redeemed_at ASC, id ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	redemptions := make([]entity.Redemption, 0)
	for rows.Next() {
		var (
			redemption entity.Redemption
			redeemedAt string
		)
		if err := rows.Scan(
			&redemption.ID,
			&redemption.EmployeeID,
			&redemption.RewardID,
			&redemption.Points,
			&redeemedAt,
		); err != nil {
			return nil, mapError(err)
		}
		if redemption.RedeemedAt, err = parseTime(redeemedAt); err != nil {
			return nil, err
		}
		redemptions = append(redemptions, redemption)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return redemptions, nil
}
