package sqlite

import (
	"context"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

// RewardRepository implements persistence.RewardRepository.
type RewardRepository struct {
	pool *ConnectionPool
}

// NewRewardRepository creates a reward repository backed by pool.
func NewRewardRepository(pool *ConnectionPool) *RewardRepository {
	return &RewardRepository{pool: pool}
}

const rewardColumns = `id, name, description, points_required, active`

// CreateReward inserts a reward.
func (r *RewardRepository) CreateReward(ctx context.Context, reward entity.Reward) error {
	if reward.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO rewards (`+rewardColumns+`) VALUES (?, ?, ?, ?, ?)`,
		reward.ID, reward.Name, reward.Description, reward.PointsRequired, reward.Active,
	)
	return mapError(err)
}

// UpdateReward overwrites an existing reward.
func (r *RewardRepository) UpdateReward(ctx context.Context, reward entity.Reward) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE rewards
		SET name = ?, description = ?, points_required = ?, active = ?
		WHERE id = ?`,
		reward.Name, reward.Description, reward.PointsRequired, reward.Active, reward.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

// GetReward retrieves a reward by id.
func (r *RewardRepository) GetReward(ctx context.Context, id string) (entity.Reward, error) {
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+rewardColumns+` FROM rewards WHERE id = ?`, id)
	return scanReward(row)
}

// ListRewards returns every reward ordered by points then name.
func (r *RewardRepository) ListRewards(ctx context.Context) ([]entity.Reward, error) {
	return listRewards(ctx, r.pool.db)
}

func listRewards(ctx context.Context, q queryer) ([]entity.Reward, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+rewardColumns+` FROM rewards ORDER BY points_required ASC, name ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	rewards := make([]entity.Reward, 0)
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return rewards, nil
}

// DeleteReward removes a reward. Past redemptions keep their reward id.
func (r *RewardRepository) DeleteReward(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM rewards WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

func scanReward(row rowScanner) (entity.Reward, error) {
	var reward entity.Reward
	if err := row.Scan(&reward.ID, &reward.Name, &reward.Description, &reward.PointsRequired, &reward.Active); err != nil {
		return entity.Reward{}, mapError(err)
	}
	return reward, nil
}
