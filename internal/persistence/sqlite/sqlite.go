// Package sqlite implements the entity store on a local SQLite file using the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/logging"
	"github.com/example/sereno-rh/internal/persistence"
)

// Storage aggregates every repository over one connection pool. It satisfies
// all persistence repository interfaces.
type Storage struct {
	*EmployeeRepository
	*CheckInRepository
	*RewardRepository
	*GoalRepository
	*CredentialRepository
	*RedemptionRepository
	*CollectionRegistry

	pool *ConnectionPool
}

var (
	_ persistence.EmployeeRepository   = (*Storage)(nil)
	_ persistence.CheckInRepository    = (*Storage)(nil)
	_ persistence.RewardRepository     = (*Storage)(nil)
	_ persistence.GoalRepository       = (*Storage)(nil)
	_ persistence.CredentialRepository = (*Storage)(nil)
	_ persistence.RedemptionRepository = (*Storage)(nil)
	_ persistence.CollectionRegistry   = (*Storage)(nil)
	_ persistence.SnapshotReader       = (*Storage)(nil)
)

// Open connects to the database at dsn. Call Migrate before first use.
func Open(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := NewConnectionPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Storage{
		EmployeeRepository:   NewEmployeeRepository(pool),
		CheckInRepository:    NewCheckInRepository(pool),
		RewardRepository:     NewRewardRepository(pool),
		GoalRepository:       NewGoalRepository(pool),
		CredentialRepository: NewCredentialRepository(pool),
		RedemptionRepository: NewRedemptionRepository(pool),
		CollectionRegistry:   NewCollectionRegistry(pool),
		pool:                 pool,
	}, nil
}

// Close releases the connection.
func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	return s.pool.Close()
}

// Migrate applies pending embedded migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	migrations, err := LoadMigrations()
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = slog.Default()
	}
	return runMigrations(ctx, s.pool, migrations, logger.With("component", "sqlite"))
}

// Snapshot reads every collection inside one read-only transaction.
func (s *Storage) Snapshot(ctx context.Context) (entity.Snapshot, error) {
	var snapshot entity.Snapshot
	err := s.pool.WithReadOnlyTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		if snapshot.Employees, err = listEmployees(ctx, tx); err != nil {
			return fmt.Errorf("employees: %w", err)
		}
		if snapshot.CheckIns, err = listCheckIns(ctx, tx, persistence.CheckInFilter{}); err != nil {
			return fmt.Errorf("check-ins: %w", err)
		}
		if snapshot.Rewards, err = listRewards(ctx, tx); err != nil {
			return fmt.Errorf("rewards: %w", err)
		}
		if snapshot.Goals, err = listGoals(ctx, tx, persistence.GoalFilter{}); err != nil {
			return fmt.Errorf("goals: %w", err)
		}
		if snapshot.Redemptions, err = listRedemptions(ctx, tx, ""); err != nil {
			return fmt.Errorf("redemptions: %w", err)
		}
		return nil
	})
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("sqlite: snapshot: %w", err)
	}
	return snapshot, nil
}
