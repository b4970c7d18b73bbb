package persistence

import (
	"context"

	"github.com/example/sereno-rh/internal/entity"
)

// EmployeeRepository exposes CRUD operations for the roster.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee entity.Employee) error
	UpdateEmployee(ctx context.Context, employee entity.Employee) error
	GetEmployee(ctx context.Context, id string) (entity.Employee, error)
	// GetEmployeeByEmail matches case-insensitively.
	GetEmployeeByEmail(ctx context.Context, email string) (entity.Employee, error)
	ListEmployees(ctx context.Context) ([]entity.Employee, error)
	// DeleteEmployee removes the employee together with every record keyed by its id.
	DeleteEmployee(ctx context.Context, id string) error
}

// CheckInFilter narrows check-in queries. Empty fields do not filter; date
// bounds are inclusive ISO dates.
type CheckInFilter struct {
	EmployeeIDs []string
	From        string
	To          string
}

// CheckInRepository stores one attendance record per employee and date.
type CheckInRepository interface {
	CreateCheckIn(ctx context.Context, checkIn entity.CheckIn) error
	UpdateCheckIn(ctx context.Context, checkIn entity.CheckIn) error
	GetCheckIn(ctx context.Context, employeeID, date string) (entity.CheckIn, error)
	// ListCheckIns returns matching records ordered by date then employee id.
	ListCheckIns(ctx context.Context, filter CheckInFilter) ([]entity.CheckIn, error)
}

// RewardRepository exposes CRUD operations for the reward catalogue.
type RewardRepository interface {
	CreateReward(ctx context.Context, reward entity.Reward) error
	UpdateReward(ctx context.Context, reward entity.Reward) error
	GetReward(ctx context.Context, id string) (entity.Reward, error)
	ListRewards(ctx context.Context) ([]entity.Reward, error)
	DeleteReward(ctx context.Context, id string) error
}

// GoalFilter narrows goal queries.
type GoalFilter struct {
	EmployeeID string
	Month      string
}

// GoalRepository exposes CRUD operations for monthly goals.
type GoalRepository interface {
	CreateGoal(ctx context.Context, goal entity.Goal) error
	UpdateGoal(ctx context.Context, goal entity.Goal) error
	GetGoal(ctx context.Context, id string) (entity.Goal, error)
	ListGoals(ctx context.Context, filter GoalFilter) ([]entity.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
}

// CredentialRepository stores hashed secrets keyed by employee id.
type CredentialRepository interface {
	// PutCredential inserts or replaces the secret of an employee.
	PutCredential(ctx context.Context, credential entity.Credential) error
	GetCredential(ctx context.Context, employeeID string) (entity.Credential, error)
	DeleteCredential(ctx context.Context, employeeID string) error
}

// RedemptionRepository records points spent on rewards.
type RedemptionRepository interface {
	CreateRedemption(ctx context.Context, redemption entity.Redemption) error
	// ListRedemptions returns the redemptions of employeeID, or every redemption when it is empty.
	ListRedemptions(ctx context.Context, employeeID string) ([]entity.Redemption, error)
}

// CollectionRegistry tracks which collections have received their one-time seed.
type CollectionRegistry interface {
	IsInitialized(ctx context.Context, name string) (bool, error)
	MarkInitialized(ctx context.Context, name string) error
}

// SnapshotReader returns a consistent copy of every collection.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (entity.Snapshot, error)
}
