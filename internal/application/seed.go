package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/metrics"
	"github.com/example/sereno-rh/internal/persistence"
)

// SeedStore is the subset of the store the seeder writes to.
type SeedStore interface {
	persistence.EmployeeRepository
	persistence.CheckInRepository
	persistence.RewardRepository
	persistence.GoalRepository
	persistence.CredentialRepository
	persistence.CollectionRegistry
}

// Seeder loads the demo data into collections that were never initialized.
type Seeder struct {
	store  SeedStore
	hash   SecretHasher
	logger *slog.Logger
}

// NewSeeder wires dependencies for the seeder.
func NewSeeder(store SeedStore, hash SecretHasher, logger *slog.Logger) *Seeder {
	if hash == nil {
		hash = NewSecretHasher(DefaultArgon2idParams)
	}
	return &Seeder{store: store, hash: hash, logger: defaultLogger(logger)}
}

// Seed initializes every collection lacking its marker. Collections already
// marked are left untouched even when empty.
func (s *Seeder) Seed(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("Seeder is nil")
	}
	logger := serviceLogger(ctx, s.logger, "Seeder", "Seed")

	for _, name := range entity.Collections() {
		done, err := s.store.IsInitialized(ctx, name)
		if err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		if done {
			continue
		}

		count, err := s.seedCollection(ctx, name)
		if err != nil {
			logger.ErrorContext(ctx, "seed failed", "collection", name, "error", err)
			return fmt.Errorf("seed %s: %w", name, err)
		}
		if err := s.store.MarkInitialized(ctx, name); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		logger.InfoContext(ctx, "collection seeded", "collection", name, "records", count)
	}
	return nil
}

func (s *Seeder) seedCollection(ctx context.Context, name string) (int, error) {
	count := 0
	insert := func(err error) error {
		switch {
		case err == nil:
			count++
			return nil
		case errors.Is(err, persistence.ErrAlreadyExists), errors.Is(err, persistence.ErrConstraintViolation):
			// Left over from an interrupted seed, or its owner was deleted.
			return nil
		default:
			return err
		}
	}

	switch name {
	case entity.CollectionEmployees:
		for _, e := range SeedEmployees() {
			if err := insert(s.store.CreateEmployee(ctx, e)); err != nil {
				return count, err
			}
		}
	case entity.CollectionCheckIns:
		for _, c := range SeedCheckIns() {
			if err := insert(s.store.CreateCheckIn(ctx, c)); err != nil {
				return count, err
			}
		}
	case entity.CollectionRewards:
		for _, r := range SeedRewards() {
			if err := insert(s.store.CreateReward(ctx, r)); err != nil {
				return count, err
			}
		}
	case entity.CollectionGoals:
		for _, g := range SeedGoals() {
			if err := insert(s.store.CreateGoal(ctx, g)); err != nil {
				return count, err
			}
		}
	case entity.CollectionCredentials:
		secrets := SeedSecrets()
		for _, employeeID := range sortedKeys(secrets) {
			hash, err := s.hash(secrets[employeeID])
			if err != nil {
				return count, fmt.Errorf("hash secret: %w", err)
			}
			if err := insert(s.store.PutCredential(ctx, entity.Credential{EmployeeID: employeeID, SecretHash: hash})); err != nil {
				return count, err
			}
		}
	default:
		return 0, fmt.Errorf("unknown collection %q", name)
	}
	return count, nil
}

// SeedEmployees returns the demo roster.
func SeedEmployees() []entity.Employee {
	return []entity.Employee{
		{ID: "emp-001", Name: "Ana García (Admin)", Email: "admin@serenorh.com", Role: entity.RoleAdmin, Active: true},
		{ID: "emp-002", Name: "Luis Pérez (Empleado)", Email: "empleado@serenorh.com", Role: entity.RoleEmployee, Active: true},
		{ID: "emp-003", Name: "Marta López (Empleado)", Email: "marta.lopez@serenorh.com", Role: entity.RoleEmployee, Active: true},
	}
}

// SeedCheckIns returns the demo attendance of the week of 2024-10-20.
func SeedCheckIns() []entity.CheckIn {
	rows := []struct{ employeeID, date, in, out, duration string }{
		{"emp-001", "2024-10-25", "08:55", "17:05", "8h 10m"},
		{"emp-002", "2024-10-25", "09:05", "18:00", "8h 55m"},
		{"emp-001", "2024-10-24", "09:16", "17:30", "8h 14m"},
		{"emp-003", "2024-10-24", "09:00", "17:00", "8h 00m"},
		{"emp-001", "2024-10-23", "09:01", "17:15", "8h 14m"},
		{"emp-002", "2024-10-23", "09:20", "17:50", "8h 30m"},
		{"emp-003", "2024-10-23", "09:05", "17:10", "8h 05m"},
		{"emp-001", "2024-10-22", "08:50", "17:00", "8h 10m"},
		{"emp-002", "2024-10-22", "09:00", "17:30", "8h 30m"},
		{"emp-003", "2024-10-22", "09:12", "17:20", "8h 08m"},
		{"emp-001", "2024-10-21", "09:00", "17:00", "8h 00m"},
		{"emp-002", "2024-10-21", "08:58", "18:00", "9h 02m"},
		{"emp-003", "2024-10-21", "09:08", "17:15", "8h 07m"},
		{"emp-001", "2024-10-20", "09:10", "17:30", "8h 20m"},
		{"emp-002", "2024-10-20", "09:15", "17:45", "8h 30m"},
		{"emp-003", "2024-10-20", "09:20", "17:40", "8h 20m"},
	}
	out := make([]entity.CheckIn, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.CheckIn{
			EmployeeID:   r.employeeID,
			Date:         r.date,
			CheckinTime:  r.in,
			CheckoutTime: r.out,
			Duration:     r.duration,
			Punctual:     metrics.IsPunctual(r.in),
		})
	}
	return out
}

// SeedRewards returns the demo catalogue.
func SeedRewards() []entity.Reward {
	return []entity.Reward{
		{ID: "rew-001", Name: "Café gratis", PointsRequired: 100, Active: true},
		{ID: "rew-002", Name: "Día libre", PointsRequired: 500, Active: true},
		{ID: "rew-003", Name: "Gift card de $50", PointsRequired: 1000, Active: true},
	}
}

// SeedGoals returns the demo goals.
func SeedGoals() []entity.Goal {
	return []entity.Goal{
		{ID: "goal-001", EmployeeID: "emp-001", Month: "2024-10-01", Description: "Completar curso de React avanzado", Progress: 75},
		{ID: "goal-002", EmployeeID: "emp-002", Month: "2024-10-01", Description: "Liderar proyecto X", Progress: 50},
	}
}

// SeedSecrets returns the plaintext demo secrets keyed by employee id.
func SeedSecrets() map[string]string {
	return map[string]string{
		"emp-001": "admin123",
		"emp-002": "empleado123",
		"emp-003": "martha123",
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
