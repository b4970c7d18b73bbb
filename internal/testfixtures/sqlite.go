package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/sereno-rh/internal/persistence"
	"github.com/example/sereno-rh/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite storage
// instance for integration-style persistence tests.
type SQLiteHarness struct {
	Storage     *sqlite.Storage
	Employees   persistence.EmployeeRepository
	CheckIns    persistence.CheckInRepository
	Rewards     persistence.RewardRepository
	Goals       persistence.GoalRepository
	Credentials persistence.CredentialRepository
	Redemptions persistence.RedemptionRepository
	Registry    persistence.CollectionRegistry
	Snapshots   persistence.SnapshotReader

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	ctx := context.Background()
	path := filepath.Join(tb.TempDir(), "serenorh.db")

	storage, err := sqlite.Open(ctx, path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:     storage,
		Employees:   storage,
		CheckIns:    storage,
		Rewards:     storage,
		Goals:       storage,
		Credentials: storage,
		Redemptions: storage,
		Registry:    storage,
		Snapshots:   storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
