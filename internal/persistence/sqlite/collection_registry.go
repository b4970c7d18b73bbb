package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/example/sereno-rh/internal/persistence"
)

// CollectionRegistry implements persistence.CollectionRegistry. A missing
// marker row means the collection has never been seeded.
type CollectionRegistry struct {
	pool *ConnectionPool
	now  func() time.Time
}

// NewCollectionRegistry creates a registry backed by pool.
func NewCollectionRegistry(pool *ConnectionPool) *CollectionRegistry {
	return &CollectionRegistry{pool: pool, now: time.Now}
}

// IsInitialized reports whether name carries a marker.
func (r *CollectionRegistry) IsInitialized(ctx context.Context, name string) (bool, error) {
	var found string
	err := r.pool.db.QueryRowContext(ctx, `SELECT name FROM collections WHERE name = ?`, name).Scan(&found)
	if err != nil {
		if errors.Is(mapError(err), persistence.ErrNotFound) {
			return false, nil
		}
		return false, mapError(err)
	}
	return true, nil
}

// MarkInitialized records the marker for name. Marking twice is a no-op.
func (r *CollectionRegistry) MarkInitialized(ctx context.Context, name string) error {
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO collections (name, initialized_at) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`,
		name, formatTime(r.now()),
	)
	return mapError(err)
}
