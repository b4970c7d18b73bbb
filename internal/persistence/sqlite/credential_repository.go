package sqlite

import (
	"context"
	"time"

	"github.com/example/sereno-rh/internal/entity"
	"github.com/example/sereno-rh/internal/persistence"
)

// CredentialRepository implements persistence.CredentialRepository.
type CredentialRepository struct {
	pool *ConnectionPool
	now  func() time.Time
}

// NewCredentialRepository creates a credential repository backed by pool.
func NewCredentialRepository(pool *ConnectionPool) *CredentialRepository {
	return &CredentialRepository{pool: pool, now: time.Now}
}

// PutCredential inserts or replaces the secret hash of an employee.
func (r *CredentialRepository) PutCredential(ctx context.Context, credential entity.Credential) error {
	if credential.EmployeeID == "" || credential.SecretHash == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO credentials (employee_id, secret_hash, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (employee_id) DO UPDATE SET
			secret_hash = excluded.secret_hash,
			updated_at = excluded.updated_at`,
		credential.EmployeeID, credential.SecretHash, formatTime(r.now()),
	)
	return mapError(err)
}

// GetCredential retrieves the secret hash of an employee.
func (r *CredentialRepository) GetCredential(ctx context.Context, employeeID string) (entity.Credential, error) {
	credential := entity.Credential{EmployeeID: employeeID}
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT secret_hash FROM credentials WHERE employee_id = ?`, employeeID,
	).Scan(&credential.SecretHash)
	if err != nil {
		return entity.Credential{}, mapError(err)
	}
	return credential, nil
}

// DeleteCredential removes the secret of an employee.
func (r *CredentialRepository) DeleteCredential(ctx context.Context, employeeID string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM credentials WHERE employee_id = ?`, employeeID)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}
