package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var migrationNamePattern = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.sql$`)

var (
	// ErrChecksumMismatch is returned when an applied migration file has been edited.
	ErrChecksumMismatch = errors.New("sqlite: migration checksum mismatch")
	// ErrInvalidMigrationName is returned for files not named {version}_{description}.sql.
	ErrInvalidMigrationName = errors.New("sqlite: invalid migration file name")
)

// Migration is one versioned schema change.
type Migration struct {
	Version     int
	Description string
	SQL         string
	Checksum    string
}

// AppliedMigration is a row of the schema_migrations table.
type AppliedMigration struct {
	Version   int
	Checksum  string
	AppliedAt time.Time
}

// LoadMigrations parses the embedded migration files ordered by version.
func LoadMigrations() ([]Migration, error) {
	return loadMigrations(migrationFiles, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("sqlite: read migrations: %w", err)
	}

	seen := make(map[int]string, len(entries))
	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		match := migrationNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMigrationName, entry.Name())
		}
		version, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMigrationName, entry.Name())
		}
		if other, ok := seen[version]; ok {
			return nil, fmt.Errorf("sqlite: duplicate migration version %d in %s and %s", version, other, entry.Name())
		}
		seen[version] = entry.Name()

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("sqlite: read migration %s: %w", entry.Name(), err)
		}
		sum := sha256.Sum256(content)
		migrations = append(migrations, Migration{
			Version:     version,
			Description: strings.ReplaceAll(match[2], "_", " "),
			SQL:         string(content),
			Checksum:    hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// splitStatements drops comment lines and splits the script on semicolons.
func splitStatements(script string) []string {
	var body strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}

	statements := make([]string, 0)
	for _, stmt := range strings.Split(body.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

const createVersionTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version      INTEGER PRIMARY KEY,
    description  TEXT NOT NULL,
    checksum     TEXT NOT NULL,
    applied_at   TEXT NOT NULL
)`

// runMigrations applies every pending migration, each in its own transaction.
func runMigrations(ctx context.Context, pool *ConnectionPool, migrations []Migration, logger *slog.Logger) error {
	if _, err := pool.db.ExecContext(ctx, createVersionTable); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations: %w", err)
	}

	applied, err := appliedMigrations(ctx, pool.db)
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range migrations {
		if prior, ok := applied[m.Version]; ok {
			if prior.Checksum != m.Checksum {
				return fmt.Errorf("%w: version %d", ErrChecksumMismatch, m.Version)
			}
			continue
		}
		pending++

		started := time.Now()
		err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			for i, stmt := range splitStatements(m.SQL) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("statement %d: %w", i+1, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, description, checksum, applied_at) VALUES (?, ?, ?, ?)`,
				m.Version, m.Description, m.Checksum, formatTime(time.Now()),
			)
			return err
		})
		if err != nil {
			logger.Error("migration failed", "version", m.Version, "error", err)
			return fmt.Errorf("sqlite: apply migration %03d_%s: %w", m.Version, m.Description, err)
		}
		logger.Info("migration applied", "version", m.Version, "description", m.Description, "duration", time.Since(started))
	}

	if pending == 0 {
		logger.Debug("schema up to date", "migrations", len(migrations))
	}
	return nil
}

func appliedMigrations(ctx context.Context, q queryer) (map[int]AppliedMigration, error) {
	rows, err := q.QueryContext(ctx, `SELECT version, checksum, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]AppliedMigration)
	for rows.Next() {
		var (
			m         AppliedMigration
			appliedAt string
		)
		if err := rows.Scan(&m.Version, &m.Checksum, &appliedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan applied migration: %w", err)
		}
		if m.AppliedAt, err = parseTime(appliedAt); err != nil {
			return nil, err
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}
