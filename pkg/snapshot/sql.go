package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/platinummonkey/visual/pkg/param"
	"github.com/platinummonkey/visual/pkg/verrors"
)

// SQL dialects understood by SQLStore. They double as database/sql driver
// names.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

// SQLStore keeps manifests in a param_snapshots table
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// OpenSQLStore opens dsn with the driver for dialect and prepares the table
func OpenSQLStore(ctx context.Context, dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	store, err := NewSQLStore(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore wraps an open database and ensures the table exists
func NewSQLStore(ctx context.Context, db *sql.DB, dialect string) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported SQL dialect %q", dialect)
	}

	store := &SQLStore{db: db, dialect: dialect}
	if err := store.ensureTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure param_snapshots table: %w", err)
	}
	return store, nil
}

func (s *SQLStore) ensureTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS param_snapshots (
		name VARCHAR(255) PRIMARY KEY,
		manifest TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// bind returns the placeholder for the n-th argument
func (s *SQLStore) bind(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Save stores m under name, replacing any earlier snapshot
func (s *SQLStore) Save(ctx context.Context, name string, m *param.Manifest) (err error) {
	defer func() { recordSave(err) }()

	data, err := param.EncodeManifest(m)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO param_snapshots (name, manifest, updated_at)
		VALUES (%s, %s, %s)
		ON CONFLICT (name) DO UPDATE SET
			manifest = excluded.manifest,
			updated_at = excluded.updated_at`,
		s.bind(1), s.bind(2), s.bind(3))

	if _, err := s.db.ExecContext(ctx, query, name, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot saved under name
func (s *SQLStore) Load(ctx context.Context, name string) (m *param.Manifest, err error) {
	defer func() { recordLoad(err) }()

	query := fmt.Sprintf(`SELECT manifest FROM param_snapshots WHERE name = %s`, s.bind(1))

	var data string
	err = s.db.QueryRowContext(ctx, query, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %q: %w", name, verrors.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	m, err = param.ParseManifest([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	return m, nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}
