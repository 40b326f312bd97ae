package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/agsi-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
	"github.com/custodia-labs/agsi-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// DatabaseFile is the catalog file name inside the data directory.
const DatabaseFile = "catalog.db"

// Store is a SQLite-backed document catalog.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the catalog in dataDir.
// If dataDir is empty, defaults to ~/.agsi/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".agsi", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Debug("opened catalog %s", dbPath)

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every NNN_name.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		logger.Debug("applied catalog migration %s", name)
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// Version returns the highest applied migration.
func (s *Store) Version(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// Put stores or replaces an entry and its payload.
func (s *Store) Put(ctx context.Context, entry domain.CatalogEntry, payload []byte) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: empty catalog id", domain.ErrInvalidInput)
	}
	if payload == nil {
		payload = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog (id, name, author, schema_version, model_count, material_count,
			checksum, size, stored_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			author = excluded.author,
			schema_version = excluded.schema_version,
			model_count = excluded.model_count,
			material_count = excluded.material_count,
			checksum = excluded.checksum,
			size = excluded.size,
			stored_at = excluded.stored_at,
			payload = excluded.payload
	`, entry.ID, entry.Name, entry.Author, entry.SchemaVersion.String(),
		entry.ModelCount, entry.MaterialCount, entry.Checksum, entry.Size,
		entry.StoredAt.UTC().UnixNano(), payload)
	if err != nil {
		return fmt.Errorf("saving catalog entry: %w", err)
	}
	return nil
}

// Get retrieves an entry and its payload.
func (s *Store) Get(ctx context.Context, id string) (*domain.CatalogEntry, []byte, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, author, schema_version, model_count, material_count,
			checksum, size, stored_at, payload
		FROM catalog WHERE id = ?
	`, id)

	var payload []byte
	entry, err := scanEntry(row, &payload)
	if err != nil {
		return nil, nil, err
	}
	return entry, payload, nil
}

// List returns all entries ordered by ID, without payloads.
func (s *Store) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, author, schema_version, model_count, material_count,
			checksum, size, stored_at
		FROM catalog ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var out []domain.CatalogEntry
	for rows.Next() {
		entry, err := scanEntry(rows, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

// Delete removes an entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM catalog WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting catalog entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting catalog entry: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry scans one catalog row. The payload column is read only when payload is non-nil.
func scanEntry(row scanner, payload *[]byte) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	var version string
	var storedAt int64

	dest := []any{&entry.ID, &entry.Name, &entry.Author, &version, &entry.ModelCount,
		&entry.MaterialCount, &entry.Checksum, &entry.Size, &storedAt}
	if payload != nil {
		dest = append(dest, payload)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning catalog entry: %w", err)
	}

	v, err := domain.ParseSchemaVersion(version)
	if err != nil {
		return nil, fmt.Errorf("catalog entry %s: %w", entry.ID, err)
	}
	entry.SchemaVersion = v
	entry.StoredAt = time.Unix(0, storedAt).UTC()
	return &entry, nil
}
