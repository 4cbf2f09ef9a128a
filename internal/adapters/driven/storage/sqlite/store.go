package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/heritage/internal/adapters/driven/storage/processql"
	"github.com/custodia-labs/heritage/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
	"github.com/custodia-labs/heritage/internal/logger"
)

// Ensure ProcessStore implements the interface.
var _ driven.ProcessHandler = (*ProcessStore)(nil)

// DefaultTimeout bounds each query when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ProcessStore is a SQLite-backed implementation of driven.ProcessHandler.
type ProcessStore struct {
	db      *sql.DB
	path    string
	timeout time.Duration
}

// NewProcessStore opens the existing process database at path read-only.
// The file must exist and hold the process schema; see Bootstrap. A zero
// timeout uses DefaultTimeout.
func NewProcessStore(path string, timeout time.Duration) (*ProcessStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrInvalidInput)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: process database %s: %w", domain.ErrInvalidInput, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: process database %s is a directory", domain.ErrInvalidInput, path)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &ProcessStore{
		db:      db,
		path:    path,
		timeout: timeout,
	}

	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("Opened SQLite process store %s", path)
	return s, nil
}

// Bootstrap creates the database at path if needed and brings its schema
// up to date. Parent directories are created.
func Bootstrap(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty database path", domain.ErrInvalidInput)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := migrate(db, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	logger.Debug("Bootstrapped SQLite process schema in %s", path)
	return nil
}

// Close closes the database connection.
func (s *ProcessStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *ProcessStore) Path() string {
	return s.path
}

// readOnlyDSN builds a SQLite URI opening path without write access.
func readOnlyDSN(path string) string {
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(filepath.ToSlash(path))
	return "file:" + escaped + "?mode=ro&_pragma=busy_timeout(5000)"
}

// checkSchema fails unless every process table is present.
func (s *ProcessStore) checkSchema() error {
	tables := []any{"Tool"}
	for _, k := range domain.ActivityKinds() {
		tables = append(tables, string(k))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(tables)), ", ")

	var found int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ("+placeholders+")",
		tables...,
	).Scan(&found)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidInput, s.path, err)
	}
	if found != len(tables) {
		return fmt.Errorf("%w: %s has no process schema", domain.ErrInvalidInput, s.path)
	}
	return nil
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_process_schema.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := apply(db, version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply executes one migration and records its version atomically.
func apply(db *sql.DB, version int, script string) error {
	tx, err := db.Begin()
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

// query runs q under the store timeout and scans the activity rows.
func (s *ProcessStore) query(ctx context.Context, op string, q processql.Query) ([]domain.ActivityRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result, err := processql.ScanActivities(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Debug("sqlite %s: %d rows", op, len(result))
	return result, nil
}

// GetByID returns the activities on any of the objects.
func (s *ProcessStore) GetByID(ctx context.Context, objectIDs []string) ([]domain.ActivityRow, error) {
	if len(objectIDs) == 0 {
		return []domain.ActivityRow{}, nil
	}
	return s.query(ctx, "querying activities by object", processql.SQLite.ByObjects(objectIDs))
}

// GetAllActivities returns every activity.
func (s *ProcessStore) GetAllActivities(ctx context.Context) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying all activities", processql.SQLite.All())
}

// GetActivitiesByResponsibleInstitution matches the institute by substring.
func (s *ProcessStore) GetActivitiesByResponsibleInstitution(
	ctx context.Context, partialName string,
) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities by institution", processql.SQLite.InstituteLike(partialName))
}

// GetActivitiesByResponsiblePerson matches the responsible person by substring.
func (s *ProcessStore) GetActivitiesByResponsiblePerson(
	ctx context.Context, partialName string,
) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities by person", processql.SQLite.PersonLike(partialName))
}

// GetActivitiesUsingTool matches any tool by substring.
func (s *ProcessStore) GetActivitiesUsingTool(ctx context.Context, partialName string) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities by tool", processql.SQLite.ToolLike(partialName))
}

// GetActivitiesStartedAfter returns activities starting on or after date.
func (s *ProcessStore) GetActivitiesStartedAfter(ctx context.Context, date string) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities started after", processql.SQLite.StartedAfter(date))
}

// GetActivitiesEndedBefore returns activities ending on or before date.
func (s *ProcessStore) GetActivitiesEndedBefore(ctx context.Context, date string) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities ended before", processql.SQLite.EndedBefore(date))
}

// GetAcquisitionsByTechnique matches acquisition techniques by substring.
func (s *ProcessStore) GetAcquisitionsByTechnique(ctx context.Context, partialName string) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying acquisitions by technique", processql.SQLite.TechniqueLike(partialName))
}
