package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/custodia-labs/heritage/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/heritage/internal/logger"
)

// Migrate applies every pending up migration of the process schema.
func Migrate(dsn string) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, toPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("initialising migrations: %w", err)
	}
	defer func() {
		sourceErr, dbErr := migrator.Close()
		if sourceErr != nil {
			logger.Warn("closing migration source: %v", sourceErr)
		}
		if dbErr != nil {
			logger.Warn("closing migration database: %v", dbErr)
		}
	}()

	migrator.Log = migrateLogger{}

	current, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d", current)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("Process schema up to date at version %d", current)
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	next, _, _ := migrator.Version()
	logger.Debug("Migrated process schema from version %d to %d", current, next)
	return nil
}

// toPgx5DSN rewrites postgres URLs to the pgx5 scheme golang-migrate expects.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger routes golang-migrate output to the verbose logger.
type migrateLogger struct{}

// Printf implements migrate.Logger.
func (migrateLogger) Printf(format string, args ...any) {
	logger.Debug("migrate: "+strings.TrimSuffix(format, "\n"), args...)
}

// Verbose implements migrate.Logger.
func (migrateLogger) Verbose() bool {
	return logger.IsVerbose()
}
