// Package postgres provides a PostgreSQL-backed implementation of
// driven.ProcessHandler over a pgx connection pool.
//
// The schema matches the SQLite store: one table per activity kind and a
// Tool table. golang-migrate applies the embedded scripts when the store is
// opened WithMigrations; otherwise the schema must already exist and the
// role only needs SELECT. The DSN must be a postgres:// URL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/custodia-labs/heritage/internal/adapters/driven/storage/processql"
	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
	"github.com/custodia-labs/heritage/internal/logger"
)

// Ensure ProcessStore implements the interface.
var _ driven.ProcessHandler = (*ProcessStore)(nil)

// DefaultTimeout bounds each query when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Pool settings for a read-only, low-concurrency workload.
const (
	maxConns        = 4
	maxConnIdleTime = 5 * time.Minute
	connectTimeout  = 5 * time.Second
)

// runMigrations applies the schema. Tests replace it.
var runMigrations = Migrate

// ProcessStore is a PostgreSQL-backed implementation of driven.ProcessHandler.
type ProcessStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

type options struct {
	migrate bool
}

// Option configures NewProcessStore.
type Option func(*options)

// WithMigrations creates or upgrades the schema before the pool opens.
// The role needs DDL rights.
func WithMigrations() Option {
	return func(o *options) {
		o.migrate = true
	}
}

// NewProcessStore opens a pool and checks that the database answers. A zero
// timeout uses DefaultTimeout.
func NewProcessStore(ctx context.Context, dsn string, timeout time.Duration, opts ...Option) (*ProcessStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty postgres dsn", domain.ErrInvalidInput)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing postgres dsn: %v", domain.ErrInvalidInput, err)
	}
	config.MaxConns = maxConns
	config.MaxConnIdleTime = maxConnIdleTime
	config.ConnConfig.ConnectTimeout = connectTimeout

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.migrate {
		if err := runMigrations(dsn); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", domain.ErrEndpointUnavailable, err)
	}

	logger.Debug("Opened PostgreSQL process store %s@%s", config.ConnConfig.User, config.ConnConfig.Host)
	return &ProcessStore{pool: pool, timeout: timeout}, nil
}

// Close releases the pool.
func (s *ProcessStore) Close() error {
	s.pool.Close()
	return nil
}

// query runs q under the store timeout and scans the activity rows.
func (s *ProcessStore) query(ctx context.Context, op string, q processql.Query) ([]domain.ActivityRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result, err := processql.ScanActivities(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Debug("postgres %s: %d rows", op, len(result))
	return result, nil
}

// GetByID returns the activities on any of the objects.
func (s *ProcessStore) GetByID(ctx context.Context, objectIDs []string) ([]domain.ActivityRow, error) {
	if len(objectIDs) == 0 {
		return []domain.ActivityRow{}, nil
	}
	return s.query(ctx, "querying activities by object", processql.Postgres.ByObjects(objectIDs))
}

// GetAllActivities returns every activity.
func (s *ProcessStore) GetAllActivities(ctx context.Context) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying all activities", processql.Postgres.All())
}

// GetActivitiesByResponsibleInstitution matches the institute by substring.
func (s *ProcessStore) GetActivitiesByResponsibleInstitution(
	ctx context.Context, partialName string,
) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities by institution", processql.Postgres.InstituteLike(partialName))
}

// GetActivitiesByResponsiblePerson matches the responsible person by substring.
func (s *ProcessStore) GetActivitiesByResponsiblePerson(
	ctx context.Context, partialName string,
) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities by person", processql.Postgres.PersonLike(partialName))
}

// GetActivitiesUsingTool matches any tool by substring.
func (s *ProcessStore) GetActivitiesUsingTool(ctx context.Context, partialName string) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities by tool", processql.Postgres.ToolLike(partialName))
}

// GetActivitiesStartedAfter returns activities starting on or after date.
func (s *ProcessStore) GetActivitiesStartedAfter(ctx context.Context, date string) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities started after", processql.Postgres.StartedAfter(date))
}

// GetActivitiesEndedBefore returns activities ending on or before date.
func (s *ProcessStore) GetActivitiesEndedBefore(ctx context.Context, date string) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying activities ended before", processql.Postgres.EndedBefore(date))
}

// GetAcquisitionsByTechnique matches acquisition techniques by substring.
func (s *ProcessStore) GetAcquisitionsByTechnique(ctx context.Context, partialName string) ([]domain.ActivityRow, error) {
	return s.query(ctx, "querying acquisitions by technique", processql.Postgres.TechniqueLike(partialName))
}
