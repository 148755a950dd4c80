// Package postgres implements store.Store against a PostgreSQL database,
// using pgx/v5 for the connection pool and goqu for building the read
// queries. The queries select by provenance key or package ID; scanner
// criteria are applied to the fetched rows in Go.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quay/zlog"

	"github.com/srcscan/srcscan/store"
)

var (
	queryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "srcscan",
			Subsystem: "store",
			Name:      "queries_total",
			Help:      "Total number of database queries issued by the postgres store, by method.",
		},
		[]string{"query"},
	)
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "srcscan",
			Subsystem: "store",
			Name:      "query_duration_seconds",
			Help:      "The duration of database queries issued by the postgres store, by method.",
		},
		[]string{"query"},
	)
)

// Store is the postgres-backed store.Store implementation.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Connect initializes a pgxpool.Pool for the given connection string and
// wraps it in a Store.
func Connect(ctx context.Context, connString, applicationName string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("store/postgres: parsing connection string: %w", err)
	}
	const appNameKey = `application_name`
	if _, ok := cfg.ConnConfig.RuntimeParams[appNameKey]; !ok {
		cfg.ConnConfig.RuntimeParams[appNameKey] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store/postgres: creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store/postgres: pinging database: %w", err)
	}

	zlog.Info(ctx).Str("application", applicationName).Msg("connected to postgres")
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an already-constructed pool, for callers that manage
// pool lifecycle themselves (tests, or a process sharing one pool across
// several stores).
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close implements store.Store.
func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}
