package postgres

import (
	"context"
	"fmt"
)

// schema holds the two tables the store needs. Init applies it; the
// statements are idempotent, so re-running Init against a provisioned
// database is safe.
const schema = `
CREATE TABLE IF NOT EXISTS provenance_result (
	provenance_key       text NOT NULL,
	scanner_name         text NOT NULL,
	scanner_version      text NOT NULL,
	config_fingerprint   text NOT NULL DEFAULT '',
	payload              jsonb NOT NULL,
	PRIMARY KEY (provenance_key, scanner_name, scanner_version, config_fingerprint)
);

CREATE TABLE IF NOT EXISTS package_result (
	package_id           text NOT NULL,
	scanner_name         text NOT NULL,
	scanner_version      text NOT NULL,
	config_fingerprint   text NOT NULL DEFAULT '',
	payload              jsonb NOT NULL,
	PRIMARY KEY (package_id, scanner_name, scanner_version, config_fingerprint)
);
`

// Init creates the store's tables if they don't exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store/postgres: applying schema: %w", err)
	}
	return nil
}
