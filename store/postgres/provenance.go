package postgres

import (
	"context"
	"encoding/json"

	"github.com/doug-martin/goqu/v8"
	_ "github.com/doug-martin/goqu/v8/dialect/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quay/zlog"

	"github.com/srcscan/srcscan"
)

var dialect = goqu.Dialect("postgres")

// ReadByProvenance implements store.ProvenanceReader.
func (s *Store) ReadByProvenance(ctx context.Context, known srcscan.Provenance, criteria srcscan.Criteria) ([]srcscan.ScanResult, error) {
	const op = "store/postgres.Store.ReadByProvenance"
	defer queryCounter.WithLabelValues(op).Inc()
	defer prometheus.NewTimer(queryDuration.WithLabelValues(op)).ObserveDuration()

	sel, args, err := dialect.From("provenance_result").
		Select("payload").
		Where(goqu.Ex{"provenance_key": known.Canonical()}).
		ToSQL()
	if err != nil {
		return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "building query", Inner: err}
	}

	rows, err := s.pool.Query(ctx, sel, args...)
	if err != nil {
		return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "querying provenance_result", Inner: err}
	}
	defer rows.Close()

	var out []srcscan.ScanResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "scanning row", Inner: err}
		}
		var r srcscan.ScanResult
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "decoding payload", Inner: err}
		}
		if criteria.Satisfies(r.Scanner) {
			out = append(out, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "reading rows", Inner: err}
	}
	zlog.Debug(ctx).Str("provenance", known.Canonical()).Int("results", len(out)).Msg("read by provenance")
	return out, nil
}

// WriteByProvenance implements store.ProvenanceWriter. It's idempotent: the
// upsert replaces any existing row for the same (provenance, scanner name,
// scanner version, config fingerprint) tuple, so writing the same result
// twice converges rather than duplicating it.
func (s *Store) WriteByProvenance(ctx context.Context, known srcscan.Provenance, result srcscan.ScanResult) error {
	const op = "store/postgres.Store.WriteByProvenance"
	defer queryCounter.WithLabelValues(op).Inc()
	defer prometheus.NewTimer(queryDuration.WithLabelValues(op)).ObserveDuration()

	payload, err := json.Marshal(result)
	if err != nil {
		return &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "encoding result", Inner: err}
	}

	const upsert = `
		INSERT INTO provenance_result (provenance_key, scanner_name, scanner_version, config_fingerprint, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provenance_key, scanner_name, scanner_version, config_fingerprint)
		DO UPDATE SET payload = EXCLUDED.payload;
	`
	ct, err := s.pool.Exec(ctx, upsert,
		known.Canonical(), result.Scanner.Name, result.Scanner.Version, result.Scanner.ConfigFingerprint, payload)
	if err != nil {
		return &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "upserting provenance_result", Inner: err}
	}
	zlog.Debug(ctx).Str("provenance", known.Canonical()).Int64("rows", ct.RowsAffected()).Msg("wrote by provenance")
	return nil
}
