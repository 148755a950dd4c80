package postgres

import (
	"context"
	"encoding/json"

	"github.com/doug-martin/goqu/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quay/zlog"

	"github.com/srcscan/srcscan"
)

// ReadByPackage implements store.PackageReader.
func (s *Store) ReadByPackage(ctx context.Context, pkg srcscan.Package, criteria srcscan.Criteria) ([]srcscan.NestedProvenanceScanResult, error) {
	const op = "store/postgres.Store.ReadByPackage"
	defer queryCounter.WithLabelValues(op).Inc()
	defer prometheus.NewTimer(queryDuration.WithLabelValues(op)).ObserveDuration()

	sel, args, err := dialect.From("package_result").
		Select("payload", "scanner_name", "scanner_version", "config_fingerprint").
		Where(goqu.Ex{"package_id": pkg.ID}).
		ToSQL()
	if err != nil {
		return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "building query", Inner: err}
	}

	rows, err := s.pool.Query(ctx, sel, args...)
	if err != nil {
		return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "querying package_result", Inner: err}
	}
	defer rows.Close()

	var out []srcscan.NestedProvenanceScanResult
	for rows.Next() {
		var (
			payload                                        []byte
			scannerName, scannerVersion, configFingerprint string
		)
		if err := rows.Scan(&payload, &scannerName, &scannerVersion, &configFingerprint); err != nil {
			return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "scanning row", Inner: err}
		}
		d := srcscan.Details{Name: scannerName, Version: scannerVersion, ConfigFingerprint: configFingerprint}
		if !criteria.Satisfies(d) {
			continue
		}
		var r srcscan.NestedProvenanceScanResult
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "decoding payload", Inner: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "reading rows", Inner: err}
	}
	zlog.Debug(ctx).Str("package", pkg.ID).Int("results", len(out)).Msg("read by package")
	return out, nil
}

// WriteByPackage implements store.PackageWriter.
func (s *Store) WriteByPackage(ctx context.Context, pkg srcscan.Package, result srcscan.NestedProvenanceScanResult) error {
	const op = "store/postgres.Store.WriteByPackage"
	defer queryCounter.WithLabelValues(op).Inc()
	defer prometheus.NewTimer(queryDuration.WithLabelValues(op)).ObserveDuration()

	name, version, fingerprint := scannerIdentityOf(result)

	payload, err := json.Marshal(result)
	if err != nil {
		return &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "encoding result", Inner: err}
	}

	const upsert = `
		INSERT INTO package_result (package_id, scanner_name, scanner_version, config_fingerprint, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (package_id, scanner_name, scanner_version, config_fingerprint)
		DO UPDATE SET payload = EXCLUDED.payload;
	`
	if _, err := s.pool.Exec(ctx, upsert, pkg.ID, name, version, fingerprint, payload); err != nil {
		return &srcscan.Error{Kind: srcscan.ErrStorage, Op: op, Message: "upserting package_result", Inner: err}
	}
	return nil
}

// scannerIdentityOf extracts the scanner identity the row is keyed by: that
// of the first ScanResult found in the tree. When the tree holds results
// from more than one scanner, map iteration order decides which one that is.
func scannerIdentityOf(r srcscan.NestedProvenanceScanResult) (name, version, fingerprint string) {
	for _, results := range r.ScanResults {
		for _, sr := range results {
			return sr.Scanner.Name, sr.Scanner.Version, sr.Scanner.ConfigFingerprint
		}
	}
	return "", "", ""
}
