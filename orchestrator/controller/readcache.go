package controller

import (
	"context"

	"github.com/quay/zlog"
)

// readCache consults, for every (scanner, provenance) pair, the configured
// readers in registration order and stops at the first non-empty result.
// Both reader shapes are tried, since store.Reader embeds both and a
// backend that only meaningfully implements one returns (nil, nil) for the
// other.
func readCache(ctx context.Context, c *Controller) (State, error) {
	for _, s := range c.Scanners {
		name := s.Name()
		crit := s.Criteria()
		for canon, prov := range c.provByCanon {
			if c.covered(name, canon) {
				continue
			}
			for _, r := range c.Readers {
				res, err := r.ReadByProvenance(ctx, prov, crit)
				if err != nil {
					zlog.Info(ctx).Err(err).Str("scanner", name).Str("provenance", canon).
						Msg("provenance-keyed read failed; treating as a miss")
					continue
				}
				if len(res) == 0 {
					continue
				}
				for _, sr := range res {
					c.merge(name, prov, sr)
				}
				break
			}
		}
	}

	// Package-keyed readers: merge by the provenance labels the returned
	// NestedProvenanceScanResult carries; those labels are authoritative.
	for _, p := range c.packages {
		prov := c.provOf[p.ID]
		if !prov.Known() {
			continue
		}
		for _, r := range c.Readers {
			for _, s := range c.Scanners {
				crit := s.Criteria()
				nrs, err := r.ReadByPackage(ctx, p, crit)
				if err != nil {
					zlog.Info(ctx).Err(err).Str("package", p.ID).
						Msg("package-keyed read failed; treating as a miss")
					continue
				}
				for _, nr := range nrs {
					for subProv, srs := range nr.ScanResults {
						canon := subProv.Canonical()
						for _, sr := range srs {
							if !crit.Satisfies(sr.Scanner) {
								continue
							}
							if c.covered(sr.Scanner.Name, canon) {
								continue
							}
							c.merge(sr.Scanner.Name, subProv, sr)
						}
					}
				}
			}
		}
	}

	return DispatchPackage, nil
}
