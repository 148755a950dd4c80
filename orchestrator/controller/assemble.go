package controller

import (
	"context"

	"github.com/quay/zlog"

	"github.com/srcscan/srcscan"
)

// assemble builds each package's NestedProvenanceScanResult from the
// aggregated results map, unioning every scanner's contribution to each
// provenance in the tree, then sorts each result's findings.
func assemble(ctx context.Context, c *Controller) (State, error) {
	c.assembled = make(map[string]srcscan.NestedProvenanceScanResult, len(c.packages))
	for _, p := range c.packages {
		prov := c.provOf[p.ID]
		if !prov.Known() {
			c.assembled[p.ID] = srcscan.NestedProvenanceScanResult{}
			continue
		}
		nested := c.pkgNested[p.ID]
		nr := srcscan.NewNestedProvenanceScanResult(nested)
		for _, q := range nested.All() {
			canon := q.Canonical()
			var all []srcscan.ScanResult
			// Union in configured-scanner order so the assembled result is
			// stable under equal inputs.
			for _, s := range c.Scanners {
				all = append(all, c.results[s.Name()][canon]...)
			}
			nr.ScanResults[q] = all
		}
		nr.SortFindings()
		c.assembled[p.ID] = nr
	}
	return WriteResults, nil
}

// writeResults delivers, for every package that was incomplete at dispatch
// time, its assembled result to every package-keyed writer, regardless of
// whether the incompleteness was ultimately resolved by a package-granular,
// provenance-granular, or local scan.
func writeResults(ctx context.Context, c *Controller) (State, error) {
	for pkgID := range c.incompletePkgIDs {
		nr, ok := c.assembled[pkgID]
		if !ok {
			continue
		}
		pkg := c.pkgByID[pkgID]
		for _, w := range c.Writers {
			if err := w.WriteByPackage(ctx, pkg, nr); err != nil {
				zlog.Info(ctx).Err(err).Str("package", pkgID).Msg("package-keyed write failed")
			}
		}
	}
	return Terminal, nil
}
