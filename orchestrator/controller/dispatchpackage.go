package controller

import (
	"context"

	"github.com/quay/zlog"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/scanner"
	"github.com/srcscan/srcscan/splitter"
)

// incompletePackages computes the incomplete set: a package is incomplete
// for a scanner iff any provenance in its nested tree (root included)
// isn't yet covered by that scanner.
func (c *Controller) incompletePackages() map[string][]scanner.Backend {
	out := make(map[string][]scanner.Backend)
	for _, p := range c.packages {
		prov := c.provOf[p.ID]
		if !prov.Known() {
			continue
		}
		nested := c.pkgNested[p.ID]
		for _, s := range c.Scanners {
			for _, q := range nested.All() {
				if !c.covered(s.Name(), q.Canonical()) {
					out[p.ID] = append(out[p.ID], s)
					break
				}
			}
		}
	}
	return out
}

type packageJob struct {
	pkg    srcscan.Package
	s      scanner.Backend
	nested srcscan.NestedProvenance
}

// dispatchPackage computes the incomplete-package set (recorded for the
// final writer fan-out), then concurrently invokes every package-granular
// backend still owed a scan, splitting each result across its package's
// nested tree and merging the slices through the single-owner aggregator.
func dispatchPackage(ctx context.Context, c *Controller) (State, error) {
	incomplete := c.incompletePackages()
	c.incompletePkgIDs = make(map[string]bool, len(incomplete))
	for pkgID := range incomplete {
		c.incompletePkgIDs[pkgID] = true
	}

	var jobs []packageJob
	for pkgID, scanners := range incomplete {
		pkg := c.pkgByID[pkgID]
		for _, s := range scanners {
			if s.Shape() != scanner.ShapePackage {
				continue
			}
			key := s.Name() + "|" + pkgID
			c.mu.Lock()
			called := c.packageCalled[key]
			c.packageCalled[key] = true
			c.mu.Unlock()
			if called {
				continue
			}
			jobs = append(jobs, packageJob{pkg: pkg, s: s, nested: c.pkgNested[pkgID]})
		}
	}

	g, gctx := c.newErrgroup(ctx)
	completions := make(chan map[srcscan.Provenance]srcscan.ScanResult, len(jobs))
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return context.Cause(gctx)
			default:
			}
			ictx, cancel := c.invocationContext(gctx)
			result, err := j.s.ScanPackage(ictx, j.pkg)
			cancel()
			outcome := "ok"
			if err != nil {
				zlog.Info(gctx).Err(err).Str("scanner", j.s.Name()).Str("package", j.pkg.ID).
					Msg("package-granular scan failed")
				result = srcscan.ErrorResult(c.provOf[j.pkg.ID], j.s.Details(), j.s.Name(), err.Error())
				outcome = "error"
			}
			dispatchCounter.WithLabelValues("package", outcome).Add(1)
			completions <- splitter.Split(result, j.nested)
			return nil
		})
	}

	var werr error
	done := make(chan struct{})
	go func() {
		werr = g.Wait()
		close(completions)
		close(done)
	}()
	for slices := range completions {
		for prov, sr := range slices {
			c.merge(sr.Scanner.Name, prov, sr)
		}
	}
	<-done

	if werr != nil {
		return RunError, werr
	}
	return DispatchProvenance, nil
}
