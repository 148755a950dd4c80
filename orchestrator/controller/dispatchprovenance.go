package controller

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/quay/zlog"
	"golang.org/x/sync/semaphore"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/scanner"
)

var errNoDownloader = errors.New("controller: no downloader configured")

// incompleteProvenances applies the same coverage rule as
// incompletePackages, restricted to a single provenance rather than a whole
// nested tree. Package-granular backends never target a bare provenance, so
// they're excluded here.
func (c *Controller) incompleteProvenances() map[string][]scanner.Backend {
	out := make(map[string][]scanner.Backend)
	for canon := range c.provByCanon {
		for _, s := range c.Scanners {
			if s.Shape() == scanner.ShapePackage {
				continue
			}
			if !c.covered(s.Name(), canon) {
				out[canon] = append(out[canon], s)
			}
		}
	}
	return out
}

type provenanceJob struct {
	canon string
	prov  srcscan.Provenance
	s     scanner.Backend
}

// dispatchProvenance runs, for each incomplete provenance-granular or
// local scanner pairing, the backend (sharing a single download per
// provenance across every local scanner that needs it), merges the result,
// and fans it out to every provenance-keyed writer.
func dispatchProvenance(ctx context.Context, c *Controller) (State, error) {
	incomplete := c.incompleteProvenances()

	var remoteJobs, localJobs []provenanceJob
	needDownload := make(map[string]srcscan.Provenance)
	for canon, scanners := range incomplete {
		prov := c.provByCanon[canon]
		for _, s := range scanners {
			key := s.Name() + "|" + canon
			c.mu.Lock()
			called := c.provenanceCalled[key]
			c.provenanceCalled[key] = true
			c.mu.Unlock()
			if called {
				continue
			}
			switch s.Shape() {
			case scanner.ShapeProvenance:
				remoteJobs = append(remoteJobs, provenanceJob{canon, prov, s})
			case scanner.ShapeLocal:
				localJobs = append(localJobs, provenanceJob{canon, prov, s})
				needDownload[canon] = prov
			}
		}
	}

	if len(needDownload) > 0 {
		root, err := ensureScratchRoot(c.ScratchRoot)
		if err != nil {
			return RunError, err
		}
		// Downloads fan out under a weighted semaphore; each provenance is
		// fetched once no matter how many local scanners want it.
		lim := int64(c.limit())
		sem := semaphore.NewWeighted(lim)
		for canon, prov := range needDownload {
			c.mu.Lock()
			_, have := c.downloadDir[canon]
			_, failed := c.downloadErr[canon]
			if !have && !failed && c.Downloader == nil {
				c.downloadErr[canon] = errNoDownloader
				failed = true
			}
			c.mu.Unlock()
			if have || failed {
				continue
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				return RunError, err
			}
			go func(canon string, prov srcscan.Provenance) {
				defer sem.Release(1)
				dir := filepath.Join(root, "srcscan-"+uuid.New().String())
				err := os.MkdirAll(dir, 0o755)
				if err == nil {
					err = c.Downloader.Download(ctx, prov, dir)
				}
				c.mu.Lock()
				if err != nil {
					c.downloadErr[canon] = err
				} else {
					c.downloadDir[canon] = dir
				}
				c.mu.Unlock()
				if err != nil {
					zlog.Info(ctx).Err(err).Str("provenance", canon).Msg("download failed")
				}
			}(canon, prov)
		}
		if err := sem.Acquire(ctx, lim); err != nil {
			return RunError, err
		}
		sem.Release(lim)
	}

	g, gctx := c.newErrgroup(ctx)
	completions := make(chan srcscan.ScanResult, len(remoteJobs)+len(localJobs))

	for _, j := range remoteJobs {
		j := j
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return context.Cause(gctx)
			default:
			}
			ictx, cancel := c.invocationContext(gctx)
			result, err := j.s.ScanProvenance(ictx, j.prov)
			cancel()
			outcome := "ok"
			if err != nil {
				zlog.Info(gctx).Err(err).Str("scanner", j.s.Name()).Str("provenance", j.canon).
					Msg("provenance-granular scan failed")
				result = srcscan.ErrorResult(j.prov, j.s.Details(), j.s.Name(), err.Error())
				outcome = "error"
			} else {
				result.Provenance = j.prov
			}
			dispatchCounter.WithLabelValues("provenance", outcome).Add(1)
			completions <- result
			return nil
		})
	}
	for _, j := range localJobs {
		j := j
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return context.Cause(gctx)
			default:
			}
			c.mu.Lock()
			derr, failed := c.downloadErr[j.canon]
			dir := c.downloadDir[j.canon]
			c.mu.Unlock()
			if failed {
				dispatchCounter.WithLabelValues("local", "download-error").Add(1)
				completions <- srcscan.ErrorResult(j.prov, j.s.Details(), "Downloader", derr.Error())
				return nil
			}
			ictx, cancel := c.invocationContext(gctx)
			result, err := j.s.ScanPath(ictx, dir)
			cancel()
			outcome := "ok"
			if err != nil {
				zlog.Info(gctx).Err(err).Str("scanner", j.s.Name()).Str("provenance", j.canon).
					Msg("local scan failed")
				result = srcscan.ErrorResult(j.prov, j.s.Details(), j.s.Name(), err.Error())
				outcome = "error"
			} else {
				result.Provenance = j.prov
			}
			dispatchCounter.WithLabelValues("local", outcome).Add(1)
			completions <- result
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
	for result := range completions {
		c.merge(result.Scanner.Name, result.Provenance, result)
		for _, w := range c.Writers {
			if err := w.WriteByProvenance(ctx, result.Provenance, result); err != nil {
				zlog.Info(ctx).Err(err).Str("scanner", result.Scanner.Name).
					Str("provenance", result.Provenance.Canonical()).
					Msg("provenance-keyed write failed")
			}
		}
	}
	<-done

	if werr != nil {
		return RunError, werr
	}
	return Assemble, nil
}
