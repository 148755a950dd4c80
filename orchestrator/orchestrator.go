// Package orchestrator is the top-level entry point for the scan-
// orchestration engine: given a set of packages, it resolves their
// provenances, decomposes those provenances into nested trees, consults
// configured storage, dispatches scanner backends only for what's missing,
// downloads sources on demand, and assembles per-package nested result
// trees. It is a thin, validated entry point that builds a fresh
// controller.Controller per Scan call.
package orchestrator

import (
	"context"
	"os"
	"time"

	"github.com/quay/zlog"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/download"
	"github.com/srcscan/srcscan/orchestrator/controller"
	"github.com/srcscan/srcscan/resolver"
	"github.com/srcscan/srcscan/scanner"
	"github.com/srcscan/srcscan/store"
)

// DefaultConcurrency is a suggested Config.Concurrency value. New and Scan
// do not consult it: a zero Config.Concurrency means GOMAXPROCS.
const DefaultConcurrency = 8

// Config holds an Orchestrator's collaborators: scanner backends, the
// provenance and nested-provenance resolvers, the downloader, and the
// configured storage readers/writers.
type Config struct {
	// Scanners is the set of configured scanner backends. At least one is
	// required; New fails with ErrConfig otherwise.
	Scanners []scanner.Backend
	// Resolver resolves a package's descriptors to a Provenance. Defaults to
	// resolver.PassthroughResolver{} if nil.
	Resolver resolver.Resolver
	// NestedResolver resolves a Provenance's sub-repository tree. Defaults
	// to resolver.NoSubmodulesResolver{} if nil.
	NestedResolver resolver.NestedResolver
	// Downloader materializes a KnownProvenance locally for local-shaped
	// scanners. May be nil if no local-shaped scanners are configured.
	Downloader download.Downloader
	// Readers and Writers are the configured storage backends, consulted
	// and invoked in registration order.
	Readers []store.Reader
	Writers []store.Writer
	// Priority is the origin-kind priority list passed to Resolver.Resolve.
	// Defaults to resolver.DefaultPriority if nil.
	Priority []resolver.Origin
	// Concurrency bounds in-flight backend invocations per dispatch phase.
	// Zero means GOMAXPROCS.
	Concurrency int
	// ScanTimeout bounds a single backend invocation. Zero means no bound.
	// A timed-out invocation yields an error result, not a run abort.
	ScanTimeout srcscan.Duration
	// ScratchRoot is the base directory local-scanner scratch downloads are
	// created under. Defaults to os.TempDir() if empty.
	ScratchRoot string
	// Options is the free-form scanner- and downloader-configuration
	// mapping: `<scannerName>.criteria.<property>` keys adjust a scanner's
	// cache-lookup criteria, and `sourceCodeOrigins` overrides Priority.
	Options map[string]any
}

// Orchestrator is the validated, ready-to-run engine. Construct one with
// New; it may be reused across any number of Scan calls, each an
// independently de-duplicated run.
type Orchestrator struct {
	cfg Config
}

// New validates cfg and applies defaults, failing synchronously with an
// ErrConfig error if no scanner backends are configured.
func New(ctx context.Context, cfg Config) (*Orchestrator, error) {
	if len(cfg.Scanners) == 0 {
		return nil, &srcscan.Error{
			Kind:    srcscan.ErrConfig,
			Op:      "orchestrator.New",
			Message: "no scanner backends configured",
		}
	}
	if cfg.Resolver == nil {
		cfg.Resolver = resolver.PassthroughResolver{}
	}
	if cfg.NestedResolver == nil {
		cfg.NestedResolver = resolver.NoSubmodulesResolver{}
	}
	if cfg.Priority == nil {
		cfg.Priority = resolver.DefaultPriority
	}
	if cfg.ScratchRoot == "" {
		cfg.ScratchRoot = os.TempDir()
	}
	cfg.Scanners = parseScannerConfig(cfg.Options, cfg.Scanners)
	if origins, ok := parseSourceCodeOrigins(cfg.Options); ok {
		cfg.Priority = origins
	}
	zlog.Info(ctx).Int("scanners", len(cfg.Scanners)).Msg("orchestrator constructed")
	return &Orchestrator{cfg: cfg}, nil
}

// Scan runs the full pipeline over packages, returning the nested result
// tree produced for each. A package resolving to an Unknown provenance is
// present in the output with a zero NestedProvenanceScanResult.
//
// Each call starts a fresh, independently de-duplicated run: the same
// package scanned twice across two Scan calls may invoke a scanner twice,
// since de-duplication is a per-run guarantee, not a lifetime-of-the-
// Orchestrator one.
func (o *Orchestrator) Scan(ctx context.Context, packages []srcscan.Package) (map[string]srcscan.NestedProvenanceScanResult, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "orchestrator.Orchestrator.Scan")
	if len(packages) == 0 {
		return map[string]srcscan.NestedProvenanceScanResult{}, nil
	}

	cfg := &controller.Config{
		Scanners:       o.cfg.Scanners,
		Resolver:       o.cfg.Resolver,
		NestedResolver: o.cfg.NestedResolver,
		Downloader:     o.cfg.Downloader,
		Readers:        o.cfg.Readers,
		Writers:        o.cfg.Writers,
		Priority:       o.cfg.Priority,
		Concurrency:    o.cfg.Concurrency,
		ScanTimeout:    time.Duration(o.cfg.ScanTimeout),
		ScratchRoot:    o.cfg.ScratchRoot,
	}
	c := controller.New(cfg, packages)
	return c.Run(ctx)
}
