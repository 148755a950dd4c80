// Package controller implements the orchestrator's main algorithm as a
// finite-state machine. The states are scoped to a whole run (a batch of
// packages) rather than to a single package, since coverage and
// de-duplication are defined over sets of packages and provenances.
package controller

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quay/zlog"
	"golang.org/x/sync/errgroup"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/download"
	"github.com/srcscan/srcscan/resolver"
	"github.com/srcscan/srcscan/scanner"
	"github.com/srcscan/srcscan/store"
)

// State names a step of the run FSM.
type State int

// Run states, in pipeline order.
const (
	Terminal State = iota
	ResolveProvenance
	ResolveNested
	ReadCache
	DispatchPackage
	DispatchProvenance
	Assemble
	WriteResults
	RunError
)

func (s State) String() string {
	switch s {
	case Terminal:
		return "terminal"
	case ResolveProvenance:
		return "resolve-provenance"
	case ResolveNested:
		return "resolve-nested"
	case ReadCache:
		return "read-cache"
	case DispatchPackage:
		return "dispatch-package"
	case DispatchProvenance:
		return "dispatch-provenance"
	case Assemble:
		return "assemble"
	case WriteResults:
		return "write-results"
	case RunError:
		return "run-error"
	default:
		return "invalid"
	}
}

// stateFunc implements one FSM step. Returning an error halts the run;
// returning Terminal ends it successfully.
type stateFunc func(context.Context, *Controller) (State, error)

var stateToStateFunc = map[State]stateFunc{
	ResolveProvenance:  resolveProvenance,
	ResolveNested:      resolveNested,
	ReadCache:          readCache,
	DispatchPackage:    dispatchPackage,
	DispatchProvenance: dispatchProvenance,
	Assemble:           assemble,
	WriteResults:       writeResults,
}

var startState = ResolveProvenance

var dispatchCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "srcscan",
		Subsystem: "controller",
		Name:      "scans_dispatched_total",
		Help:      "Total scanner invocations dispatched by the orchestrator, by shape and outcome.",
	},
	[]string{"shape", "outcome"},
)

// Config holds the collaborators a Controller dispatches across for the
// lifetime of one run. It's supplied by the top-level orchestrator package
// and never mutated once a run starts.
type Config struct {
	Scanners       []scanner.Backend
	Resolver       resolver.Resolver
	NestedResolver resolver.NestedResolver
	Downloader     download.Downloader
	Readers        []store.Reader
	Writers        []store.Writer
	Priority       []resolver.Origin
	// Concurrency bounds in-flight backend invocations per dispatch state.
	// Zero means GOMAXPROCS.
	Concurrency int
	// ScanTimeout bounds a single backend invocation. Zero means no bound.
	// A timed-out invocation yields an error result, not a run abort.
	ScanTimeout time.Duration
	// ScratchRoot is the base directory local-scanner scratch downloads are
	// created under.
	ScratchRoot string
}

// Controller drives one run of the algorithm over a fixed batch of
// packages. Construct a fresh one per Scan call; it is not safe to reuse
// across runs or to share between goroutines.
type Controller struct {
	*Config

	packages []srcscan.Package
	pkgByID  map[string]srcscan.Package

	// mu guards every field below: the controller is the sole mutator of
	// the aggregated results map, and concurrent dispatch goroutines only
	// ever touch these through the locked helpers.
	mu               sync.Mutex
	provOf           map[string]srcscan.Provenance
	pkgNested        map[string]srcscan.NestedProvenance
	provByCanon      map[string]srcscan.Provenance
	results          map[string]map[string][]srcscan.ScanResult
	packageCalled    map[string]bool
	provenanceCalled map[string]bool
	downloadDir      map[string]string
	downloadErr      map[string]error
	incompletePkgIDs map[string]bool
	assembled        map[string]srcscan.NestedProvenanceScanResult

	currentState State
}

// New constructs a Controller for one run over packages.
func New(cfg *Config, packages []srcscan.Package) *Controller {
	pkgByID := make(map[string]srcscan.Package, len(packages))
	for _, p := range packages {
		pkgByID[p.ID] = p
	}
	return &Controller{
		Config:           cfg,
		packages:         packages,
		pkgByID:          pkgByID,
		provOf:           make(map[string]srcscan.Provenance, len(packages)),
		pkgNested:        make(map[string]srcscan.NestedProvenance, len(packages)),
		provByCanon:      make(map[string]srcscan.Provenance),
		results:          make(map[string]map[string][]srcscan.ScanResult),
		packageCalled:    make(map[string]bool),
		provenanceCalled: make(map[string]bool),
		downloadDir:      make(map[string]string),
		downloadErr:      make(map[string]error),
		currentState:     startState,
	}
}

// Run executes each stateFunc in turn until Terminal or an error, then
// returns the assembled per-package nested results.
func (c *Controller) Run(ctx context.Context) (map[string]srcscan.NestedProvenanceScanResult, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "orchestrator/controller/Controller.Run")
	zlog.Info(ctx).Int("packages", len(c.packages)).Msg("starting run")

	var err error
	for err == nil && c.currentState != Terminal && c.currentState != RunError {
		stepCtx := zlog.ContextWithValues(ctx, "state", c.currentState.String())
		var next State
		next, err = stateToStateFunc[c.currentState](stepCtx, c)
		if err != nil {
			zlog.Error(stepCtx).Err(err).Msg("error during run")
			c.currentState = RunError
			break
		}
		c.currentState = next
	}
	if err != nil {
		return nil, err
	}
	zlog.Info(ctx).Msg("run complete")
	return c.assembled, nil
}

// limit returns the configured concurrency, rectifying a nonsense value to
// GOMAXPROCS.
func (c *Controller) limit() int {
	if c.Concurrency < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Concurrency
}

// covered reports whether scannerName already has a non-empty result for
// the provenance canon. Only non-empty presence counts; an empty list
// still means "re-scan needed".
func (c *Controller) covered(scannerName, canon string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results[scannerName][canon]) > 0
}

// merge is the single-owner mutation point for the aggregated results map;
// every dispatch path funnels completions through it.
func (c *Controller) merge(scannerName string, prov srcscan.Provenance, result srcscan.ScanResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	canon := prov.Canonical()
	c.provByCanon[canon] = prov
	bucket := c.results[scannerName]
	if bucket == nil {
		bucket = make(map[string][]srcscan.ScanResult)
		c.results[scannerName] = bucket
	}
	bucket[canon] = append(bucket[canon], result)
}

// newErrgroup builds an errgroup capped at the controller's concurrency
// limit.
func (c *Controller) newErrgroup(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit())
	return g, gctx
}

// invocationContext bounds one backend invocation with the configured scan
// timeout.
func (c *Controller) invocationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.ScanTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.ScanTimeout)
}

func ensureScratchRoot(root string) (string, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", err
	}
	return root, nil
}
