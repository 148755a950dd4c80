// Package scanner defines the uniform contract the orchestrator dispatches
// across, over the three call shapes a scanner backend may take:
// package-granular remote, provenance-granular remote, and local.
package scanner

import (
	"context"
	"fmt"

	"github.com/srcscan/srcscan"
)

// PackageScanFunc resolves a package's own source and returns a result
// whose Provenance field is already populated. Used when the backend has
// its own source-fetching pipeline.
type PackageScanFunc func(context.Context, srcscan.Package) (srcscan.ScanResult, error)

// ProvenanceScanFunc fetches from the given provenance and returns a
// result.
type ProvenanceScanFunc func(context.Context, srcscan.Provenance) (srcscan.ScanResult, error)

// LocalScanFunc scans an already-materialized directory. The caller (the
// orchestrator) is responsible for the download and for stamping the
// correct provenance onto the result; implementations should leave
// ScanResult.Provenance zero.
type LocalScanFunc func(context.Context, string) (srcscan.ScanResult, error)

// Shape identifies which of PackageScanFunc, ProvenanceScanFunc, or
// LocalScanFunc a Backend carries.
type Shape uint8

const (
	_ Shape = iota
	ShapePackage
	ShapeProvenance
	ShapeLocal
)

func (s Shape) String() string {
	switch s {
	case ShapePackage:
		return "package"
	case ShapeProvenance:
		return "provenance"
	case ShapeLocal:
		return "local"
	default:
		return "invalid"
	}
}

// Backend is a scanner integration exposing exactly one of the three call
// shapes, plus its identity and cache criteria.
//
// Construct one with NewPackageBackend, NewProvenanceBackend, or
// NewLocalBackend; exactly one of the three constructors populates the
// corresponding field, and Shape reports which.
type Backend struct {
	shape    Shape
	details  srcscan.Details
	criteria srcscan.Criteria

	scanPackage    PackageScanFunc
	scanProvenance ProvenanceScanFunc
	scanPath       LocalScanFunc
}

// NewPackageBackend constructs a package-granular remote Backend.
func NewPackageBackend(details srcscan.Details, criteria srcscan.Criteria, fn PackageScanFunc) Backend {
	return Backend{shape: ShapePackage, details: details, criteria: criteria, scanPackage: fn}
}

// NewProvenanceBackend constructs a provenance-granular remote Backend.
func NewProvenanceBackend(details srcscan.Details, criteria srcscan.Criteria, fn ProvenanceScanFunc) Backend {
	return Backend{shape: ShapeProvenance, details: details, criteria: criteria, scanProvenance: fn}
}

// NewLocalBackend constructs a local Backend.
func NewLocalBackend(details srcscan.Details, criteria srcscan.Criteria, fn LocalScanFunc) Backend {
	return Backend{shape: ShapeLocal, details: details, criteria: criteria, scanPath: fn}
}

// Name returns the backend's scanner name.
func (b Backend) Name() string { return b.details.Name }

// Details returns the backend's scanner details.
func (b Backend) Details() srcscan.Details { return b.details }

// Criteria returns the backend's cache-lookup criteria.
func (b Backend) Criteria() srcscan.Criteria { return b.criteria }

// WithCriteria returns a copy of b with its cache-lookup criteria replaced,
// letting a caller apply `<scannerName>.criteria.<property>` configuration
// overrides without reaching into b's unexported fields.
func (b Backend) WithCriteria(c srcscan.Criteria) Backend {
	b.criteria = c
	return b
}

// Shape reports which call shape this backend carries.
func (b Backend) Shape() Shape { return b.shape }

// ScanPackage invokes the package-granular call. It panics if Shape() !=
// ShapePackage; the orchestrator's dispatch is an exhaustive switch on
// Shape and never calls the wrong accessor.
func (b Backend) ScanPackage(ctx context.Context, pkg srcscan.Package) (srcscan.ScanResult, error) {
	if b.shape != ShapePackage {
		panic(fmt.Sprintf("scanner: ScanPackage called on a %s backend", b.shape))
	}
	return b.scanPackage(ctx, pkg)
}

// ScanProvenance invokes the provenance-granular call. It panics if
// Shape() != ShapeProvenance.
func (b Backend) ScanProvenance(ctx context.Context, p srcscan.Provenance) (srcscan.ScanResult, error) {
	if b.shape != ShapeProvenance {
		panic(fmt.Sprintf("scanner: ScanProvenance called on a %s backend", b.shape))
	}
	return b.scanProvenance(ctx, p)
}

// ScanPath invokes the local call. It panics if Shape() != ShapeLocal.
func (b Backend) ScanPath(ctx context.Context, dir string) (srcscan.ScanResult, error) {
	if b.shape != ShapeLocal {
		panic(fmt.Sprintf("scanner: ScanPath called on a %s backend", b.shape))
	}
	return b.scanPath(ctx, dir)
}
