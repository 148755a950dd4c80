// Package store defines the provenance-keyed and package-keyed cache
// read/write interfaces the orchestrator consults and populates.
package store

import (
	"context"

	"github.com/srcscan/srcscan"
)

// ProvenanceReader returns previously stored results for a single known
// provenance, filtered to scanners satisfying criteria.
type ProvenanceReader interface {
	ReadByProvenance(ctx context.Context, known srcscan.Provenance, criteria srcscan.Criteria) ([]srcscan.ScanResult, error)
}

// ProvenanceWriter persists a single provenance-granular result. Write must
// be idempotent per (provenance, scanner details) pair: writing the same
// result twice leaves the store in the same state as writing it once.
type ProvenanceWriter interface {
	WriteByProvenance(ctx context.Context, known srcscan.Provenance, result srcscan.ScanResult) error
}

// PackageReader returns previously stored nested results keyed by the
// package a package-granular backend scanned.
type PackageReader interface {
	ReadByPackage(ctx context.Context, pkg srcscan.Package, criteria srcscan.Criteria) ([]srcscan.NestedProvenanceScanResult, error)
}

// PackageWriter persists a package-granular nested result.
type PackageWriter interface {
	WriteByPackage(ctx context.Context, pkg srcscan.Package, result srcscan.NestedProvenanceScanResult) error
}

// Reader is the full read surface a store backend may offer. A backend need
// not implement every method meaningfully — e.g. a provenance-only cache can
// embed PackageReader and return (nil, nil) — but the orchestrator only ever
// calls through these interfaces, never a concrete type.
type Reader interface {
	ProvenanceReader
	PackageReader
}

// Writer is the full write surface a store backend may offer.
type Writer interface {
	ProvenanceWriter
	PackageWriter
}

// Store is the union Reader and Writer, the shape a storage backend
// implements in full (e.g. store/postgres.Store). Callers that only need one
// side, such as a read replica, depend on Reader or Writer directly instead.
type Store interface {
	Reader
	Writer
	// Close releases any resources (connection pools, file handles) the
	// Store holds.
	Close(context.Context) error
}
