package orchestrator

import (
	"context"
	"testing"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/scanner"
)

// TestNewRejectsNoScanners is scenario S1: constructing an Orchestrator with
// no scanner backends configured fails synchronously with a
// ConfigurationError rather than deferring the failure to the first Scan.
func TestNewRejectsNoScanners(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil {
		t.Fatal("expected an error when no scanner backends are configured")
	}
	serr, ok := err.(*srcscan.Error)
	if !ok {
		t.Fatalf("error is not *srcscan.Error: %v", err)
	}
	if serr.Kind != srcscan.ErrConfig {
		t.Fatalf("error kind = %v, want %v", serr.Kind, srcscan.ErrConfig)
	}
}

// TestScanEmptyPackagesIsNoop confirms an empty package set short-circuits
// without touching any collaborator.
func TestScanEmptyPackagesIsNoop(t *testing.T) {
	backend := scanner.NewPackageBackend(
		srcscan.Details{Name: "scancode", Version: "1"},
		srcscan.Criteria{},
		func(_ context.Context, _ srcscan.Package) (srcscan.ScanResult, error) {
			t.Fatal("backend should never be invoked for an empty package set")
			return srcscan.ScanResult{}, nil
		},
	)
	o, err := New(context.Background(), Config{Scanners: []scanner.Backend{backend}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := o.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %v", out)
	}
}
