package scanner

import (
	"context"
	"testing"

	"github.com/srcscan/srcscan"
)

func TestBackendShapeDispatch(t *testing.T) {
	details := srcscan.Details{Name: "mock", Version: "1.0"}

	pkgBackend := NewPackageBackend(details, srcscan.Criteria{}, func(ctx context.Context, pkg srcscan.Package) (srcscan.ScanResult, error) {
		return srcscan.ScanResult{Scanner: details}, nil
	})
	if pkgBackend.Shape() != ShapePackage {
		t.Fatalf("got shape %v, want %v", pkgBackend.Shape(), ShapePackage)
	}
	if _, err := pkgBackend.ScanPackage(context.Background(), srcscan.Package{ID: "p"}); err != nil {
		t.Errorf("ScanPackage: %v", err)
	}

	provBackend := NewProvenanceBackend(details, srcscan.Criteria{}, func(ctx context.Context, p srcscan.Provenance) (srcscan.ScanResult, error) {
		return srcscan.ScanResult{Scanner: details, Provenance: p}, nil
	})
	if provBackend.Shape() != ShapeProvenance {
		t.Fatalf("got shape %v, want %v", provBackend.Shape(), ShapeProvenance)
	}

	localBackend := NewLocalBackend(details, srcscan.Criteria{}, func(ctx context.Context, dir string) (srcscan.ScanResult, error) {
		return srcscan.ScanResult{Scanner: details}, nil
	})
	if localBackend.Shape() != ShapeLocal {
		t.Fatalf("got shape %v, want %v", localBackend.Shape(), ShapeLocal)
	}
}

func TestBackendWrongShapePanics(t *testing.T) {
	details := srcscan.Details{Name: "mock"}
	b := NewLocalBackend(details, srcscan.Criteria{}, func(context.Context, string) (srcscan.ScanResult, error) {
		return srcscan.ScanResult{}, nil
	})

	defer func() {
		if recover() == nil {
			t.Error("expected panic calling ScanPackage on a local backend")
		}
	}()
	b.ScanPackage(context.Background(), srcscan.Package{})
}
