package store

import (
	"context"
	"sync"

	"github.com/srcscan/srcscan"
)

// Memory is an in-process Store backed by plain maps, guarded by a mutex.
// It exists for tests and for single-process deployments that don't need
// durability; store/postgres.Store is the durable implementation.
type Memory struct {
	mu sync.Mutex
	// byProvenance holds provenance-granular results, keyed by the
	// canonical provenance string then by scanner name.
	byProvenance map[string]map[string]srcscan.ScanResult
	// byPackage holds package-granular nested results, keyed by package ID
	// then by scanner name.
	byPackage map[string]map[string]srcscan.NestedProvenanceScanResult
}

var _ Store = (*Memory)(nil)

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		byProvenance: make(map[string]map[string]srcscan.ScanResult),
		byPackage:    make(map[string]map[string]srcscan.NestedProvenanceScanResult),
	}
}

// ReadByProvenance implements ProvenanceReader.
func (m *Memory) ReadByProvenance(_ context.Context, known srcscan.Provenance, criteria srcscan.Criteria) ([]srcscan.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []srcscan.ScanResult
	for _, r := range m.byProvenance[known.Canonical()] {
		if criteria.Satisfies(r.Scanner) {
			out = append(out, r)
		}
	}
	return out, nil
}

// WriteByProvenance implements ProvenanceWriter.
func (m *Memory) WriteByProvenance(_ context.Context, known srcscan.Provenance, result srcscan.ScanResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := known.Canonical()
	bucket, ok := m.byProvenance[key]
	if !ok {
		bucket = make(map[string]srcscan.ScanResult)
		m.byProvenance[key] = bucket
	}
	bucket[result.Scanner.Name] = result
	return nil
}

// ReadByPackage implements PackageReader.
func (m *Memory) ReadByPackage(_ context.Context, pkg srcscan.Package, criteria srcscan.Criteria) ([]srcscan.NestedProvenanceScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []srcscan.NestedProvenanceScanResult
	for scanner, r := range m.byPackage[pkg.ID] {
		details := srcscan.Details{Name: scanner}
		for _, results := range r.ScanResults {
			for _, sr := range results {
				details = sr.Scanner
				break
			}
			break
		}
		if criteria.Satisfies(details) {
			out = append(out, r)
		}
	}
	return out, nil
}

// WriteByPackage implements PackageWriter.
func (m *Memory) WriteByPackage(_ context.Context, pkg srcscan.Package, result srcscan.NestedProvenanceScanResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.byPackage[pkg.ID]
	if !ok {
		bucket = make(map[string]srcscan.NestedProvenanceScanResult)
		m.byPackage[pkg.ID] = bucket
	}
	bucket[scannerKeyOf(result)] = result
	return nil
}

func scannerKeyOf(r srcscan.NestedProvenanceScanResult) string {
	for _, results := range r.ScanResults {
		for _, sr := range results {
			return sr.Scanner.Name
		}
	}
	return ""
}

// Close implements Store; Memory holds no resources to release.
func (m *Memory) Close(context.Context) error { return nil }
