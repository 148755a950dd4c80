package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/resolver"
	"github.com/srcscan/srcscan/scanner"
	"github.com/srcscan/srcscan/store"
	mock_store "github.com/srcscan/srcscan/test/mock/store"
)

// TestDispatchPackageGranularTwoPackages is scenario S2: two packages, one
// resolving through an artifact descriptor and one through a VCS
// descriptor, one package-granular backend. scanPackage must be invoked
// exactly once per package.
func TestDispatchPackageGranularTwoPackages(t *testing.T) {
	var calls int32
	var mu sync.Mutex
	seen := make(map[string]int)
	backend := scanner.NewPackageBackend(
		srcscan.Details{Name: "scancode", Version: "1"},
		srcscan.Criteria{},
		func(_ context.Context, pkg srcscan.Package) (srcscan.ScanResult, error) {
			atomic.AddInt32(&calls, 1)
			mu.Lock()
			seen[pkg.ID]++
			mu.Unlock()
			return srcscan.ScanResult{Scanner: srcscan.Details{Name: "scancode", Version: "1"}}, nil
		},
	)

	pkgs := []srcscan.Package{
		{ID: "pkgA", Artifact: srcscan.ArtifactDescriptor{URL: "https://example.com/a.tar.gz"}},
		{ID: "pkgR", VCS: srcscan.VCSDescriptor{Kind: srcscan.VCSGit, URL: "https://example.com/repo.git", RequestedRevision: "rev1"}},
	}

	cfg := &Config{
		Scanners:       []scanner.Backend{backend},
		Resolver:       resolver.PassthroughResolver{},
		NestedResolver: resolver.NoSubmodulesResolver{},
		Priority:       resolver.DefaultPriority,
	}
	c := New(cfg, pkgs)
	out, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 2 {
		t.Fatalf("scanPackage invoked %d times, want 2", calls)
	}
	if seen["pkgA"] != 1 || seen["pkgR"] != 1 {
		t.Fatalf("scanPackage call count per package = %v, want exactly 1 each", seen)
	}
	for _, id := range []string{"pkgA", "pkgR"} {
		nr, ok := out[id]
		if !ok {
			t.Fatalf("missing output for %s", id)
		}
		if len(nr.ScanResults) != 1 {
			t.Fatalf("%s nested result has %d provenance keys, want 1", id, len(nr.ScanResults))
		}
	}
}

// TestDispatchProvenanceGranularSharedProvenance is scenario S3: two
// packages resolve to the same Repository provenance. scanProvenance must
// be invoked exactly once, and both packages' nested results reference it.
func TestDispatchProvenanceGranularSharedProvenance(t *testing.T) {
	var calls int32
	backend := scanner.NewProvenanceBackend(
		srcscan.Details{Name: "licensee", Version: "1"},
		srcscan.Criteria{},
		func(_ context.Context, _ srcscan.Provenance) (srcscan.ScanResult, error) {
			atomic.AddInt32(&calls, 1)
			return srcscan.ScanResult{Scanner: srcscan.Details{Name: "licensee", Version: "1"}}, nil
		},
	)

	pkgs := []srcscan.Package{
		{ID: "pkg1", VCS: srcscan.VCSDescriptor{Kind: srcscan.VCSGit, URL: "https://example.com/shared.git", RequestedRevision: "rev1"}},
		{ID: "pkg2", VCS: srcscan.VCSDescriptor{Kind: srcscan.VCSGit, URL: "https://example.com/shared.git", RequestedRevision: "rev1"}},
	}

	cfg := &Config{
		Scanners:       []scanner.Backend{backend},
		Resolver:       resolver.PassthroughResolver{},
		NestedResolver: resolver.NoSubmodulesResolver{},
		Priority:       resolver.DefaultPriority,
	}
	c := New(cfg, pkgs)
	out, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 {
		t.Fatalf("scanProvenance invoked %d times, want 1", calls)
	}
	if len(out["pkg1"].ScanResults) != 1 || len(out["pkg2"].ScanResults) != 1 {
		t.Fatalf("expected exactly one provenance key per package")
	}
}

type fakeReader struct {
	result srcscan.ScanResult
}

func (f fakeReader) ReadByProvenance(_ context.Context, _ srcscan.Provenance, _ srcscan.Criteria) ([]srcscan.ScanResult, error) {
	return []srcscan.ScanResult{f.result}, nil
}

func (f fakeReader) ReadByPackage(_ context.Context, _ srcscan.Package, _ srcscan.Criteria) ([]srcscan.NestedProvenanceScanResult, error) {
	return nil, nil
}

type countingWriter struct{ calls int32 }

func (w *countingWriter) WriteByProvenance(_ context.Context, _ srcscan.Provenance, _ srcscan.ScanResult) error {
	atomic.AddInt32(&w.calls, 1)
	return nil
}

func (w *countingWriter) WriteByPackage(_ context.Context, _ srcscan.Package, _ srcscan.NestedProvenanceScanResult) error {
	atomic.AddInt32(&w.calls, 1)
	return nil
}

// TestCacheHitSuppressesBackendAndWriter is scenario S4: a reader returns a
// satisfying cached result, so no backend and no writer is invoked, and the
// cached result surfaces in the output.
func TestCacheHitSuppressesBackendAndWriter(t *testing.T) {
	var calls int32
	backend := scanner.NewProvenanceBackend(
		srcscan.Details{Name: "licensee", Version: "1"},
		srcscan.Criteria{},
		func(_ context.Context, _ srcscan.Provenance) (srcscan.ScanResult, error) {
			atomic.AddInt32(&calls, 1)
			return srcscan.ScanResult{}, nil
		},
	)
	cached := srcscan.ScanResult{Scanner: srcscan.Details{Name: "licensee", Version: "1"}}
	writer := &countingWriter{}

	pkgs := []srcscan.Package{
		{ID: "pkg1", Artifact: srcscan.ArtifactDescriptor{URL: "https://example.com/a.tar.gz"}},
	}
	cfg := &Config{
		Scanners:       []scanner.Backend{backend},
		Resolver:       resolver.PassthroughResolver{},
		NestedResolver: resolver.NoSubmodulesResolver{},
		Priority:       resolver.DefaultPriority,
		Readers:        []store.Reader{fakeReader{result: cached}},
		Writers:        []store.Writer{writer},
	}
	c := New(cfg, pkgs)
	out, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 0 {
		t.Fatalf("backend invoked %d times, want 0", calls)
	}
	if atomic.LoadInt32(&writer.calls) != 0 {
		t.Fatalf("writer invoked %d times, want 0", writer.calls)
	}
	nr := out["pkg1"]
	if len(nr.ScanResults) != 1 {
		t.Fatalf("expected one provenance entry")
	}
	for _, results := range nr.ScanResults {
		if len(results) != 1 || results[0].Scanner.Name != "licensee" {
			t.Fatalf("expected cached result to surface, got %+v", results)
		}
	}
}

type failingDownloader struct{}

func (failingDownloader) Download(_ context.Context, _ srcscan.Provenance, _ string) error {
	return &srcscan.Error{Kind: srcscan.ErrDownload, Op: "test", Message: "simulated failure"}
}

// TestDownloadFailureProducesErrorResult is scenario S5: the downloader
// fails for a provenance a local scanner needs. The local backend is never
// invoked; a synthetic error result carrying one Downloader-sourced issue
// takes its place, and the run completes successfully.
func TestDownloadFailureProducesErrorResult(t *testing.T) {
	var calls int32
	backend := scanner.NewLocalBackend(
		srcscan.Details{Name: "scancode", Version: "1"},
		srcscan.Criteria{},
		func(_ context.Context, _ string) (srcscan.ScanResult, error) {
			atomic.AddInt32(&calls, 1)
			return srcscan.ScanResult{}, nil
		},
	)
	pkgs := []srcscan.Package{
		{ID: "pkg1", Artifact: srcscan.ArtifactDescriptor{URL: "https://example.com/a.tar.gz"}},
	}
	cfg := &Config{
		Scanners:       []scanner.Backend{backend},
		Resolver:       resolver.PassthroughResolver{},
		NestedResolver: resolver.NoSubmodulesResolver{},
		Priority:       resolver.DefaultPriority,
		Downloader:     failingDownloader{},
		ScratchRoot:    t.TempDir(),
	}
	c := New(cfg, pkgs)
	out, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 0 {
		t.Fatalf("local backend invoked %d times, want 0 (download should have failed first)", calls)
	}
	nr := out["pkg1"]
	for _, results := range nr.ScanResults {
		if len(results) != 1 {
			t.Fatalf("expected exactly one synthetic result, got %d", len(results))
		}
		issues := results[0].Summary.Issues
		if len(issues) != 1 || issues[0].Source != "Downloader" || issues[0].Severity != srcscan.SeverityError {
			t.Fatalf("expected one Downloader-sourced ERROR issue, got %+v", issues)
		}
	}
}

// TestWriterFanOut checks that an in-run provenance-granular result is
// delivered to every configured writer exactly once, and so is the
// assembled package-keyed result.
func TestWriterFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := scanner.NewProvenanceBackend(
		srcscan.Details{Name: "licensee", Version: "1"},
		srcscan.Criteria{},
		func(_ context.Context, _ srcscan.Provenance) (srcscan.ScanResult, error) {
			return srcscan.ScanResult{Scanner: srcscan.Details{Name: "licensee", Version: "1"}}, nil
		},
	)

	w1 := mock_store.NewMockWriter(ctrl)
	w2 := mock_store.NewMockWriter(ctrl)
	for _, w := range []*mock_store.MockWriter{w1, w2} {
		w.EXPECT().WriteByProvenance(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
		w.EXPECT().WriteByPackage(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
	}

	pkgs := []srcscan.Package{
		{ID: "pkg1", Artifact: srcscan.ArtifactDescriptor{URL: "https://example.com/a.tar.gz"}},
	}
	cfg := &Config{
		Scanners:       []scanner.Backend{backend},
		Resolver:       resolver.PassthroughResolver{},
		NestedResolver: resolver.NoSubmodulesResolver{},
		Priority:       resolver.DefaultPriority,
		Writers:        []store.Writer{w1, w2},
	}
	c := New(cfg, pkgs)
	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
