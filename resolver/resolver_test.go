package resolver

import (
	"context"
	"testing"

	"github.com/srcscan/srcscan"
)

func TestPassthroughResolverPriority(t *testing.T) {
	pkg := srcscan.Package{
		ID:       "pkg",
		Artifact: srcscan.ArtifactDescriptor{URL: "https://example.com/a.tar.gz"},
		VCS:      srcscan.VCSDescriptor{Kind: srcscan.VCSGit, URL: "https://example.com/repo.git", RequestedRevision: "main"},
	}

	r := PassthroughResolver{}

	got, err := r.Resolve(context.Background(), pkg, DefaultPriority)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !got.IsArtifact() {
		t.Fatalf("expected Artifact provenance when both descriptors present and artifact is first in priority, got %v", got)
	}

	got, err = r.Resolve(context.Background(), pkg, []Origin{OriginVCS, OriginArtifact})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !got.IsRepository() {
		t.Fatalf("expected Repository provenance when VCS is first in priority, got %v", got)
	}
}

func TestPassthroughResolverUnknown(t *testing.T) {
	r := PassthroughResolver{}
	got, err := r.Resolve(context.Background(), srcscan.Package{ID: "empty"}, DefaultPriority)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !got.IsUnknown() {
		t.Fatalf("expected Unknown provenance for a package with no descriptors, got %v", got)
	}
}

func TestValidatingResolverFailsClosed(t *testing.T) {
	r := ValidatingResolver{}
	pkg := srcscan.Package{VCS: srcscan.VCSDescriptor{Kind: srcscan.VCSGit, URL: "https://example.com/repo.git"}}

	_, err := r.Resolve(context.Background(), pkg, DefaultPriority)
	if err == nil {
		t.Fatal("expected an error when no VCS validator is configured")
	}
	var se *srcscan.Error
	if !asError(err, &se) || se.Kind != srcscan.ErrResolution {
		t.Fatalf("expected a ResolutionError, got %v", err)
	}
}

func asError(err error, target **srcscan.Error) bool {
	se, ok := err.(*srcscan.Error)
	if ok {
		*target = se
	}
	return ok
}
