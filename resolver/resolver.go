// Package resolver turns a Package's raw artifact/VCS descriptors into a
// Provenance, and a resolved Provenance into the NestedProvenance tree rooted
// at it.
//
// Resolution walks a fixed, caller-supplied priority list of origin kinds
// and takes the first descriptor that applies, rather than merging or
// guessing.
package resolver

import (
	"context"

	"github.com/srcscan/srcscan"
)

// Origin names one of the two descriptor kinds a Package may carry.
type Origin uint8

const (
	_ Origin = iota
	OriginArtifact
	OriginVCS
)

// Resolver resolves a Package's descriptors into a Provenance, walking an
// ordered priority list of Origin kinds.
type Resolver interface {
	// Resolve returns the Provenance for pkg. It returns
	// srcscan.UnknownProvenance, nil if no descriptor in priority applies.
	Resolve(ctx context.Context, pkg srcscan.Package, priority []Origin) (srcscan.Provenance, error)
}

// DefaultPriority is the priority list used when callers don't have a
// reason to prefer one origin over the other: prefer the immutable,
// content-addressed artifact over a mutable VCS ref.
var DefaultPriority = []Origin{OriginArtifact, OriginVCS}

// ValidatingResolver wraps an artifact-validating step and a VCS-revision
// resolving step behind the Resolver contract. Either step may be nil: a nil
// Artifact accepts a non-empty artifact descriptor without validation, and a
// nil VCS makes a non-empty VCS descriptor reached in priority order fail
// with ErrResolution.
type ValidatingResolver struct {
	Artifact ArtifactValidator
	VCS      VCSValidator
}

// ArtifactValidator validates (and, if needed, canonicalizes) an artifact
// descriptor, e.g. by HEAD-probing the URL.
type ArtifactValidator interface {
	ValidateArtifact(ctx context.Context, d srcscan.ArtifactDescriptor) (srcscan.ArtifactProvenance, error)
}

// VCSValidator resolves a VCS descriptor's requested revision to an
// immutable resolved revision.
type VCSValidator interface {
	ResolveRevision(ctx context.Context, d srcscan.VCSDescriptor) (srcscan.RepositoryProvenance, error)
}

var _ Resolver = ValidatingResolver{}

// Resolve implements Resolver.
func (r ValidatingResolver) Resolve(ctx context.Context, pkg srcscan.Package, priority []Origin) (srcscan.Provenance, error) {
	for _, origin := range priority {
		switch origin {
		case OriginArtifact:
			if pkg.Artifact.empty() {
				continue
			}
			if r.Artifact == nil {
				return srcscan.NewArtifactProvenance(srcscan.ArtifactProvenance{URL: pkg.Artifact.URL, Hash: pkg.Artifact.Hash}), nil
			}
			ap, err := r.Artifact.ValidateArtifact(ctx, pkg.Artifact)
			if err != nil {
				return srcscan.UnknownProvenance, &srcscan.Error{
					Kind:    srcscan.ErrResolution,
					Op:      "ValidatingResolver.Resolve",
					Message: "artifact validation failed for " + pkg.Artifact.URL,
					Inner:   err,
				}
			}
			return srcscan.NewArtifactProvenance(ap), nil
		case OriginVCS:
			if pkg.VCS.empty() {
				continue
			}
			if r.VCS == nil {
				return srcscan.UnknownProvenance, &srcscan.Error{
					Kind:    srcscan.ErrResolution,
					Op:      "ValidatingResolver.Resolve",
					Message: "no VCS validator configured; cannot resolve a revision for " + pkg.VCS.URL,
				}
			}
			rp, err := r.VCS.ResolveRevision(ctx, pkg.VCS)
			if err != nil {
				return srcscan.UnknownProvenance, &srcscan.Error{
					Kind:    srcscan.ErrResolution,
					Op:      "ValidatingResolver.Resolve",
					Message: "revision resolution failed for " + pkg.VCS.URL,
					Inner:   err,
				}
			}
			return srcscan.NewRepositoryProvenance(rp), nil
		}
	}
	return srcscan.UnknownProvenance, nil
}

// PassthroughResolver implements Resolver without validation: it trusts the
// package's descriptors outright, using a VCS descriptor's RequestedRevision
// as the ResolvedRevision, so the caller must already have put an immutable
// revision there. Useful for
// tests and for storage-replay paths where the provenance was already
// validated once upstream.
type PassthroughResolver struct{}

var _ Resolver = PassthroughResolver{}

// Resolve implements Resolver.
func (PassthroughResolver) Resolve(_ context.Context, pkg srcscan.Package, priority []Origin) (srcscan.Provenance, error) {
	for _, origin := range priority {
		switch origin {
		case OriginArtifact:
			if pkg.Artifact.empty() {
				continue
			}
			return srcscan.NewArtifactProvenance(srcscan.ArtifactProvenance{URL: pkg.Artifact.URL, Hash: pkg.Artifact.Hash}), nil
		case OriginVCS:
			if pkg.VCS.empty() {
				continue
			}
			resolved := pkg.VCS.RequestedRevision
			return srcscan.NewRepositoryProvenance(srcscan.RepositoryProvenance{
				Kind:              pkg.VCS.Kind,
				URL:               pkg.VCS.URL,
				RequestedRevision: pkg.VCS.RequestedRevision,
				ResolvedRevision:  resolved,
				Path:              pkg.VCS.Path,
			}), nil
		}
	}
	return srcscan.UnknownProvenance, nil
}
