package srcscan

// VCSDescriptor is a package's processed VCS source descriptor, one of the
// two origin kinds a Package may carry (the other being an artifact
// descriptor). It mirrors the shape of RepositoryProvenance minus the
// revision resolution, which is the resolver's job, not the package's.
type VCSDescriptor struct {
	Kind              VCSKind
	URL               string
	RequestedRevision string
	Path              string
}

// empty reports whether the descriptor carries no usable source location.
func (d VCSDescriptor) empty() bool {
	return d.URL == ""
}

// ArtifactDescriptor is a package's processed source-archive descriptor.
type ArtifactDescriptor struct {
	URL  string
	Hash Digest
}

func (d ArtifactDescriptor) empty() bool {
	return d.URL == ""
}

// Package is input-only to the core: an identifier plus the two possible
// origin descriptors a package-provenance resolver may consult. A Package
// never carries a resolved Provenance itself; resolution is always done by
// a resolver.Resolver.
type Package struct {
	// ID uniquely identifies the package to the caller (e.g. a purl or an
	// internal identifier). The orchestrator treats it as an opaque key.
	ID string
	// Artifact is the package's source-archive descriptor, if any.
	Artifact ArtifactDescriptor
	// VCS is the package's processed VCS descriptor, if any.
	VCS VCSDescriptor
}
