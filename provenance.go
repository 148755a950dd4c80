package srcscan

import (
	"fmt"
	"strings"
)

// VCSKind names the version-control system a Repository provenance was
// checked out with.
type VCSKind string

// Supported VCS kinds.
const (
	VCSGit VCSKind = "git"
	VCSSvn VCSKind = "svn"
	VCSBzr VCSKind = "bzr"
	VCSHg  VCSKind = "hg"
	// VCSUnknownKind is used when a package's processed VCS descriptor names
	// a URL but not a recognized VCS kind. Nothing in this module infers the
	// kind from the URL; the VCS validator and downloader reject this kind.
	VCSUnknownKind VCSKind = ""
)

// originKind distinguishes the three Provenance cases. It is unexported:
// callers destructure a Provenance through the Known/IsUnknown/Artifact/
// Repository accessors rather than switching on a raw tag.
type originKind uint8

const (
	originUnknown originKind = iota
	originArtifact
	originRepository
)

// ArtifactProvenance identifies a remote source archive.
type ArtifactProvenance struct {
	// URL the archive was (or will be) fetched from.
	URL string
	// Hash is the optional content hash of the archive. The zero Digest
	// means no hash was recorded.
	Hash Digest
}

// hasHash reports whether Hash was populated.
func (a ArtifactProvenance) hasHash() bool {
	return a.Hash.Algorithm() != ""
}

// RepositoryProvenance identifies a version-control checkout.
type RepositoryProvenance struct {
	Kind VCSKind
	URL  string
	// RequestedRevision is the symbolic revision a caller asked for (a
	// branch, tag, or "HEAD"). It plays no part in equality: two
	// Repository provenances with different requested revisions that
	// resolve to the same commit are the same provenance.
	RequestedRevision string
	// ResolvedRevision is the concrete, immutable revision RequestedRevision
	// expanded to at resolution time. Required for cache correctness: it,
	// not RequestedRevision, is what equality and the canonical string key
	// on.
	ResolvedRevision string
	// Path is the in-repo path the package actually lives at, relative to
	// the repository root. "" means the repository root itself.
	Path string
}

// Provenance is a tagged variant over {Artifact, Repository, Unknown}.
//
// The zero value is Unknown. Construct instances with NewArtifactProvenance
// or NewRepositoryProvenance; Provenance's fields are otherwise immutable
// after construction.
type Provenance struct {
	kind       originKind
	artifact   ArtifactProvenance
	repository RepositoryProvenance
}

// NewArtifactProvenance constructs an Artifact Provenance.
func NewArtifactProvenance(a ArtifactProvenance) Provenance {
	return Provenance{kind: originArtifact, artifact: a}
}

// NewRepositoryProvenance constructs a Repository Provenance. The caller
// must have already resolved ResolvedRevision; an empty ResolvedRevision is
// accepted here, but such a value is not usable for cache lookup.
func NewRepositoryProvenance(r RepositoryProvenance) Provenance {
	return Provenance{kind: originRepository, repository: r}
}

// UnknownProvenance is the Provenance value used when no source location
// could be determined.
var UnknownProvenance = Provenance{kind: originUnknown}

// IsUnknown reports whether p is the Unknown case.
func (p Provenance) IsUnknown() bool { return p.kind == originUnknown }

// IsArtifact reports whether p is the Artifact case.
func (p Provenance) IsArtifact() bool { return p.kind == originArtifact }

// IsRepository reports whether p is the Repository case.
func (p Provenance) IsRepository() bool { return p.kind == originRepository }

// Artifact returns p's ArtifactProvenance and true if p is the Artifact
// case; otherwise the zero value and false.
func (p Provenance) Artifact() (ArtifactProvenance, bool) {
	if p.kind != originArtifact {
		return ArtifactProvenance{}, false
	}
	return p.artifact, true
}

// Repository returns p's RepositoryProvenance and true if p is the
// Repository case; otherwise the zero value and false.
func (p Provenance) Repository() (RepositoryProvenance, bool) {
	if p.kind != originRepository {
		return RepositoryProvenance{}, false
	}
	return p.repository, true
}

// Known reports whether p is in the KnownProvenance subset (Artifact or
// Repository, as opposed to Unknown).
func (p Provenance) Known() bool {
	return p.kind == originArtifact || p.kind == originRepository
}

// Equal reports structural equality: two Repository provenances are equal
// iff VCS kind, URL, in-repo path, and ResolvedRevision agree
// (RequestedRevision is deliberately excluded). Artifact provenances are
// equal iff URL and Hash agree.
func (p Provenance) Equal(o Provenance) bool {
	if p.kind != o.kind {
		return false
	}
	switch p.kind {
	case originArtifact:
		return p.artifact.URL == o.artifact.URL && p.artifact.Hash.String() == o.artifact.Hash.String()
	case originRepository:
		a, b := p.repository, o.repository
		return a.Kind == b.Kind && a.URL == b.URL && a.Path == b.Path && a.ResolvedRevision == b.ResolvedRevision
	default:
		return true // two Unknowns are never meaningfully comparable but are equal to each other
	}
}

// Canonical returns the canonical stringification of a KnownProvenance:
// "artifact:<url>|<hash>" or "vcs:<type>|<url>|<resolvedRevision>|<path>".
// It returns "" for Unknown, since Unknown is never used as a storage key.
func (p Provenance) Canonical() string {
	switch p.kind {
	case originArtifact:
		hash := ""
		if p.artifact.hasHash() {
			hash = p.artifact.Hash.String()
		}
		return fmt.Sprintf("artifact:%s|%s", p.artifact.URL, hash)
	case originRepository:
		r := p.repository
		return fmt.Sprintf("vcs:%s|%s|%s|%s", r.Kind, r.URL, r.ResolvedRevision, r.Path)
	default:
		return ""
	}
}

// String implements fmt.Stringer for debugging and logging; it is identical
// to Canonical for known provenances.
func (p Provenance) String() string {
	if p.IsUnknown() {
		return "unknown"
	}
	return p.Canonical()
}

// MarshalText implements encoding.TextMarshaler, so a Provenance can be
// used as a JSON object key (NestedProvenanceScanResult.ScanResults is
// keyed by Provenance) the same way Digest's MarshalText lets a Digest
// serve as one.
func (p Provenance) MarshalText() ([]byte, error) {
	if p.IsUnknown() {
		return []byte("unknown"), nil
	}
	return []byte(p.Canonical()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, parsing the Canonical
// format back into a Provenance.
func (p *Provenance) UnmarshalText(t []byte) error {
	s := string(t)
	switch {
	case s == "unknown":
		*p = UnknownProvenance
		return nil
	case strings.HasPrefix(s, "artifact:"):
		rest := strings.TrimPrefix(s, "artifact:")
		url, hash, _ := strings.Cut(rest, "|")
		a := ArtifactProvenance{URL: url}
		if hash != "" {
			d, err := ParseDigest(hash)
			if err != nil {
				return &Error{Kind: ErrConfig, Op: "Provenance.UnmarshalText", Message: "invalid artifact hash", Inner: err}
			}
			a.Hash = d
		}
		*p = NewArtifactProvenance(a)
		return nil
	case strings.HasPrefix(s, "vcs:"):
		fields := strings.SplitN(strings.TrimPrefix(s, "vcs:"), "|", 4)
		if len(fields) != 4 {
			return &Error{Kind: ErrConfig, Op: "Provenance.UnmarshalText", Message: "malformed vcs provenance: " + s}
		}
		*p = NewRepositoryProvenance(RepositoryProvenance{
			Kind:             VCSKind(fields[0]),
			URL:              fields[1],
			ResolvedRevision: fields[2],
			Path:             fields[3],
		})
		return nil
	default:
		return &Error{Kind: ErrConfig, Op: "Provenance.UnmarshalText", Message: "unrecognized provenance encoding: " + s}
	}
}
