package srcscan

import (
	"sort"
	"strings"
)

// NestedProvenance is a rooted tree of provenances: a root KnownProvenance
// plus a mapping from in-tree path to the KnownProvenance of the
// sub-repository mounted there.
//
// Invariants: the root path "" is never a key of SubRepositories;
// all keys are distinct (guaranteed by map semantics); path strings are in
// normal form (no "./", no trailing "/").
type NestedProvenance struct {
	Root            Provenance
	SubRepositories map[string]Provenance
}

// NewNestedProvenance constructs a NestedProvenance, normalizing and
// validating sub-repository paths. It returns an error if root is not a
// KnownProvenance, if any sub path normalizes to "", or if a sub-repository
// provenance is not Known.
func NewNestedProvenance(root Provenance, subs map[string]Provenance) (NestedProvenance, error) {
	if !root.Known() {
		return NestedProvenance{}, &Error{Kind: ErrConfig, Op: "NewNestedProvenance", Message: "root provenance must be Known"}
	}
	normalized := make(map[string]Provenance, len(subs))
	for p, prov := range subs {
		np := normalizePath(p)
		if np == "" {
			return NestedProvenance{}, &Error{Kind: ErrConfig, Op: "NewNestedProvenance", Message: "sub-repository path must not normalize to the root path"}
		}
		if !prov.Known() {
			return NestedProvenance{}, &Error{Kind: ErrConfig, Op: "NewNestedProvenance", Message: "sub-repository provenance must be Known"}
		}
		normalized[np] = prov
	}
	return NestedProvenance{Root: root, SubRepositories: normalized}, nil
}

// normalizePath puts a path into normal form: no "./", no trailing "/",
// and the root is always "".
func normalizePath(p string) string {
	p = strings.Trim(p, "/")
	segs := strings.Split(p, "/")
	out := segs[:0]
	for _, s := range segs {
		if s == "" || s == "." {
			continue
		}
		out = append(out, s)
	}
	return strings.Join(out, "/")
}

// All returns every provenance in the tree: the root followed by each
// sub-repository, in a deterministic (path-sorted) order.
func (n NestedProvenance) All() []Provenance {
	out := make([]Provenance, 0, 1+len(n.SubRepositories))
	out = append(out, n.Root)
	for _, p := range n.sortedPaths() {
		out = append(out, n.SubRepositories[p])
	}
	return out
}

// Paths returns the in-tree paths of every provenance in the tree, "" for
// the root followed by sub-repository paths in sorted order.
func (n NestedProvenance) Paths() []string {
	out := make([]string, 0, 1+len(n.SubRepositories))
	out = append(out, "")
	out = append(out, n.sortedPaths()...)
	return out
}

// ProvenanceAt returns the provenance mounted at path, and whether it was
// present (the root path "" is always present).
func (n NestedProvenance) ProvenanceAt(path string) (Provenance, bool) {
	path = normalizePath(path)
	if path == "" {
		return n.Root, true
	}
	p, ok := n.SubRepositories[path]
	return p, ok
}

func (n NestedProvenance) sortedPaths() []string {
	paths := make([]string, 0, len(n.SubRepositories))
	for p := range n.SubRepositories {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
