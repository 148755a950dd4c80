package resolver

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/srcscan/srcscan"
)

// NestedResolver resolves a KnownProvenance into the NestedProvenance tree
// rooted at it.
type NestedResolver interface {
	ResolveNested(ctx context.Context, root srcscan.Provenance) (srcscan.NestedProvenance, error)
}

// GitSubmoduleResolver implements NestedResolver for Repository provenances
// checked out under CheckoutRoot, by reading .gitmodules out of the working
// copy. Artifact provenances, and Repository provenances with no
// .gitmodules, resolve to a NestedProvenance with no sub-repositories.
type GitSubmoduleResolver struct {
	// CheckoutRoot is the base directory sub-repository checkouts are
	// resolved against; it must match the Root a CheckoutVCSValidator was
	// given so the working copy already exists on disk.
	CheckoutRoot string
	// VCS resolves each submodule's declared revision to an immutable one.
	// If nil, the submodule's declared revision is used as-is.
	VCS VCSValidator
}

var _ NestedResolver = (*GitSubmoduleResolver)(nil)

// NoSubmodulesResolver implements NestedResolver by always returning a
// NestedProvenance with no sub-repositories. It's the default a Config
// without an explicit NestedResolver falls back to: every provenance is
// treated as self-contained.
type NoSubmodulesResolver struct{}

var _ NestedResolver = NoSubmodulesResolver{}

// ResolveNested implements NestedResolver.
func (NoSubmodulesResolver) ResolveNested(_ context.Context, root srcscan.Provenance) (srcscan.NestedProvenance, error) {
	return srcscan.NewNestedProvenance(root, nil)
}

// ResolveNested implements NestedResolver.
func (g *GitSubmoduleResolver) ResolveNested(ctx context.Context, root srcscan.Provenance) (srcscan.NestedProvenance, error) {
	if !root.Known() {
		return srcscan.NestedProvenance{}, &srcscan.Error{
			Kind:    srcscan.ErrResolution,
			Op:      "GitSubmoduleResolver.ResolveNested",
			Message: "root provenance is not Known",
		}
	}
	rp, ok := root.Repository()
	if !ok {
		// Artifact provenances never have sub-modules.
		return srcscan.NewNestedProvenance(root, nil)
	}
	if rp.Kind != srcscan.VCSGit {
		return srcscan.NewNestedProvenance(root, nil)
	}

	path := filepath.Join(g.CheckoutRoot, sanitizeRemote(rp.URL))
	mods, err := parseGitmodules(filepath.Join(path, ".gitmodules"))
	if os.IsNotExist(err) {
		return srcscan.NewNestedProvenance(root, nil)
	}
	if err != nil {
		return srcscan.NestedProvenance{}, &srcscan.Error{
			Kind:    srcscan.ErrResolution,
			Op:      "GitSubmoduleResolver.ResolveNested",
			Message: "reading .gitmodules",
			Inner:   err,
		}
	}

	subs := make(map[string]srcscan.Provenance, len(mods))
	for _, m := range mods {
		rev, revErr := submoduleRevision(ctx, path, m.path)
		if revErr != nil {
			return srcscan.NestedProvenance{}, &srcscan.Error{
				Kind:    srcscan.ErrResolution,
				Op:      "GitSubmoduleResolver.ResolveNested",
				Message: "reading submodule revision for " + m.path,
				Inner:   revErr,
			}
		}
		sub := srcscan.RepositoryProvenance{
			Kind:              srcscan.VCSGit,
			URL:               m.url,
			RequestedRevision: rev,
			ResolvedRevision:  rev,
			Path:              m.path,
		}
		if g.VCS != nil {
			resolved, err := g.VCS.ResolveRevision(ctx, srcscan.VCSDescriptor{
				Kind:              sub.Kind,
				URL:               sub.URL,
				RequestedRevision: rev,
				Path:              sub.Path,
			})
			if err != nil {
				return srcscan.NestedProvenance{}, &srcscan.Error{
					Kind:    srcscan.ErrResolution,
					Op:      "GitSubmoduleResolver.ResolveNested",
					Message: "resolving submodule revision for " + m.path,
					Inner:   err,
				}
			}
			sub = resolved
		}
		subs[m.path] = srcscan.NewRepositoryProvenance(sub)
	}

	return srcscan.NewNestedProvenance(root, subs)
}

type gitmodule struct {
	path, url string
}

// parseGitmodules reads a .gitmodules file's [submodule "name"] sections for
// their path and url keys. It's a minimal reader for the subset of git config
// syntax .gitmodules files actually use; full git config parsing (quoting,
// includes, multi-valued keys) is out of scope since submodule declarations
// never need it.
func parseGitmodules(path string) ([]gitmodule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var mods []gitmodule
	var cur *gitmodule
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "[submodule"):
			if cur != nil {
				mods = append(mods, *cur)
			}
			cur = &gitmodule{}
		case cur == nil:
			continue
		case strings.HasPrefix(line, "path"):
			cur.path = valueOf(line)
		case strings.HasPrefix(line, "url"):
			cur.url = valueOf(line)
		}
	}
	if cur != nil {
		mods = append(mods, *cur)
	}
	return mods, sc.Err()
}

func valueOf(kv string) string {
	i := strings.IndexByte(kv, '=')
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(kv[i+1:])
}

// submoduleRevision reads the commit a submodule is pinned to from the
// superproject's HEAD tree (`git ls-tree HEAD <path>`).
func submoduleRevision(ctx context.Context, repoPath, subPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-tree", "HEAD", subPath)
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(out))
	if len(fields) < 3 {
		return "", &srcscan.Error{
			Kind:    srcscan.ErrResolution,
			Op:      "submoduleRevision",
			Message: "unexpected `git ls-tree` output for " + subPath,
		}
	}
	return fields[2], nil
}
