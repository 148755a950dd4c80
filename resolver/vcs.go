package resolver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	mastervcs "github.com/Masterminds/vcs"

	"github.com/srcscan/srcscan"
)

// HTTPArtifactValidator validates an artifact descriptor by issuing a HEAD
// request against its URL, confirming the archive exists before any real
// GET is attempted.
type HTTPArtifactValidator struct {
	Client *http.Client
}

var _ ArtifactValidator = (*HTTPArtifactValidator)(nil)

// ValidateArtifact implements ArtifactValidator.
func (v *HTTPArtifactValidator) ValidateArtifact(ctx context.Context, d srcscan.ArtifactDescriptor) (srcscan.ArtifactProvenance, error) {
	cl := v.Client
	if cl == nil {
		cl = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.URL, nil)
	if err != nil {
		return srcscan.ArtifactProvenance{}, fmt.Errorf("resolver: building HEAD request: %w", err)
	}
	resp, err := cl.Do(req)
	if err != nil {
		return srcscan.ArtifactProvenance{}, fmt.Errorf("resolver: probing artifact: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return srcscan.ArtifactProvenance{}, fmt.Errorf("resolver: artifact HEAD returned %s", resp.Status)
	}
	return srcscan.ArtifactProvenance{URL: d.URL, Hash: d.Hash}, nil
}

// CheckoutVCSValidator resolves a VCS descriptor's requested revision to an
// immutable resolved revision by actually checking the repository out (or
// updating an existing checkout) under Root and reading back the revision
// vcs.Repo settled on.
type CheckoutVCSValidator struct {
	// Root is the base directory under which per-repository checkouts are
	// kept, one subdirectory per sanitized remote URL.
	Root string
}

var _ VCSValidator = (*CheckoutVCSValidator)(nil)

// ResolveRevision implements VCSValidator.
func (v *CheckoutVCSValidator) ResolveRevision(ctx context.Context, d srcscan.VCSDescriptor) (srcscan.RepositoryProvenance, error) {
	if err := ctx.Err(); err != nil {
		return srcscan.RepositoryProvenance{}, err
	}
	path := filepath.Join(v.Root, sanitizeRemote(d.URL))

	repo, err := newMasterRepo(d.Kind, d.URL, path)
	if err != nil {
		return srcscan.RepositoryProvenance{}, fmt.Errorf("resolver: constructing repo handle: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := repo.Get(); err != nil {
			return srcscan.RepositoryProvenance{}, fmt.Errorf("resolver: cloning %s: %w", d.URL, err)
		}
	} else if err := repo.Update(); err != nil {
		return srcscan.RepositoryProvenance{}, fmt.Errorf("resolver: updating %s: %w", d.URL, err)
	}

	if d.RequestedRevision != "" {
		if err := repo.UpdateVersion(d.RequestedRevision); err != nil {
			return srcscan.RepositoryProvenance{}, fmt.Errorf("resolver: checking out %q: %w", d.RequestedRevision, err)
		}
	}

	rev, err := repo.Version()
	if err != nil {
		return srcscan.RepositoryProvenance{}, fmt.Errorf("resolver: reading resolved revision: %w", err)
	}

	return srcscan.RepositoryProvenance{
		Kind:              d.Kind,
		URL:               d.URL,
		RequestedRevision: d.RequestedRevision,
		ResolvedRevision:  rev,
		Path:              d.Path,
	}, nil
}

func newMasterRepo(kind srcscan.VCSKind, remote, local string) (mastervcs.Repo, error) {
	switch kind {
	case srcscan.VCSGit:
		return mastervcs.NewGitRepo(remote, local)
	case srcscan.VCSSvn:
		return mastervcs.NewSvnRepo(remote, local)
	case srcscan.VCSBzr:
		return mastervcs.NewBzrRepo(remote, local)
	case srcscan.VCSHg:
		return mastervcs.NewHgRepo(remote, local)
	default:
		return nil, fmt.Errorf("resolver: unsupported VCS kind %q", kind)
	}
}

func sanitizeRemote(remote string) string {
	out := make([]byte, 0, len(remote))
	for i := 0; i < len(remote); i++ {
		c := remote[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out = append(out, c)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
