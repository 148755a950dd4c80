package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	mastervcs "github.com/Masterminds/vcs"

	"github.com/srcscan/srcscan"
)

// VCSArtifactDownloader clones (or reuses a cached clone of) a repository
// and exports the resolved revision's tree into dir: check out into a
// cache-local working copy, then export a clean copy of the tree rather
// than handing back the working copy itself, which still carries .git and
// any local state.
type VCSArtifactDownloader struct {
	// CacheRoot is where per-repository working copies are kept.
	CacheRoot string
}

var _ Downloader = (*VCSArtifactDownloader)(nil)

// Download implements Downloader. known must be a Repository provenance
// with ResolvedRevision populated.
func (d *VCSArtifactDownloader) Download(ctx context.Context, known srcscan.Provenance, dir string) error {
	const op = "download.VCSArtifactDownloader.Download"
	rp, ok := known.Repository()
	if !ok {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "provenance is not a Repository"}
	}
	if rp.ResolvedRevision == "" {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "provenance has no resolved revision"}
	}

	workdir := filepath.Join(d.CacheRoot, sanitize(rp.URL))
	repo, err := newRepo(rp.Kind, rp.URL, workdir)
	if err != nil {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "constructing repo handle", Inner: err}
	}

	if _, err := os.Stat(workdir); os.IsNotExist(err) {
		if err := repo.Get(); err != nil {
			return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "cloning " + rp.URL, Inner: err}
		}
	} else if err := repo.Update(); err != nil {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "updating " + rp.URL, Inner: err}
	}

	if err := repo.UpdateVersion(rp.ResolvedRevision); err != nil {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "checking out " + rp.ResolvedRevision, Inner: err}
	}

	src := workdir
	if rp.Path != "" {
		src = filepath.Join(workdir, rp.Path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "creating destination", Inner: err}
	}
	if err := copyTree(src, dir); err != nil {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "exporting tree", Inner: err}
	}
	return nil
}

func newRepo(kind srcscan.VCSKind, remote, local string) (mastervcs.Repo, error) {
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
		return nil, fmt.Errorf("download: unsupported VCS kind %q", kind)
	}
}

func sanitize(remote string) string {
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

// copyTree recursively copies src into dst, skipping VCS metadata
// directories, which would otherwise leak the downloader's cache layout
// into the scanned tree.
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if info.IsDir() && (info.Name() == ".git" || info.Name() == ".svn" || info.Name() == ".hg" || info.Name() == ".bzr") {
			return filepath.SkipDir
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
