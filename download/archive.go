package download

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/srcscan/srcscan"
)

// HTTPArtifactDownloader fetches an archive over HTTP and extracts it into
// the target directory, validating the streamed bytes against the
// provenance's hash as they're read rather than after the fact.
type HTTPArtifactDownloader struct {
	Client *http.Client
}

var _ Downloader = (*HTTPArtifactDownloader)(nil)

// Download implements Downloader. known must be an Artifact provenance.
func (d *HTTPArtifactDownloader) Download(ctx context.Context, known srcscan.Provenance, dir string) error {
	const op = "download.HTTPArtifactDownloader.Download"
	ap, ok := known.Artifact()
	if !ok {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "provenance is not an Artifact"}
	}

	cl := d.Client
	if cl == nil {
		cl = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ap.URL, nil)
	if err != nil {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "building request", Inner: err}
	}
	resp, err := cl.Do(req)
	if err != nil {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "fetching " + ap.URL, Inner: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: fmt.Sprintf("unexpected status %s for %s", resp.Status, ap.URL)}
	}

	var r io.Reader = resp.Body
	var vh hash.Hash
	if ap.Hash.Algorithm() != "" {
		vh = ap.Hash.Hash()
		r = io.TeeReader(resp.Body, vh)
	}

	if err := extractArchive(r, ap.URL, dir); err != nil {
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "extracting " + ap.URL, Inner: err}
	}

	if vh != nil {
		// Extraction can stop before the end of the body (tar padding after
		// the end-of-archive marker); hash the rest so the whole archive is
		// covered.
		if _, err := io.Copy(io.Discard, r); err != nil {
			return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "reading " + ap.URL, Inner: err}
		}
		if got, want := vh.Sum(nil), ap.Hash.Checksum(); !hashEqual(got, want) {
			return &srcscan.Error{Kind: srcscan.ErrDownload, Op: op, Message: "checksum mismatch for " + ap.URL}
		}
	}
	return nil
}

func hashEqual(got, want []byte) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// extractArchive detects the archive's kind from the URL's extension and
// extracts r's contents into dir.
func extractArchive(r io.Reader, url, dir string) error {
	switch {
	case strings.HasSuffix(url, ".tar.gz") || strings.HasSuffix(url, ".tgz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("download: opening gzip stream: %w", err)
		}
		defer gz.Close()
		return extractTar(gz, dir)
	case strings.HasSuffix(url, ".tar"):
		return extractTar(r, dir)
	case strings.HasSuffix(url, ".zip"):
		return extractZip(r, dir)
	default:
		return fmt.Errorf("download: cannot determine archive kind from %q", url)
	}
}

func extractTar(r io.Reader, dir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("download: reading tar header: %w", err)
		}
		target, err := safeJoin(dir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode&0o777))
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
}

func extractZip(r io.Reader, dir string) error {
	// zip.Reader needs an io.ReaderAt; spool to a temp file rather than
	// buffering the whole archive in memory.
	tmp, err := os.CreateTemp("", "srcscan-download-*.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(tmp, size)
	if err != nil {
		return fmt.Errorf("download: opening zip: %w", err)
	}
	for _, f := range zr.File {
		target, err := safeJoin(dir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
		if err != nil {
			rc.Close()
			return err
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		closeErr := out.Close()
		if copyErr != nil {
			return copyErr
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}

// safeJoin joins dir and name, rejecting names that would escape dir via
// ".." path traversal (a zip-slip / tar-slip guard).
func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) && target != filepath.Clean(dir) {
		return "", fmt.Errorf("download: archive entry %q escapes destination directory", name)
	}
	return target, nil
}
