package resolver

import (
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/srcscan/srcscan"
)

// Qualifier keys consulted by PackageFromPURL. These are the conventional
// package-url qualifiers for source location; see the purl spec's
// known-qualifiers list.
const (
	qualifierDownloadURL = "download_url"
	qualifierChecksum    = "checksum"
	qualifierVCSURL      = "vcs_url"
)

// PackageFromPURL builds a srcscan.Package from a package-url string,
// mapping the download_url/checksum qualifiers onto the package's artifact
// descriptor and the vcs_url qualifier onto its VCS descriptor. The
// package's ID is the canonical form of the purl itself.
func PackageFromPURL(purl string) (srcscan.Package, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return srcscan.Package{}, fmt.Errorf("resolver: parsing purl %q: %w", purl, err)
	}
	pkg := srcscan.Package{ID: p.ToString()}
	q := p.Qualifiers.Map()

	if u := q[qualifierDownloadURL]; u != "" {
		pkg.Artifact.URL = u
		if cs := q[qualifierChecksum]; cs != "" {
			// Multiple checksums may be comma-separated; the first parseable
			// one wins.
			for _, c := range strings.Split(cs, ",") {
				d, err := srcscan.ParseDigest(strings.TrimSpace(c))
				if err == nil {
					pkg.Artifact.Hash = d
					break
				}
			}
		}
	}

	if v := q[qualifierVCSURL]; v != "" {
		kind, url, rev := splitVCSURL(v)
		pkg.VCS = srcscan.VCSDescriptor{
			Kind:              kind,
			URL:               url,
			RequestedRevision: rev,
			Path:              p.Subpath,
		}
	}

	return pkg, nil
}

// splitVCSURL takes a vcs_url qualifier value of the shape
// "<vcs_tool>+<transport>://<host>/<path>[@<revision>]" apart. A value with
// no "<vcs_tool>+" prefix, or an unrecognized tool, is returned with
// srcscan.VCSUnknownKind; the kind is not inferred from the URL.
func splitVCSURL(v string) (kind srcscan.VCSKind, url, revision string) {
	url = v
	if tool, rest, ok := strings.Cut(v, "+"); ok && !strings.Contains(tool, ":") {
		switch tool {
		case "git":
			kind = srcscan.VCSGit
		case "svn":
			kind = srcscan.VCSSvn
		case "bzr":
			kind = srcscan.VCSBzr
		case "hg":
			kind = srcscan.VCSHg
		}
		url = rest
	}
	if i := strings.LastIndex(url, "@"); i > strings.LastIndex(url, "/") {
		url, revision = url[:i], url[i+1:]
	}
	return kind, url, revision
}
