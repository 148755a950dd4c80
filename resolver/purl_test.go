package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/srcscan/srcscan"
)

func TestPackageFromPURL(t *testing.T) {
	tests := []struct {
		name         string
		purl         string
		wantArtifact srcscan.ArtifactDescriptor
		wantVCS      srcscan.VCSDescriptor
	}{
		{
			name: "DownloadURL",
			purl: "pkg:generic/openssl@1.1.0g?download_url=https://openssl.org/source/openssl-1.1.0g.tar.gz&checksum=sha256:de4d501267da39310905cb6dc8c6121f7a2cad45a7707f76df828fe1b85073af",
			wantArtifact: srcscan.ArtifactDescriptor{
				URL:  "https://openssl.org/source/openssl-1.1.0g.tar.gz",
				Hash: srcscan.MustParseDigest("sha256:de4d501267da39310905cb6dc8c6121f7a2cad45a7707f76df828fe1b85073af"),
			},
		},
		{
			name: "VCSURL",
			purl: "pkg:generic/bitwarderl?vcs_url=git%2Bhttps://git.fsfe.org/dxtr/bitwarderl%40cc55108da32",
			wantVCS: srcscan.VCSDescriptor{
				Kind:              srcscan.VCSGit,
				URL:               "https://git.fsfe.org/dxtr/bitwarderl",
				RequestedRevision: "cc55108da32",
			},
		},
	}
	digestCmp := cmp.Comparer(func(a, b srcscan.Digest) bool { return a.String() == b.String() })
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PackageFromPURL(tc.purl)
			if err != nil {
				t.Fatalf("PackageFromPURL: %v", err)
			}
			if got.ID == "" {
				t.Error("expected a non-empty package ID")
			}
			if !cmp.Equal(got.Artifact, tc.wantArtifact, digestCmp) {
				t.Error(cmp.Diff(got.Artifact, tc.wantArtifact, digestCmp))
			}
			if !cmp.Equal(got.VCS, tc.wantVCS) {
				t.Error(cmp.Diff(got.VCS, tc.wantVCS))
			}
		})
	}
}

func TestSplitVCSURL(t *testing.T) {
	kind, url, rev := splitVCSURL("git+https://example.com/repo.git@rev1")
	if kind != srcscan.VCSGit || url != "https://example.com/repo.git" || rev != "rev1" {
		t.Fatalf("got (%q, %q, %q)", kind, url, rev)
	}
	kind, url, rev = splitVCSURL("https://example.com/repo.git")
	if kind != srcscan.VCSUnknownKind || url != "https://example.com/repo.git" || rev != "" {
		t.Fatalf("got (%q, %q, %q)", kind, url, rev)
	}
}
