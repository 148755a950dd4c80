package srcscan

import "testing"

func TestProvenanceEqual(t *testing.T) {
	tt := []struct {
		name string
		a, b Provenance
		want bool
	}{
		{
			name: "same artifact",
			a:    NewArtifactProvenance(ArtifactProvenance{URL: "https://example.com/a.tar.gz"}),
			b:    NewArtifactProvenance(ArtifactProvenance{URL: "https://example.com/a.tar.gz"}),
			want: true,
		},
		{
			name: "different artifact url",
			a:    NewArtifactProvenance(ArtifactProvenance{URL: "https://example.com/a.tar.gz"}),
			b:    NewArtifactProvenance(ArtifactProvenance{URL: "https://example.com/b.tar.gz"}),
			want: false,
		},
		{
			name: "repository equal despite differing requested revision",
			a: NewRepositoryProvenance(RepositoryProvenance{
				Kind: VCSGit, URL: "https://example.com/r.git",
				RequestedRevision: "main", ResolvedRevision: "deadbeef",
			}),
			b: NewRepositoryProvenance(RepositoryProvenance{
				Kind: VCSGit, URL: "https://example.com/r.git",
				RequestedRevision: "HEAD", ResolvedRevision: "deadbeef",
			}),
			want: true,
		},
		{
			name: "repository differs by resolved revision",
			a: NewRepositoryProvenance(RepositoryProvenance{
				Kind: VCSGit, URL: "https://example.com/r.git", ResolvedRevision: "aaa",
			}),
			b: NewRepositoryProvenance(RepositoryProvenance{
				Kind: VCSGit, URL: "https://example.com/r.git", ResolvedRevision: "bbb",
			}),
			want: false,
		},
		{
			name: "artifact never equals repository",
			a:    NewArtifactProvenance(ArtifactProvenance{URL: "https://example.com/a.tar.gz"}),
			b:    NewRepositoryProvenance(RepositoryProvenance{Kind: VCSGit, URL: "https://example.com/a.tar.gz"}),
			want: false,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProvenanceCanonical(t *testing.T) {
	tt := []struct {
		name string
		p    Provenance
		want string
	}{
		{
			name: "artifact no hash",
			p:    NewArtifactProvenance(ArtifactProvenance{URL: "https://example.com/a.tar.gz"}),
			want: "artifact:https://example.com/a.tar.gz|",
		},
		{
			name: "repository",
			p: NewRepositoryProvenance(RepositoryProvenance{
				Kind: VCSGit, URL: "https://example.com/r.git",
				ResolvedRevision: "rev1", Path: "sub/lib",
			}),
			want: "vcs:git|https://example.com/r.git|rev1|sub/lib",
		},
		{
			name: "unknown",
			p:    UnknownProvenance,
			want: "",
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.Canonical(); got != tc.want {
				t.Errorf("Canonical() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProvenanceKindPredicates(t *testing.T) {
	if !UnknownProvenance.IsUnknown() {
		t.Error("zero value should be Unknown")
	}
	if UnknownProvenance.Known() {
		t.Error("Unknown must not be Known")
	}
	art := NewArtifactProvenance(ArtifactProvenance{URL: "u"})
	if !art.Known() || !art.IsArtifact() || art.IsRepository() {
		t.Error("artifact provenance misclassified")
	}
	repo := NewRepositoryProvenance(RepositoryProvenance{Kind: VCSGit, URL: "u", ResolvedRevision: "r"})
	if !repo.Known() || !repo.IsRepository() || repo.IsArtifact() {
		t.Error("repository provenance misclassified")
	}
}
