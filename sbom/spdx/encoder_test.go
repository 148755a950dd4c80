package spdx

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/spdx/tools-golang/spdx/v2/v2_3"

	"github.com/srcscan/srcscan"
)

func TestEncoder(t *testing.T) {
	root := srcscan.NewArtifactProvenance(srcscan.ArtifactProvenance{URL: "https://example.com/pkg-1.0.tar.gz"})
	sub := srcscan.NewRepositoryProvenance(srcscan.RepositoryProvenance{
		Kind:             srcscan.VCSGit,
		URL:              "https://example.com/lib.git",
		ResolvedRevision: "rev1",
		Path:             "third_party/lib",
	})
	nested, err := srcscan.NewNestedProvenance(root, map[string]srcscan.Provenance{"third_party/lib": sub})
	if err != nil {
		t.Fatal(err)
	}
	res := srcscan.NewNestedProvenanceScanResult(nested)
	res.ScanResults[root] = []srcscan.ScanResult{{
		Provenance: root,
		Scanner:    srcscan.Details{Name: "scancode", Version: "1"},
		Summary: srcscan.ScanSummary{
			Licenses: []srcscan.LicenseFinding{
				{Location: srcscan.TextLocation{Path: "LICENSE", StartLine: 1, EndLine: 20}, License: "Apache-2.0"},
				{Location: srcscan.TextLocation{Path: "src/a.c", StartLine: 1, EndLine: 3}, License: "MIT"},
			},
			Copyrights: []srcscan.CopyrightFinding{
				{Location: srcscan.TextLocation{Path: "src/a.c", StartLine: 1, EndLine: 1}, Statement: "Copyright (C) 2020 Example"},
			},
		},
	}}
	res.ScanResults[sub] = []srcscan.ScanResult{{
		Provenance: sub,
		Scanner:    srcscan.Details{Name: "scancode", Version: "1"},
		Summary: srcscan.ScanSummary{
			Licenses: []srcscan.LicenseFinding{
				{Location: srcscan.TextLocation{Path: "COPYING", StartLine: 1, EndLine: 10}, License: "GPL-2.0-only"},
			},
		},
	}}

	e := &Encoder{
		Version:           V2_3,
		Format:            FormatJSON,
		Creators:          []Creator{{Creator: "srcscan", CreatorType: "Tool"}},
		DocumentName:      "pkg-1.0",
		DocumentNamespace: "https://example.com/spdx/pkg-1.0",
	}
	r, err := e.Encode(context.Background(), &res)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	var doc v2_3.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("output is not a valid SPDX JSON document: %v", err)
	}
	if len(doc.Packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(doc.Packages))
	}
	rootPkg, subPkg := doc.Packages[0], doc.Packages[1]
	if rootPkg.PackageDownloadLocation != "https://example.com/pkg-1.0.tar.gz" {
		t.Errorf("root download location = %q", rootPkg.PackageDownloadLocation)
	}
	if got, want := rootPkg.PackageLicenseInfoFromFiles, []string{"Apache-2.0", "MIT"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("root licenses = %v, want %v", got, want)
	}
	if subPkg.PackageName != "third_party/lib" {
		t.Errorf("sub package name = %q", subPkg.PackageName)
	}
	if want := "git+https://example.com/lib.git@rev1#third_party/lib"; subPkg.PackageDownloadLocation != want {
		t.Errorf("sub download location = %q, want %q", subPkg.PackageDownloadLocation, want)
	}

	var describes, contains int
	for _, rel := range doc.Relationships {
		switch rel.Relationship {
		case "DESCRIBES":
			describes++
		case "CONTAINS":
			contains++
		}
	}
	if describes != 1 || contains != 1 {
		t.Errorf("got %d DESCRIBES and %d CONTAINS relationships, want 1 and 1", describes, contains)
	}
}
