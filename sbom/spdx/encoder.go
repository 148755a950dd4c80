package spdx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	spdxjson "github.com/spdx/tools-golang/json"
	"github.com/spdx/tools-golang/spdx/common"
	v2common "github.com/spdx/tools-golang/spdx/v2/common"
	"github.com/spdx/tools-golang/spdx/v2/v2_3"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/sbom"
)

type Creator struct {
	Creator string
	// In accordance to the SPDX v2 spec, CreatorType should be one of
	// "Person", "Organization", or "Tool"
	CreatorType string
}

var _ sbom.Encoder = (*Encoder)(nil)

// Encoder renders a NestedProvenanceScanResult as an SPDX document: one
// SPDX package per provenance in the tree, carrying the license and
// copyright findings every scanner reported for that provenance, with a
// CONTAINS relationship from the root to each sub-repository.
type Encoder struct {
	Version           Version
	Format            Format
	Creators          []Creator
	DocumentName      string
	DocumentNamespace string
	DocumentComment   string
}

// Encode encodes res to an io.Reader. The document is built as SPDX v2.3;
// V2_3 is the only supported Version and FormatJSON the only supported
// Format, and any other value is an error.
func (e *Encoder) Encode(ctx context.Context, res *srcscan.NestedProvenanceScanResult) (io.Reader, error) {
	doc, err := e.parseResult(ctx, res)
	if err != nil {
		return nil, err
	}

	var tmpConverterDoc common.AnyDocument
	switch e.Version {
	case V2_3:
		// parseResult currently returns a v2_3.Document so do nothing
		tmpConverterDoc = doc
	default:
		return nil, fmt.Errorf("unknown SPDX version: %v", e.Version)
	}

	switch e.Format {
	case FormatJSON:
		buf := &bytes.Buffer{}
		if err := spdxjson.Write(tmpConverterDoc, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}

	return nil, fmt.Errorf("unknown requested format: %v", e.Format)
}

func (e *Encoder) parseResult(ctx context.Context, res *srcscan.NestedProvenanceScanResult) (*v2_3.Document, error) {
	creatorInfo := e.Creators
	spdxCreators := make([]v2common.Creator, len(creatorInfo))
	for i, creator := range creatorInfo {
		spdxCreators[i].Creator = creator.Creator
		spdxCreators[i].CreatorType = creator.CreatorType
	}

	out := &v2_3.Document{
		SPDXVersion:       v2_3.Version,
		DataLicense:       v2_3.DataLicense,
		SPDXIdentifier:    "DOCUMENT",
		DocumentName:      e.DocumentName,
		DocumentNamespace: e.DocumentNamespace,
		CreationInfo: &v2_3.CreationInfo{
			Creators: spdxCreators,
			Created:  time.Now().Format("2006-01-02T15:04:05Z"),
		},
		DocumentComment: e.DocumentComment,
	}

	// Paths gives "" (the root) first, then sub-repository paths in sorted
	// order, so the document is deterministic for equal inputs.
	var rootID v2common.ElementID
	for i, path := range res.Nested.Paths() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		prov, _ := res.Nested.ProvenanceAt(path)
		pkg := newSpdxPackageFromProvenance(i, path, prov, res.ScanResults[prov])
		out.Packages = append(out.Packages, pkg)
		if path == "" {
			rootID = pkg.PackageSPDXIdentifier
			out.Relationships = append(out.Relationships, &v2_3.Relationship{
				RefA:         v2common.MakeDocElementID("", "DOCUMENT"),
				RefB:         v2common.MakeDocElementID("", string(pkg.PackageSPDXIdentifier)),
				Relationship: "DESCRIBES",
			})
			continue
		}
		out.Relationships = append(out.Relationships, &v2_3.Relationship{
			RefA:         v2common.MakeDocElementID("", string(rootID)),
			RefB:         v2common.MakeDocElementID("", string(pkg.PackageSPDXIdentifier)),
			Relationship: "CONTAINS",
		})
	}

	return out, nil
}

func newSpdxPackageFromProvenance(idx int, path string, prov srcscan.Provenance, results []srcscan.ScanResult) *v2_3.Package {
	name := path
	if name == "" {
		name = prov.Canonical()
	}

	licenses := make(map[string]struct{})
	var copyrights []string
	seenCopyright := make(map[string]struct{})
	for _, r := range results {
		for _, f := range r.Summary.Licenses {
			licenses[f.License] = struct{}{}
		}
		for _, f := range r.Summary.Copyrights {
			if _, ok := seenCopyright[f.Statement]; ok {
				continue
			}
			seenCopyright[f.Statement] = struct{}{}
			copyrights = append(copyrights, f.Statement)
		}
	}
	licenseList := make([]string, 0, len(licenses))
	for l := range licenses {
		licenseList = append(licenseList, l)
	}
	sort.Strings(licenseList)
	sort.Strings(copyrights)

	copyrightText := "NONE"
	if len(copyrights) > 0 {
		copyrightText = strings.Join(copyrights, "\n")
	}

	return &v2_3.Package{
		PackageName:             name,
		PackageSPDXIdentifier:   v2common.ElementID(fmt.Sprintf("Provenance-%d", idx)),
		PackageDownloadLocation: downloadLocation(prov),
		FilesAnalyzed:           true,
		PackageLicenseInfoFromFiles: func() []string {
			if len(licenseList) == 0 {
				return []string{"NOASSERTION"}
			}
			return licenseList
		}(),
		PackageLicenseConcluded: "NOASSERTION",
		PackageLicenseDeclared:  "NOASSERTION",
		PackageCopyrightText:    copyrightText,
		PrimaryPackagePurpose:   "SOURCE",
	}
}

// downloadLocation renders a provenance in SPDX's download-location syntax:
// a plain URL for artifacts, "<vcs>+<url>@<revision>" for repositories,
// followed by "#<path>" when the repository provenance has an in-repo path.
func downloadLocation(prov srcscan.Provenance) string {
	switch {
	case prov.IsArtifact():
		a, _ := prov.Artifact()
		return a.URL
	case prov.IsRepository():
		r, _ := prov.Repository()
		loc := fmt.Sprintf("%s+%s@%s", r.Kind, r.URL, r.ResolvedRevision)
		if r.Path != "" {
			loc += "#" + r.Path
		}
		return loc
	default:
		return "NOASSERTION"
	}
}
