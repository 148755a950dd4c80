// Package splitter partitions a package-granular ScanResult's findings
// across the sub-trees of a NestedProvenance by the path each finding
// lives at.
//
// The path-boundary prefix lookup is backed by a radix tree; the root is
// inserted under the empty key and every sub-repository prefix key is
// suffixed with "/" before insertion so a LongestPrefix query
// (itself suffixed with "/") can only match at a path boundary, never
// partway through a path segment.
package splitter

import (
	"github.com/armon/go-radix"

	"github.com/srcscan/srcscan"
)

// Split partitions result's findings across nested's provenances, producing
// one ScanResult per provenance that has at least the scanner identity,
// time bounds, and issues of the input, with only the findings that belong
// to that sub-tree.
//
// Verification codes are not recomputed per slice; each slice carries the
// input's verification code unchanged, which is therefore only approximate
// for any slice narrower than the whole tree.
func Split(result srcscan.ScanResult, nested srcscan.NestedProvenance) map[srcscan.Provenance]srcscan.ScanResult {
	t := radix.New()
	t.Insert("", nested.Root)
	for path, prov := range nested.SubRepositories {
		t.Insert(path+"/", prov)
	}

	out := make(map[srcscan.Provenance]srcscan.ScanResult, 1+len(nested.SubRepositories))
	emptyFor := func(prov srcscan.Provenance) srcscan.ScanResult {
		return srcscan.ScanResult{
			Provenance: prov,
			Scanner:    result.Scanner,
			Summary: srcscan.ScanSummary{
				Start:            result.Summary.Start,
				End:              result.Summary.End,
				VerificationCode: result.Summary.VerificationCode,
				Issues:           append([]srcscan.Issue(nil), result.Summary.Issues...),
			},
		}
	}
	for _, prov := range nested.All() {
		out[prov] = emptyFor(prov)
	}

	assign := func(path string) srcscan.Provenance {
		_, v, ok := t.LongestPrefix(path + "/")
		if !ok {
			return nested.Root
		}
		return v.(srcscan.Provenance)
	}

	for _, f := range result.Summary.Licenses {
		prov := assign(f.Location.Path)
		sr := out[prov]
		sr.Summary.Licenses = append(sr.Summary.Licenses, f)
		out[prov] = sr
	}
	for _, f := range result.Summary.Copyrights {
		prov := assign(f.Location.Path)
		sr := out[prov]
		sr.Summary.Copyrights = append(sr.Summary.Copyrights, f)
		out[prov] = sr
	}

	return out
}
