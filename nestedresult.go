package srcscan

import "sort"

// NestedProvenanceScanResult is a NestedProvenance plus a mapping from each
// provenance in that tree to the list of ScanResults produced for it
// (possibly by multiple scanners).
type NestedProvenanceScanResult struct {
	Nested      NestedProvenance
	ScanResults map[Provenance][]ScanResult
}

// NewNestedProvenanceScanResult constructs an empty NestedProvenanceScanResult
// for the given tree.
func NewNestedProvenanceScanResult(nested NestedProvenance) NestedProvenanceScanResult {
	return NestedProvenanceScanResult{
		Nested:      nested,
		ScanResults: make(map[Provenance][]ScanResult, 1+len(nested.SubRepositories)),
	}
}

// SortFindings sorts every ScanResult's findings by (path, start-line,
// end-line, value), so per-provenance finding sets are stable under equal
// inputs.
func (n NestedProvenanceScanResult) SortFindings() {
	for prov, results := range n.ScanResults {
		for i := range results {
			sortLicenseFindings(results[i].Summary.Licenses)
			sortCopyrightFindings(results[i].Summary.Copyrights)
		}
		n.ScanResults[prov] = results
	}
}

func sortLicenseFindings(f []LicenseFinding) {
	sort.Slice(f, func(i, j int) bool {
		a, b := f[i].Location, f[j].Location
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.EndLine != b.EndLine {
			return a.EndLine < b.EndLine
		}
		return f[i].License < f[j].License
	})
}

func sortCopyrightFindings(f []CopyrightFinding) {
	sort.Slice(f, func(i, j int) bool {
		a, b := f[i].Location, f[j].Location
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.EndLine != b.EndLine {
			return a.EndLine < b.EndLine
		}
		return f[i].Statement < f[j].Statement
	})
}
