package srcscan

import (
	"path"
	"strings"
)

// Criteria is a predicate over Details used to decide whether a cached
// result is acceptable: a result with details D satisfies criteria C iff
// C.NamePattern matches D.Name, D.Version lies in [C.MinVersion,
// C.MaxVersion], and C.ConfigOK(D.ConfigFingerprint) holds.
//
// NamePattern follows path.Match syntax.
type Criteria struct {
	NamePattern string
	MinVersion  string
	MaxVersion  string
	// ConfigOK is consulted against the candidate's ConfigFingerprint. A nil
	// ConfigOK accepts any fingerprint.
	ConfigOK func(fingerprint string) bool
}

// Satisfies reports whether d satisfies c.
func (c Criteria) Satisfies(d Details) bool {
	if c.NamePattern != "" {
		ok, err := path.Match(c.NamePattern, d.Name)
		if err != nil || !ok {
			return false
		}
	}
	if c.MinVersion != "" && compareVersions(d.Version, c.MinVersion) < 0 {
		return false
	}
	if c.MaxVersion != "" && compareVersions(d.Version, c.MaxVersion) > 0 {
		return false
	}
	if c.ConfigOK != nil && !c.ConfigOK(d.ConfigFingerprint) {
		return false
	}
	return true
}

// ExactConfig returns a ConfigOK predicate that accepts only fingerprints
// equal to want. This backs the "configuration" scanner-configuration key,
// which relaxes the config-compatibility predicate to exact-string match.
func ExactConfig(want string) func(string) bool {
	return func(got string) bool { return got == want }
}

// compareVersions does a dotted-numeric, then lexical, comparison. Versions
// in this domain are scanner release versions, not semver ranges with
// pre-release metadata, so a segment-wise comparator covers them. A
// segment missing from the shorter version counts as "0", so "1.0" and
// "1.0.0" compare equal.
func compareVersions(a, b string) int {
	if a == b {
		return 0
	}
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := "0", "0"
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av == bv {
			continue
		}
		an, aOK := parseUint(av)
		bn, bOK := parseUint(bv)
		if aOK && bOK {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				continue
			}
		}
		if av < bv {
			return -1
		}
		return 1
	}
	return 0
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
