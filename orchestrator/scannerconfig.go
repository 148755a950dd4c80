package orchestrator

import (
	"strings"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/resolver"
	"github.com/srcscan/srcscan/scanner"
)

// parseScannerConfig applies `<scannerName>.criteria.<property>` overrides
// to scanners, returning a new slice (scanners itself is never mutated);
// when raw is empty, scanners is returned as is. Unrecognized keys and keys naming a scanner not present in scanners are
// ignored.
func parseScannerConfig(raw map[string]any, scanners []scanner.Backend) []scanner.Backend {
	if len(raw) == 0 {
		return scanners
	}
	out := make([]scanner.Backend, len(scanners))
	copy(out, scanners)
	for i, s := range out {
		crit := s.Criteria()
		prefix := s.Name() + ".criteria."
		if v, ok := stringProperty(raw, prefix+"regScannerName"); ok {
			crit.NamePattern = v
		}
		if v, ok := stringProperty(raw, prefix+"minScannerVersion"); ok {
			crit.MinVersion = v
		}
		if v, ok := stringProperty(raw, prefix+"maxScannerVersion"); ok {
			crit.MaxVersion = v
		}
		if v, ok := stringProperty(raw, prefix+"configuration"); ok {
			crit.ConfigOK = srcscan.ExactConfig(v)
		}
		out[i] = s.WithCriteria(crit)
	}
	return out
}

func stringProperty(raw map[string]any, key string) (string, bool) {
	v, ok := raw[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// parseSourceCodeOrigins parses the `sourceCodeOrigins` downloader-
// configuration key into a resolver.Origin priority list. It returns
// nil, false if the key is absent or malformed, leaving the caller's
// existing default priority untouched.
func parseSourceCodeOrigins(raw map[string]any) ([]resolver.Origin, bool) {
	v, ok := raw["sourceCodeOrigins"]
	if !ok {
		return nil, false
	}
	list, ok := v.([]string)
	if !ok {
		if anyList, ok := v.([]any); ok {
			list = make([]string, 0, len(anyList))
			for _, e := range anyList {
				s, ok := e.(string)
				if !ok {
					return nil, false
				}
				list = append(list, s)
			}
		} else {
			return nil, false
		}
	}
	out := make([]resolver.Origin, 0, len(list))
	for _, s := range list {
		switch strings.ToUpper(s) {
		case "ARTIFACT":
			out = append(out, resolver.OriginArtifact)
		case "VCS":
			out = append(out, resolver.OriginVCS)
		default:
			return nil, false
		}
	}
	return out, true
}
