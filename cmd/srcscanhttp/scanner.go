package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/scanner"
)

// remoteBackend builds a provenance-granular Backend that posts the
// provenance to a scanner service and decodes the ScanResult it returns.
// The service is expected to accept `{"provenance": "<canonical>"}` at
// /scan and respond with a JSON-encoded ScanResult.
func remoteBackend(conf Config, cl *http.Client) scanner.Backend {
	details := srcscan.Details{Name: conf.ScannerName, Version: conf.ScannerVersion}
	criteria := srcscan.Criteria{
		NamePattern: conf.ScannerName,
		MinVersion:  conf.ScannerVersion,
	}
	return scanner.NewProvenanceBackend(details, criteria, func(ctx context.Context, p srcscan.Provenance) (srcscan.ScanResult, error) {
		body, err := json.Marshal(struct {
			Provenance string `json:"provenance"`
		}{Provenance: p.Canonical()})
		if err != nil {
			return srcscan.ScanResult{}, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, conf.ScannerURL+"/scan", bytes.NewReader(body))
		if err != nil {
			return srcscan.ScanResult{}, err
		}
		req.Header.Set("content-type", "application/json")
		resp, err := cl.Do(req)
		if err != nil {
			return srcscan.ScanResult{}, &srcscan.Error{Kind: srcscan.ErrScanner, Op: "remoteBackend", Message: "posting scan request", Inner: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return srcscan.ScanResult{}, &srcscan.Error{Kind: srcscan.ErrScanner, Op: "remoteBackend", Message: fmt.Sprintf("scanner service returned %s", resp.Status)}
		}
		var result srcscan.ScanResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return srcscan.ScanResult{}, &srcscan.Error{Kind: srcscan.ErrScanner, Op: "remoteBackend", Message: "decoding scan result", Inner: err}
		}
		result.Scanner = details
		return result, nil
	})
}
