package orchestrator

import (
	"encoding/json"
	"net/http"

	"github.com/quay/zlog"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/pkg/jsonerr"
)

// HTTP exposes an Orchestrator over a single /scan endpoint.
type HTTP struct {
	*http.ServeMux
	o *Orchestrator
}

var _ http.Handler = (*HTTP)(nil)

// NewHandler wraps o in an HTTP handler.
func NewHandler(o *Orchestrator) *HTTP {
	h := &HTTP{o: o}
	m := http.NewServeMux()
	m.HandleFunc("/scan", h.Scan)
	h.ServeMux = m
	return h
}

// Scan accepts a JSON-encoded package list and returns the per-package
// nested result tree as JSON, keyed by package ID.
func (h *HTTP) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		jsonerr.Error(w, &jsonerr.Response{
			Code:    "method-not-allowed",
			Message: "endpoint only allows POST",
		}, http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Packages []srcscan.Package `json:"packages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		zlog.Debug(ctx).Err(err).Msg("could not deserialize request")
		jsonerr.Error(w, &jsonerr.Response{
			Code:    "bad-request",
			Message: "could not deserialize request: " + err.Error(),
		}, http.StatusBadRequest)
		return
	}

	results, err := h.o.Scan(ctx, req.Packages)
	if err != nil {
		zlog.Error(ctx).Err(err).Msg("scan failed")
		jsonerr.Error(w, &jsonerr.Response{
			Code:    "scan-error",
			Message: "failed to run scan: " + err.Error(),
		}, http.StatusInternalServerError)
		return
	}

	w.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		zlog.Error(ctx).Err(err).Msg("failed to serialize results")
	}
}
