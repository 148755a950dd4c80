// Package jsonerr renders HTTP error responses as JSON bodies.
package jsonerr

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON body written for a failed request. Additional, when
// set, must be JSON-serializable.
type Response struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Additional any    `json:"additional,omitempty"`
}

// Error works like http.Error but writes r as the response body. Like
// http.Error, the caller is expected to bail out of the handler afterwards.
func Error(w http.ResponseWriter, r *Response, httpcode int) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(httpcode)
	enc := json.NewEncoder(w)
	enc.Encode(r)
}
