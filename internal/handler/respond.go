package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// errorResponse is the uniform error body for all non-2xx responses.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

// writeError responds with the uniform error body. Business-rule rejections
// use 422 with the verbatim rejection reason; malformed input uses 400;
// unknown resources 404; collaborator I/O failures 502 so clients can tell a
// transient backend outage apart from a deliberate refusal.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Code: status, Message: message})
}

// writeUpstreamError logs the collaborator failure and responds 502 with a
// message worded as transient, distinct from business rejections.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("collaborator failure", zap.Error(err))
	writeError(w, r, http.StatusBadGateway, "a backend lookup failed, please try again")
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
