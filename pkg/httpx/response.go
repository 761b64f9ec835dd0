package httpx

import (
	"encoding/json"
	"net/http"
)

// DetailResponse is the error envelope used by every endpoint:
// {"detail": "<message>"} or {"detail": [<field errors>]}.
type DetailResponse struct {
	Detail any `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes {"detail": msg} with the given status code.
func WriteDetail(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, DetailResponse{Detail: msg})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
