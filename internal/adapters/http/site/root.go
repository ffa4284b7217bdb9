// Package site serves the API root banner.
package site

import (
	"context"
	"encoding/json"
	"net/http"
)

// Banner is the message served at the API root.
const Banner = "Cobblemon Academy Tracker API"

// Register attaches the root banner route to mux. Only the exact root path
// is served; unknown paths stay 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests.
type RootHandler struct {
	body []byte
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	body, _ := json.Marshal(map[string]string{"message": Banner})
	return &RootHandler{body: body}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(h.body)
}
