// Package site serves the embedded event pages: the public leaderboard
// with the submission form, and the operator page.
package site

import (
	"context"
	"errors"
	"net/http"
)

// ErrServe indicates the embedded site could not be served.
var ErrServe = errors.New("site serve failed")

// Register attaches the embedded site routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("/", files)
}

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot serves the embedded event pages.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	files := http.FileServer(FS())
	files.ServeHTTP(w, r)
}
