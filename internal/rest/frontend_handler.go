package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FrontendHandler serves the built single-page frontend from a directory,
// falling back to the index file for client-side routes.
type FrontendHandler struct {
	dir        string
	indexFile  string
	fileServer http.Handler
}

func NewFrontendHandler(dir, indexFile string) *FrontendHandler {
	return &FrontendHandler{
		dir:        dir,
		indexFile:  indexFile,
		fileServer: http.FileServer(http.Dir(dir)),
	}
}

func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = h.indexFile
	}

	if _, err := os.Stat(filepath.Join(h.dir, filepath.Clean(path))); err != nil {
		// Unknown path: let the SPA router handle it.
		http.ServeFile(w, r, filepath.Join(h.dir, h.indexFile))
		return
	}
	h.fileServer.ServeHTTP(w, r)
}
