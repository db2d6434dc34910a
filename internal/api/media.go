package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// MediaHandler serves stored entry images from the media directory.
type MediaHandler struct {
	root string
}

// NewMediaHandler creates a handler rooted at the media directory.
func NewMediaHandler(root string) *MediaHandler {
	return &MediaHandler{root: root}
}

// safePath validates the requested path and resolves it under the media
// root. Traversal outside the root is rejected.
func (h *MediaHandler) safePath(name string) (string, bool) {
	if name == "" || strings.Contains(name, "..") {
		return "", false
	}
	abs := filepath.Join(h.root, filepath.FromSlash(filepath.Clean("/"+name)))
	if !strings.HasPrefix(abs, h.root+string(os.PathSeparator)) {
		return "", false
	}
	return abs, true
}

// ServeFile handles GET /media/*.
func (h *MediaHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	abs, ok := h.safePath(name)
	if !ok {
		http.Error(w, "invalid media path", http.StatusBadRequest)
		return
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
