package static

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Handler serves the built web frontend from a directory, falling back to
// index.html for client-side routes.
type Handler struct {
	dir string
}

func NewHandler(dir string) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if name == "." || strings.HasPrefix(name, "..") {
		name = "index.html"
	}

	path := filepath.Join(h.dir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		path = filepath.Join(h.dir, "index.html")
	}

	http.ServeFile(w, r, path)
}
