package export

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/engine"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

const maxSceneSize = 1 << 20 // 1MB

type Handler struct {
	depthLimit int
}

func NewHandler(depthLimit int) *Handler {
	return &Handler{depthLimit: depthLimit}
}

// ExportSVG renders a posted scene document, reflections included, to a
// standalone SVG. The scene is validated the same way a live session
// validates it; the depth cap applies here too since the request body is
// caller-controlled.
func (h *Handler) ExportSVG(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSceneSize)

	var s scene.Scene
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "invalid scene JSON", http.StatusBadRequest)
		return
	}

	if err := s.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.MaxDepth > h.depthLimit {
		http.Error(w, "maxDepth exceeds server limit", http.StatusBadRequest)
		return
	}

	mirrors, err := engine.MirrorsFromScene(&s)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	refl, err := engine.CalculateAllReflectionsWithViewer(s.Objects, s.Viewer, mirrors, s.MaxDepth)
	if err != nil {
		slog.Error("compute reflections for export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="mirrorbox.svg"`)
	w.Write(RenderSVG(&s, refl))
}
