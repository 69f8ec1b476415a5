package export

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/engine"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

func TestRenderSVG(t *testing.T) {
	s := scene.NewDefaultScene("scene_test")
	mirrors, err := engine.MirrorsFromScene(s)
	if err != nil {
		t.Fatal(err)
	}
	refl, err := engine.CalculateAllReflectionsWithViewer(s.Objects, s.Viewer, mirrors, s.MaxDepth)
	if err != nil {
		t.Fatal(err)
	}

	svg := string(RenderSVG(s, refl))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("missing svg root element")
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("missing closing tag")
	}
	if got := strings.Count(svg, "<line "); got != 4 {
		t.Errorf("got %d mirror lines, want 4", got)
	}
	// 32 virtual + 2 real polygons.
	if got := strings.Count(svg, "<polygon "); got != 34 {
		t.Errorf("got %d polygons, want 34", got)
	}
	// 16 virtual viewers + 1 real viewer.
	if got := strings.Count(svg, "<circle "); got != 17 {
		t.Errorf("got %d circles, want 17", got)
	}
	if !strings.Contains(svg, `fill-opacity="0.6"`) {
		t.Error("depth-2 images should render at opacity 0.6")
	}
}

func TestExportSVGHandler(t *testing.T) {
	h := NewHandler(4)

	body, _ := json.Marshal(scene.NewDefaultScene("scene_test"))
	req := httptest.NewRequest(http.MethodPost, "/export/svg", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.ExportSVG(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<polygon ") {
		t.Error("response does not look like a rendered scene")
	}
}

func TestExportSVGHandlerRejectsBadScene(t *testing.T) {
	h := NewHandler(4)

	tests := []struct {
		name   string
		mutate func(*scene.Scene)
	}{
		{"diagonal mirror", func(s *scene.Scene) {
			s.Mirrors[0] = scene.MirrorSpec{ID: "m", X1: 0, Y1: 0, X2: 10, Y2: 10}
		}},
		{"negative depth", func(s *scene.Scene) { s.MaxDepth = -1 }},
		{"depth above limit", func(s *scene.Scene) { s.MaxDepth = 9 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewDefaultScene("scene_test")
			tt.mutate(s)
			body, _ := json.Marshal(s)

			req := httptest.NewRequest(http.MethodPost, "/export/svg", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			h.ExportSVG(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
