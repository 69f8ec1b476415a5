package scene

// NewDefaultScene builds the standard demo scene: a closed box of four
// mirrors with two colored polygons and a viewer inside. The frontend
// playground and freshly created rooms both start from this.
func NewDefaultScene(sceneID string) *Scene {
	return &Scene{
		ID:         sceneID,
		Name:       "Mirror Box",
		Width:      800,
		Height:     600,
		Background: "#1a1a2e",
		MaxDepth:   2,
		Mirrors: []MirrorSpec{
			{ID: "mirror_left", X1: 100, Y1: 100, X2: 100, Y2: 500},
			{ID: "mirror_right", X1: 700, Y1: 100, X2: 700, Y2: 500},
			{ID: "mirror_top", X1: 100, Y1: 100, X2: 700, Y2: 100},
			{ID: "mirror_bottom", X1: 100, Y1: 500, X2: 700, Y2: 500},
		},
		Objects: []Object{
			{
				ID:   "obj_triangle",
				Fill: "#e94560",
				Vertices: []Point{
					{X: 300, Y: 250},
					{X: 360, Y: 250},
					{X: 330, Y: 200},
				},
			},
			{
				ID:   "obj_square",
				Fill: "#0f3460",
				Vertices: []Point{
					{X: 480, Y: 340},
					{X: 540, Y: 340},
					{X: 540, Y: 400},
					{X: 480, Y: 400},
				},
			},
		},
		Viewer: &Viewer{
			ID:       "viewer_main",
			Position: Point{X: 400, Y: 300},
			Radius:   12,
			Fill:     "#f5c518",
		},
	}
}
