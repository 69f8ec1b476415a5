package engine

import (
	"encoding/json"
	"sort"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

// DrawCommand is a single drawing operation for the frontend to execute on
// its canvas/SVG layer. Commands are emitted in painter's order.
type DrawCommand struct {
	Op       string        `json:"op"` // "mirror", "polygon", "circle"
	ObjectID string        `json:"objectId,omitempty"`
	Virtual  bool          `json:"virtual,omitempty"`
	Depth    int           `json:"depth,omitempty"`
	Points   []scene.Point `json:"points,omitempty"` // polygon vertices
	X        float64       `json:"x,omitempty"`      // circle center
	Y        float64       `json:"y,omitempty"`
	R        float64       `json:"r,omitempty"` // circle radius
	X1       float64       `json:"x1,omitempty"`
	Y1       float64       `json:"y1,omitempty"`
	X2       float64       `json:"x2,omitempty"`
	Y2       float64       `json:"y2,omitempty"`
	Fill     string        `json:"fill,omitempty"`
	Opacity  float64       `json:"opacity,omitempty"`
}

// CompileDrawCommands flattens a scene plus its reflection set into a draw
// command buffer. Painter's order: mirror lines, then virtual images
// deepest-first (so shallower, brighter images paint on top), then the real
// objects, then the real viewer.
func CompileDrawCommands(s *scene.Scene, refl *ReflectionSet) []DrawCommand {
	if s == nil {
		return nil
	}

	var commands []DrawCommand

	for _, m := range s.Mirrors {
		commands = append(commands, DrawCommand{
			Op:       "mirror",
			ObjectID: m.ID,
			X1:       m.X1, Y1: m.Y1, X2: m.X2, Y2: m.Y2,
		})
	}

	if refl != nil {
		virtuals := make([]VirtualObject, len(refl.VirtualObjects))
		copy(virtuals, refl.VirtualObjects)
		sort.SliceStable(virtuals, func(i, j int) bool {
			return virtuals[i].Depth > virtuals[j].Depth
		})
		for _, v := range virtuals {
			commands = append(commands, DrawCommand{
				Op:       "polygon",
				ObjectID: v.ObjectID,
				Virtual:  true,
				Depth:    v.Depth,
				Points:   v.Vertices,
				Fill:     v.Fill,
				Opacity:  v.Opacity,
			})
		}

		viewers := make([]VirtualViewer, len(refl.VirtualViewers))
		copy(viewers, refl.VirtualViewers)
		sort.SliceStable(viewers, func(i, j int) bool {
			return viewers[i].Depth > viewers[j].Depth
		})
		for _, v := range viewers {
			commands = append(commands, DrawCommand{
				Op:       "circle",
				ObjectID: v.ViewerID,
				Virtual:  true,
				Depth:    v.Depth,
				X:        v.Position.X,
				Y:        v.Position.Y,
				R:        v.Radius,
				Fill:     v.Fill,
				Opacity:  v.Opacity,
			})
		}
	}

	for _, obj := range s.Objects {
		commands = append(commands, DrawCommand{
			Op:       "polygon",
			ObjectID: obj.ID,
			Points:   obj.Vertices,
			Fill:     obj.Fill,
			Opacity:  1,
		})
	}

	if s.Viewer != nil {
		commands = append(commands, DrawCommand{
			Op:       "circle",
			ObjectID: s.Viewer.ID,
			X:        s.Viewer.Position.X,
			Y:        s.Viewer.Position.Y,
			R:        s.Viewer.Radius,
			Fill:     s.Viewer.Fill,
			Opacity:  1,
		})
	}

	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the ID of the topmost real entity containing the point,
// or empty string. Only real entities are draggable, so virtual images are
// never hit. The viewer is drawn last and therefore tested first; objects
// are tested in reverse scene order (later objects paint on top).
func HitTest(s *scene.Scene, x, y float64) string {
	if s == nil {
		return ""
	}

	if v := s.Viewer; v != nil {
		dx := x - v.Position.X
		dy := y - v.Position.Y
		if dx*dx+dy*dy <= v.Radius*v.Radius {
			return v.ID
		}
	}

	for i := len(s.Objects) - 1; i >= 0; i-- {
		if pointInPolygon(scene.Point{X: x, Y: y}, s.Objects[i].Vertices) {
			return s.Objects[i].ID
		}
	}

	return ""
}

// pointInPolygon uses the even-odd ray crossing rule.
func pointInPolygon(p scene.Point, vertices []scene.Point) bool {
	inside := false
	n := len(vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}
