package engine

import "github.com/mirrorbox/mirrorbox/backend-go/internal/scene"

// Visual decay per reflection depth: each bounce drops opacity by 0.2 down
// to a floor of 0.3, and lightens the fill toward white by 0.2 per bounce
// capped at 0.8.
const (
	minOpacity     = 0.3
	opacityFalloff = 0.2

	fillLightenStep = 0.2
	maxFillLighten  = 0.8
)

// OpacityForDepth returns max(0.3, 1 - depth*0.2).
func OpacityForDepth(depth int) float64 {
	o := 1.0 - float64(depth)*opacityFalloff
	if o < minOpacity {
		return minOpacity
	}
	return o
}

// fillForDepth lightens a fill color proportionally to depth.
func fillForDepth(fill string, depth int) string {
	amount := float64(depth) * fillLightenStep
	if amount > maxFillLighten {
		amount = maxFillLighten
	}
	return LightenColor(fill, amount)
}

// VirtualObject is one virtual image of a real object: the object it
// derives from (by ID, a non-owning reference into the scene), the ordered
// mirror chain that produced it (mirror indices into the scene's mirror
// list), and the fully reflected geometry. Virtual entities are rebuilt on
// every engine invocation and never mutated in place.
type VirtualObject struct {
	ObjectID string        `json:"objectId"`
	Chain    []int         `json:"chain"`
	Depth    int           `json:"depth"`
	Vertices []scene.Point `json:"vertices"`
	Opacity  float64       `json:"opacity"`
	Fill     string        `json:"fill"`
}

// VirtualViewer is the viewer's counterpart of VirtualObject.
type VirtualViewer struct {
	ViewerID string      `json:"viewerId"`
	Chain    []int       `json:"chain"`
	Depth    int         `json:"depth"`
	Position scene.Point `json:"position"`
	Radius   float64     `json:"radius"`
	Opacity  float64     `json:"opacity"`
	Fill     string      `json:"fill"`
}

// ReflectionSet is one complete engine result: every virtual image of every
// real object plus every virtual image of the viewer.
type ReflectionSet struct {
	VirtualObjects []VirtualObject `json:"virtualObjects"`
	VirtualViewers []VirtualViewer `json:"virtualViewers"`
}
