package engine

import (
	"errors"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

// ErrNegativeDepth is returned when maxDepth < 0. Negative depth is a
// caller bug and is rejected rather than clamped to zero.
var ErrNegativeDepth = errors.New("maxDepth must be >= 0")

// expandChains is the reflection-chain tree search. Starting from a real
// entity's geometry, it applies the reflection primitive across every
// mirror except the one used last (a reflection immediately undoing itself
// produces a redundant chain), emitting one node per generated chain up to
// maxDepth. Geometry is carried forward and re-reflected at each step — a
// compositional fold over the chain, which is what makes images of images
// correct: the node for chain [A, B] is reflect(reflect(geometry, A), B).
//
// Cost is exponential in depth: a full box of 4 mirrors yields 4*3^(d-1)
// nodes at depth d. Callers keep maxDepth small (1 or 2 in practice).
//
// emit receives the chain (mirror indices, caller-owned copy), its depth,
// and the reflected vertices. Generation order is deterministic for a
// given input: mirrors in scene order at each level, depth-first.
func expandChains(vertices []scene.Point, mirrors []Mirror, maxDepth int, emit func(chain []int, depth int, reflected []scene.Point)) {
	var expand func(current []scene.Point, depth int, chain []int)
	expand = func(current []scene.Point, depth int, chain []int) {
		if depth >= maxDepth {
			return
		}
		for i, m := range mirrors {
			if len(chain) > 0 && chain[len(chain)-1] == i {
				continue
			}
			reflected := ReflectPolygon(current, m)
			newChain := make([]int, len(chain)+1)
			copy(newChain, chain)
			newChain[len(chain)] = i
			emit(newChain, depth+1, reflected)
			expand(reflected, depth+1, newChain)
		}
	}
	expand(vertices, 0, nil)
}

// GenerateVirtualObjects runs the chain-tree search rooted at one real
// object and materializes every chain into a VirtualObject, across all
// depths 1..maxDepth. An empty mirror set yields an empty result.
func GenerateVirtualObjects(obj scene.Object, mirrors []Mirror, maxDepth int) ([]VirtualObject, error) {
	if maxDepth < 0 {
		return nil, ErrNegativeDepth
	}

	var out []VirtualObject
	expandChains(obj.Vertices, mirrors, maxDepth, func(chain []int, depth int, reflected []scene.Point) {
		out = append(out, VirtualObject{
			ObjectID: obj.ID,
			Chain:    chain,
			Depth:    depth,
			Vertices: reflected,
			Opacity:  OpacityForDepth(depth),
			Fill:     fillForDepth(obj.Fill, depth),
		})
	})
	return out, nil
}

// GenerateVirtualViewers is the same search specialized to the viewer's
// single position point. A nil viewer yields an empty list without error.
func GenerateVirtualViewers(viewer *scene.Viewer, mirrors []Mirror, maxDepth int) ([]VirtualViewer, error) {
	if maxDepth < 0 {
		return nil, ErrNegativeDepth
	}
	if viewer == nil {
		return nil, nil
	}

	var out []VirtualViewer
	expandChains([]scene.Point{viewer.Position}, mirrors, maxDepth, func(chain []int, depth int, reflected []scene.Point) {
		out = append(out, VirtualViewer{
			ViewerID: viewer.ID,
			Chain:    chain,
			Depth:    depth,
			Position: reflected[0],
			Radius:   viewer.Radius,
			Opacity:  OpacityForDepth(depth),
			Fill:     fillForDepth(viewer.Fill, depth),
		})
	})
	return out, nil
}

// CalculateAllReflections generates virtual objects for every real object,
// object-major: all of the first object's images, then the second's, and
// so on.
func CalculateAllReflections(objects []scene.Object, mirrors []Mirror, maxDepth int) ([]VirtualObject, error) {
	if maxDepth < 0 {
		return nil, ErrNegativeDepth
	}

	var out []VirtualObject
	for _, obj := range objects {
		virtuals, err := GenerateVirtualObjects(obj, mirrors, maxDepth)
		if err != nil {
			return nil, err
		}
		out = append(out, virtuals...)
	}
	return out, nil
}

// CalculateAllReflectionsWithViewer computes the full reflection set for a
// scene's objects and viewer in one pass.
func CalculateAllReflectionsWithViewer(objects []scene.Object, viewer *scene.Viewer, mirrors []Mirror, maxDepth int) (*ReflectionSet, error) {
	virtualObjects, err := CalculateAllReflections(objects, mirrors, maxDepth)
	if err != nil {
		return nil, err
	}
	virtualViewers, err := GenerateVirtualViewers(viewer, mirrors, maxDepth)
	if err != nil {
		return nil, err
	}
	return &ReflectionSet{
		VirtualObjects: virtualObjects,
		VirtualViewers: virtualViewers,
	}, nil
}

// RecomputeForObject refreshes every virtual image of one moved object.
// It rebuilds that object's full chain tree from its current geometry
// rather than patching previous results: correctness must never depend on
// a stale intermediate, and reflecting only across the first chain element
// is wrong for any chain longer than one.
func RecomputeForObject(obj scene.Object, mirrors []Mirror, maxDepth int) ([]VirtualObject, error) {
	return GenerateVirtualObjects(obj, mirrors, maxDepth)
}
