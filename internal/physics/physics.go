// Package physics defines the contract between the terrain core and the
// physics simulation it feeds. The core only creates and destroys static
// scenery bodies; dynamics stay on the other side of the World interface.
package physics

type Vec2 struct {
	X, Y float64
}

type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
)

// Shape describes collision geometry by half extents. Circles use HalfW as
// the radius.
type Shape struct {
	Kind  ShapeKind
	HalfW float64
	HalfH float64
}

func Box(width, height float64) Shape {
	return Shape{Kind: ShapeBox, HalfW: width / 2, HalfH: height / 2}
}

type Material struct {
	Friction    float64
	Restitution float64
	Tag         string // opaque identification, e.g. "terrain" or an obstacle id
}

// BodyHandle is an opaque token for a registered body. The zero value is
// never a live handle. Handles are generational: deregistering a body retires
// its slot's generation, so a stale copy fails safely instead of aliasing a
// newer body.
type BodyHandle struct {
	index uint32
	gen   uint32
}

// Valid reports whether the handle was ever issued (not whether the body is
// still live).
func (h BodyHandle) Valid() bool {
	return h.gen != 0
}

// World is the collaborator surface the terrain core consumes. The streaming
// cache is the sole caller of DeregisterBody for handles it holds; bodies are
// deregistered exactly once, at chunk eviction.
type World interface {
	RegisterStaticBody(shape Shape, pos Vec2, rotation float64, mat Material) BodyHandle
	// DeregisterBody returns false when the handle is stale or unknown. The
	// caller treats that as a tolerated desync, not an error.
	DeregisterBody(h BodyHandle) bool
}
