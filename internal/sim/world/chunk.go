// Package world owns the resident slice of the endless desert: the streaming
// cache that loads and evicts chunks around the vehicle, the factory that
// composes each chunk from the pure generators, and the spatial queries
// gameplay runs every frame. Everything here executes synchronously on the
// caller's goroutine; see the concurrency note on Cache.
package world

import (
	"dustrunner/internal/physics"
	"dustrunner/internal/sim/terrain"
)

// Chunk is one fixed-width longitudinal slice of the world. It exclusively
// owns its obstacles and spawn points; nothing references entities across
// chunk boundaries, so dropping a chunk drops all of its state.
//
// The physics handles are opaque tokens owned by the physics collaborator,
// but their lifetime is owned here: the cache deregisters every handle
// exactly once, when the chunk is evicted.
type Chunk struct {
	Index       int64
	WorldOffset float64
	Size        float64

	Heights     []terrain.HeightSample
	Obstacles   []*terrain.Obstacle
	SpawnPoints []*terrain.SpawnPoint

	TerrainBodies  []physics.BodyHandle
	ObstacleBodies []physics.BodyHandle

	GeneratedAtTick uint64
}

// HeightAt interpolates the chunk surface, clamping outside the sampled span.
func (c *Chunk) HeightAt(x float64) float64 {
	return terrain.HeightAtSamples(c.Heights, x)
}

func (c *Chunk) Contains(x float64) bool {
	return x >= c.WorldOffset && x < c.WorldOffset+c.Size
}

// Overlaps reports whether the chunk intersects [minX, maxX].
func (c *Chunk) Overlaps(minX, maxX float64) bool {
	return c.WorldOffset <= maxX && c.WorldOffset+c.Size >= minX
}

func (c *Chunk) DestroyedObstacles() int {
	n := 0
	for _, o := range c.Obstacles {
		if o.Destroyed {
			n++
		}
	}
	return n
}

func (c *Chunk) UsedSpawns() int {
	n := 0
	for _, s := range c.SpawnPoints {
		if s.Used {
			n++
		}
	}
	return n
}

func (c *Chunk) bodyCount() int {
	return len(c.TerrainBodies) + len(c.ObstacleBodies)
}
