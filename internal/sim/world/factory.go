package world

import (
	"log"
	"math"
	"time"

	"dustrunner/internal/physics"
	"dustrunner/internal/sim/terrain"
	"dustrunner/internal/sim/tuning"
)

// Thickness of the oriented boxes approximating terrain segments.
const terrainBodyThickness = 10.0

const (
	terrainFriction  = 0.9
	obstacleFriction = 0.6
)

// Factory composes the pure generators into immutable chunks and, when a
// physics world is attached, registers their collision geometry. A nil
// physics world yields purely queryable chunks (tests, headless tools).
type Factory struct {
	opts   tuning.Options
	phys   physics.World
	logger *log.Logger
}

func NewFactory(opts tuning.Options, phys physics.World, logger *log.Logger) *Factory {
	return &Factory{opts: opts, phys: phys, logger: logger}
}

// Build generates the chunk at index. Identical (seed, index) inputs always
// produce identical terrain; tick only stamps eviction bookkeeping.
func (f *Factory) Build(index int64, tick uint64) *Chunk {
	start := time.Now()

	o := f.opts
	offset := float64(index) * o.ChunkSize

	heights := terrain.GenerateHeights(o.Seed, index, o.ChunkSize, o.PointSpacing, terrain.HeightProfile{
		Base:            o.TerrainHeight,
		Variation:       o.HeightVariation,
		MinY:            o.MinHeight,
		SmoothingPasses: o.SmoothingPasses,
	})
	obstacles := terrain.PlaceObstacles(o.Seed, index, offset, o.ChunkSize, heights, terrain.ObstacleParams{
		Spacing: o.ObstacleSpacing,
		Jitter:  o.ObstacleJitter,
	})
	spawns := terrain.PlaceSpawnPoints(o.Seed, index, offset, o.ChunkSize, heights, obstacles, terrain.SpawnParams{
		Spacing:         o.SpawnSpacing,
		ClearanceRadius: o.ClearanceRadius,
	})

	c := &Chunk{
		Index:           index,
		WorldOffset:     offset,
		Size:            o.ChunkSize,
		Heights:         heights,
		GeneratedAtTick: tick,
	}
	c.Obstacles = make([]*terrain.Obstacle, len(obstacles))
	for i := range obstacles {
		ob := obstacles[i]
		c.Obstacles[i] = &ob
	}
	c.SpawnPoints = make([]*terrain.SpawnPoint, len(spawns))
	for i := range spawns {
		sp := spawns[i]
		c.SpawnPoints[i] = &sp
	}

	if f.phys != nil {
		f.registerBodies(c)
	}

	// Advisory telemetry only; generation has no deadline.
	if f.logger != nil {
		f.logger.Printf("chunk %d generated in %s (%d obstacles, %d spawns, %d bodies)",
			index, time.Since(start).Round(time.Microsecond), len(c.Obstacles), len(c.SpawnPoints), c.bodyCount())
	}
	return c
}

// registerBodies converts each consecutive height-sample pair into a static
// oriented box (midpoint position, slope rotation) and each obstacle into a
// static box tagged with its id and kind.
func (f *Factory) registerBodies(c *Chunk) {
	c.TerrainBodies = make([]physics.BodyHandle, 0, len(c.Heights)-1)
	for i := 0; i+1 < len(c.Heights); i++ {
		a, b := c.Heights[i], c.Heights[i+1]
		dx := b.WorldX - a.WorldX
		dy := b.Y - a.Y
		h := f.phys.RegisterStaticBody(
			physics.Box(math.Hypot(dx, dy), terrainBodyThickness),
			physics.Vec2{X: (a.WorldX + b.WorldX) / 2, Y: (a.Y + b.Y) / 2},
			math.Atan2(dy, dx),
			physics.Material{Friction: terrainFriction, Tag: "terrain"},
		)
		c.TerrainBodies = append(c.TerrainBodies, h)
	}

	c.ObstacleBodies = make([]physics.BodyHandle, 0, len(c.Obstacles))
	for _, o := range c.Obstacles {
		h := f.phys.RegisterStaticBody(
			physics.Box(o.Width, o.Height),
			physics.Vec2{X: o.X, Y: o.Y},
			o.Rotation,
			physics.Material{Friction: obstacleFriction, Tag: o.Kind.String() + ":" + o.ID},
		)
		c.ObstacleBodies = append(c.ObstacleBodies, h)
	}
}
