package world

import (
	"log"
	"time"

	"dustrunner/internal/persistence/streamlog"
	"dustrunner/internal/physics"
	"dustrunner/internal/sim/terrain"
	"dustrunner/internal/sim/tuning"
)

// World is the facade the orchestration layer drives once per frame and the
// gameplay/renderer collaborators query. It wires the streaming cache to its
// optional collaborators and carries the soft update budget.
type World struct {
	opts   tuning.Options
	cache  *Cache
	logger *log.Logger
	events *streamlog.Writer
}

// Deps are the optional collaborators. A nil Physics yields purely queryable
// chunks; a nil Logger silences the text log; a nil Events disables telemetry.
type Deps struct {
	Physics physics.World
	Logger  *log.Logger
	Events  *streamlog.Writer
}

// New validates opts and fails fast; invalid configuration never surfaces at
// update time.
func New(opts tuning.Options, deps Deps) (*World, error) {
	cache, err := NewCache(opts, deps.Physics, deps.Logger, deps.Events)
	if err != nil {
		return nil, err
	}
	return &World{opts: opts, cache: cache, logger: deps.Logger, events: deps.Events}, nil
}

// Update advances the streaming window to the given reference position. It is
// called once per frame from a single control goroutine. dt is accepted for
// the orchestrator's convenience; the terrain core runs no dynamics and
// ignores it.
func (w *World) Update(referenceX, dt float64) {
	_ = dt
	start := time.Now()
	w.cache.Update(referenceX)

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if w.opts.SlowUpdateMs > 0 && elapsed > w.opts.SlowUpdateMs {
		if w.logger != nil {
			w.logger.Printf("slow update: %.2fms (budget %.2fms) at x=%.0f", elapsed, w.opts.SlowUpdateMs, referenceX)
		}
		if w.events != nil {
			_ = w.events.Write(streamlog.Event{
				Kind:         streamlog.EventSlowUpdate,
				Tick:         w.cache.tick,
				ReferenceX:   referenceX,
				UpdateMillis: elapsed,
				BudgetMillis: w.opts.SlowUpdateMs,
			})
		}
	}
}

// Dispose evicts every chunk and deregisters all physics bodies.
func (w *World) Dispose() {
	w.cache.DisposeAll()
}

func (w *World) Options() tuning.Options { return w.opts }
func (w *World) Stats() Stats            { return w.cache.Stats() }

// Gameplay surface.

func (w *World) HeightAt(worldX float64) float64 { return w.cache.HeightAt(worldX) }

func (w *World) TestEntity(x, y, width, height float64) []CollisionHit {
	return w.cache.TestEntity(x, y, width, height)
}

func (w *World) DamageObstacle(id string, amount int) bool {
	return w.cache.DamageObstacle(id, amount)
}

func (w *World) ObstaclesInRange(centerX, radius float64) []*terrain.Obstacle {
	return w.cache.ObstaclesInRange(centerX, radius)
}

func (w *World) SpawnPointsInRange(centerX, radius float64) []*terrain.SpawnPoint {
	return w.cache.SpawnPointsInRange(centerX, radius)
}

func (w *World) MarkSpawnUsed(id string) bool { return w.cache.MarkSpawnUsed(id) }

// Renderer surface.

func (w *World) ChunksOverlapping(minX, maxX float64) []*Chunk {
	return w.cache.ChunksOverlapping(minX, maxX)
}

// ChunkAt exposes residency without forcing generation.
func (w *World) ChunkAt(index int64) (*Chunk, bool) { return w.cache.ChunkAt(index) }
