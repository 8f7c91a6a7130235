package world

import (
	"log"
	"math"
	"sort"
	"time"

	"dustrunner/internal/persistence/streamlog"
	"dustrunner/internal/physics"
	"dustrunner/internal/sim/mathx"
	"dustrunner/internal/sim/tuning"
)

// Cache is the bounded, position-driven chunk residency controller. It is the
// sole owner of registration and deregistration for chunk physics bodies.
//
// All methods run to completion on the caller's goroutine; the cache is not
// safe for concurrent use without external locking.
type Cache struct {
	opts    tuning.Options
	factory *Factory
	phys    physics.World
	logger  *log.Logger
	events  *streamlog.Writer

	chunks         map[int64]*Chunk
	lastReferenceX float64
	primed         bool

	tick      uint64
	generated uint64
	evicted   uint64
}

type Stats struct {
	Resident       int
	Generated      uint64
	Evicted        uint64
	Tick           uint64
	LastReferenceX float64
}

// NewCache validates the configuration and fails fast on a bad one; runtime
// paths assume validated options.
func NewCache(opts tuning.Options, phys physics.World, logger *log.Logger, events *streamlog.Writer) (*Cache, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Cache{
		opts:    opts,
		factory: NewFactory(opts, phys, logger),
		phys:    phys,
		logger:  logger,
		events:  events,
		chunks:  make(map[int64]*Chunk),
	}, nil
}

// Update recomputes the streaming window around referenceX: loads every
// missing index in [current-1, current+loadRange], evicts everything farther
// than unloadRange, then evicts oldest-first while over capacity. A reference
// move smaller than the movement threshold is a no-op once the cache holds
// anything.
func (c *Cache) Update(referenceX float64) {
	if c.primed && len(c.chunks) > 0 && math.Abs(referenceX-c.lastReferenceX) <= c.opts.MovementThreshold {
		return
	}
	c.tick++

	current := c.indexFor(referenceX)
	loadRange := int64(math.Ceil(c.opts.LoadDistance / c.opts.ChunkSize))
	for idx := current - 1; idx <= current+loadRange; idx++ {
		c.ensure(idx, referenceX)
	}

	unloadRange := int64(math.Ceil(c.opts.UnloadDistance / c.opts.ChunkSize))
	for _, idx := range c.residentIndices() {
		if mathx.AbsInt(idx-current) > unloadRange {
			c.evict(idx, referenceX, false)
		}
	}

	// Capacity pressure: oldest generation tick goes first; ties fall to the
	// chunk farthest from the window center, then to the lower index, so the
	// sweep stays deterministic.
	for len(c.chunks) > c.opts.MaxLoadedChunks {
		c.evict(c.capacityVictim(current), referenceX, true)
	}

	c.lastReferenceX = referenceX
	c.primed = true
}

// Ensure returns the chunk at index, generating it on demand. Loading an
// already-resident index returns the existing chunk untouched.
func (c *Cache) Ensure(index int64) *Chunk {
	return c.ensure(index, c.lastReferenceX)
}

func (c *Cache) ensure(index int64, referenceX float64) *Chunk {
	if ch, ok := c.chunks[index]; ok {
		return ch
	}
	start := time.Now()
	ch := c.factory.Build(index, c.tick)
	c.chunks[index] = ch
	c.generated++
	if c.events != nil {
		_ = c.events.Write(streamlog.Event{
			Kind:       streamlog.EventLoad,
			Tick:       c.tick,
			ChunkIndex: index,
			ReferenceX: referenceX,
			Resident:   len(c.chunks),
			GenMillis:  float64(time.Since(start).Microseconds()) / 1000,
		})
	}
	return ch
}

// ChunkAt returns a chunk only if it is currently resident.
func (c *Cache) ChunkAt(index int64) (*Chunk, bool) {
	ch, ok := c.chunks[index]
	return ch, ok
}

// Unload evicts one index; a non-resident index is a no-op returning false.
func (c *Cache) Unload(index int64) bool {
	if _, ok := c.chunks[index]; !ok {
		return false
	}
	c.evict(index, c.lastReferenceX, false)
	return true
}

// DisposeAll evicts every resident chunk and deregisters all bodies.
func (c *Cache) DisposeAll() {
	for _, idx := range c.residentIndices() {
		c.evict(idx, c.lastReferenceX, false)
	}
	c.primed = false
	if c.events != nil {
		_ = c.events.Write(streamlog.Event{Kind: streamlog.EventDispose, Tick: c.tick})
	}
}

// ChunksOverlapping returns resident chunks intersecting [minX, maxX] in
// index order. It never triggers generation; this is the renderer's accessor.
func (c *Cache) ChunksOverlapping(minX, maxX float64) []*Chunk {
	var out []*Chunk
	for _, ch := range c.chunks {
		if ch.Overlaps(minX, maxX) {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (c *Cache) Stats() Stats {
	return Stats{
		Resident:       len(c.chunks),
		Generated:      c.generated,
		Evicted:        c.evicted,
		Tick:           c.tick,
		LastReferenceX: c.lastReferenceX,
	}
}

func (c *Cache) indexFor(x float64) int64 {
	return int64(math.Floor(x / c.opts.ChunkSize))
}

func (c *Cache) residentIndices() []int64 {
	idxs := make([]int64, 0, len(c.chunks))
	for idx := range c.chunks {
		idxs = append(idxs, idx)
	}
	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	return idxs
}

func (c *Cache) capacityVictim(current int64) int64 {
	var victim int64
	found := false
	for _, idx := range c.residentIndices() {
		ch := c.chunks[idx]
		if !found {
			victim = idx
			found = true
			continue
		}
		v := c.chunks[victim]
		switch {
		case ch.GeneratedAtTick < v.GeneratedAtTick:
			victim = idx
		case ch.GeneratedAtTick == v.GeneratedAtTick &&
			mathx.AbsInt(idx-current) > mathx.AbsInt(victim-current):
			victim = idx
		}
	}
	return victim
}

// evict deregisters every physics handle on the chunk, then drops it. A
// deregistration the physics collaborator no longer recognizes is logged and
// swallowed: the chunk is going away regardless, and body existence authority
// is shared with the collaborator.
func (c *Cache) evict(index int64, referenceX float64, capacity bool) {
	ch, ok := c.chunks[index]
	if !ok {
		return
	}

	if c.phys != nil {
		stale := 0
		for _, h := range ch.TerrainBodies {
			if !c.phys.DeregisterBody(h) {
				stale++
			}
		}
		for _, h := range ch.ObstacleBodies {
			if !c.phys.DeregisterBody(h) {
				stale++
			}
		}
		if stale > 0 && c.logger != nil {
			c.logger.Printf("chunk %d: %d of %d bodies already gone on deregister", index, stale, ch.bodyCount())
		}
	}
	ch.TerrainBodies = nil
	ch.ObstacleBodies = nil

	delete(c.chunks, index)
	c.evicted++

	// Chunk-local mutable state dies here. Re-requesting this index later
	// regenerates a pristine chunk: destroyed obstacles resurrect and used
	// spawn points reset. The event record keeps that loss visible.
	if c.events != nil {
		_ = c.events.Write(streamlog.Event{
			Kind:               streamlog.EventEvict,
			Tick:               c.tick,
			ChunkIndex:         index,
			ReferenceX:         referenceX,
			Resident:           len(c.chunks),
			DestroyedObstacles: ch.DestroyedObstacles(),
			UsedSpawns:         ch.UsedSpawns(),
			Capacity:           capacity,
		})
	}
}
