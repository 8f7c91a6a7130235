package world

import (
	"math"

	"dustrunner/internal/physics"
	"dustrunner/internal/sim/terrain"
)

type HitKind uint8

const (
	HitTerrain HitKind = iota
	HitObstacle
)

// CollisionHit is one narrow-phase result. Penetration is the signed overlap
// depth; Normal points out of the hit surface toward the entity (Y grows
// downward, so the terrain normal is (0,-1)).
type CollisionHit struct {
	Kind        HitKind
	ObstacleID  string
	Penetration float64
	Normal      physics.Vec2
}

// HeightAt returns the interpolated surface height at worldX, generating the
// owning chunk on demand if it is not resident.
func (c *Cache) HeightAt(worldX float64) float64 {
	return c.Ensure(c.indexFor(worldX)).HeightAt(worldX)
}

// TestEntity runs the narrow-phase tests for an axis-aligned entity box
// centered at (x, y). It returns at most one terrain hit plus one hit per
// overlapping non-destroyed obstacle; order is unspecified.
func (c *Cache) TestEntity(x, y, width, height float64) []CollisionHit {
	var hits []CollisionHit

	// Terrain: the entity's lower edge at or below the surface.
	surface := c.HeightAt(x)
	lower := y + height/2
	if lower >= surface {
		hits = append(hits, CollisionHit{
			Kind:        HitTerrain,
			Penetration: lower - surface,
			Normal:      physics.Vec2{X: 0, Y: -1},
		})
	}

	// Obstacles: plain half-extent overlap against resident chunks only.
	for _, ch := range c.ChunksOverlapping(x-width/2, x+width/2) {
		for _, o := range ch.Obstacles {
			if o.Destroyed {
				continue
			}
			dx := x - o.X
			dy := y - o.Y
			xOverlap := width/2 + o.Width/2 - math.Abs(dx)
			yOverlap := height/2 + o.Height/2 - math.Abs(dy)
			if xOverlap <= 0 || yOverlap <= 0 {
				continue
			}
			hits = append(hits, CollisionHit{
				Kind:        HitObstacle,
				ObstacleID:  o.ID,
				Penetration: math.Min(xOverlap, yOverlap),
				Normal:      physics.Vec2{X: sign(dx), Y: sign(dy)},
			})
		}
	}
	return hits
}

// DamageObstacle applies damage to the obstacle with the given id anywhere in
// the resident set and reports whether it is destroyed afterwards. An unknown
// id is a no-op returning false.
func (c *Cache) DamageObstacle(id string, amount int) bool {
	for _, ch := range c.chunks {
		for _, o := range ch.Obstacles {
			if o.ID == id {
				return o.ApplyDamage(amount)
			}
		}
	}
	return false
}

// ObstaclesInRange returns non-destroyed obstacles within radius of centerX,
// measured along x. Only resident chunks are scanned.
func (c *Cache) ObstaclesInRange(centerX, radius float64) []*terrain.Obstacle {
	var out []*terrain.Obstacle
	for _, ch := range c.ChunksOverlapping(centerX-radius, centerX+radius) {
		for _, o := range ch.Obstacles {
			if o.Destroyed {
				continue
			}
			if math.Abs(o.X-centerX) <= radius {
				out = append(out, o)
			}
		}
	}
	return out
}

// SpawnPointsInRange returns unused spawn points within radius of centerX.
func (c *Cache) SpawnPointsInRange(centerX, radius float64) []*terrain.SpawnPoint {
	var out []*terrain.SpawnPoint
	for _, ch := range c.ChunksOverlapping(centerX-radius, centerX+radius) {
		for _, s := range ch.SpawnPoints {
			if s.Used {
				continue
			}
			if math.Abs(s.X-centerX) <= radius {
				out = append(out, s)
			}
		}
	}
	return out
}

// MarkSpawnUsed flips a spawn point to used. It reports whether this call
// performed the transition; an unknown or already-used id returns false.
func (c *Cache) MarkSpawnUsed(id string) bool {
	for _, ch := range c.chunks {
		for _, s := range ch.SpawnPoints {
			if s.ID == id {
				if s.Used {
					return false
				}
				s.Used = true
				return true
			}
		}
	}
	return false
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
