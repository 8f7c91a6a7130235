package terrain

import (
	"fmt"
	"math"

	"dustrunner/internal/sim/mathx"
)

// SpawnPoint marks where a zombie may enter the world. Used flips false→true
// exactly once, via the world facade; it is never reset.
type SpawnPoint struct {
	ID   string
	X, Y float64
	Used bool
}

type SpawnParams struct {
	Spacing         float64
	ClearanceRadius float64
}

const spawnSalt = 0x5a17

// PlaceSpawnPoints steps the chunk at the (coarser) spawn spacing and keeps
// only candidates clear of every obstacle center. Rejected candidates are
// dropped, so a chunk may hold fewer spawn points than slots, never more.
func PlaceSpawnPoints(seed int64, chunkIndex int64, worldOffset, chunkSize float64, heights []HeightSample, obstacles []Obstacle, p SpawnParams) []SpawnPoint {
	var out []SpawnPoint
	for slot := 0; ; slot++ {
		x := worldOffset + p.Spacing/2 + float64(slot)*p.Spacing
		if x > worldOffset+chunkSize {
			break
		}

		surface := HeightAtSamples(heights, x)
		// Hover slightly above the surface so spawned entities drop in.
		y := surface - 20 - mathx.HashUnit2(seed+spawnSalt, chunkIndex, int64(slot))*15

		if !clearOfObstacles(x, y, obstacles, p.ClearanceRadius) {
			continue
		}
		out = append(out, SpawnPoint{
			ID: fmt.Sprintf("spawn_%d_%d", chunkIndex, slot),
			X:  x,
			Y:  y,
		})
	}
	return out
}

func clearOfObstacles(x, y float64, obstacles []Obstacle, radius float64) bool {
	for i := range obstacles {
		o := &obstacles[i]
		if o.Destroyed {
			continue
		}
		dx := o.X - x
		dy := o.Y - y
		if math.Hypot(dx, dy) < radius {
			return false
		}
	}
	return true
}
