package terrain

import (
	"fmt"

	"dustrunner/internal/sim/mathx"
)

type ObstacleKind uint8

const (
	WreckedVehicle ObstacleKind = iota
	LargeRock
	SmallRock
	Debris
	Cactus
)

func (k ObstacleKind) String() string {
	switch k {
	case WreckedVehicle:
		return "WRECKED_VEHICLE"
	case LargeRock:
		return "LARGE_ROCK"
	case SmallRock:
		return "SMALL_ROCK"
	case Debris:
		return "DEBRIS"
	case Cactus:
		return "CACTUS"
	}
	return "UNKNOWN"
}

// Obstacle is a static destructible hazard. Created once at chunk generation;
// only damage application mutates it, and Destroyed never flips back.
type Obstacle struct {
	ID        string
	Kind      ObstacleKind
	X, Y      float64 // center
	Width     float64 // scaled extents
	Height    float64
	Health    int
	MaxHealth int
	Rotation  float64
	Scale     float64
	Destroyed bool
}

// ApplyDamage subtracts amount from health. The field may go negative;
// Destroyed flips once health reaches zero and is never reset.
func (o *Obstacle) ApplyDamage(amount int) bool {
	o.Health -= amount
	if o.Health <= 0 {
		o.Destroyed = true
	}
	return o.Destroyed
}

type kindSpec struct {
	kind       ObstacleKind
	width      float64
	height     float64
	baseHealth int
	tint       string // renderer hint, carried through for the viewer
	weight     float64
}

// The weighted catalog. Weights need not sum to anything particular; the
// roulette normalizes, and the final entry doubles as the fallback.
var obstacleCatalog = []kindSpec{
	{WreckedVehicle, 90, 40, 120, "#8a6d3b", 0.10},
	{LargeRock, 70, 55, 200, "#7d7468", 0.18},
	{SmallRock, 35, 28, 80, "#948b7d", 0.27},
	{Debris, 50, 22, 60, "#6b5d4f", 0.20},
	{Cactus, 24, 60, 40, "#4f7a42", 0.25},
}

// CatalogTint exposes the renderer color hint for a kind.
func CatalogTint(k ObstacleKind) string {
	for _, s := range obstacleCatalog {
		if s.kind == k {
			return s.tint
		}
	}
	return ""
}

type ObstacleParams struct {
	Spacing float64 // fixed walk step
	Jitter  float64 // bounded per-slot x offset, < Spacing/2
}

// MinObstacleGap is the guaranteed center-to-center distance between
// consecutive obstacles for the given params.
func MinObstacleGap(p ObstacleParams) float64 {
	return p.Spacing - 2*p.Jitter
}

const (
	obstacleXSalt    = 0x0b57
	obstacleKindSalt = 0x0b58
	obstacleVarSalt  = 0x0b59
)

// PlaceObstacles walks the chunk at a fixed step, jitters each slot, samples
// the surface there and picks a catalog entry by weighted roulette. It always
// succeeds and never emits a zero-sized or non-positive-health obstacle.
func PlaceObstacles(seed int64, chunkIndex int64, worldOffset, chunkSize float64, heights []HeightSample, p ObstacleParams) []Obstacle {
	var out []Obstacle
	for slot := 0; ; slot++ {
		base := worldOffset + p.Spacing/2 + float64(slot)*p.Spacing
		if base > worldOffset+chunkSize-p.Spacing/2 {
			break
		}
		cell := mathx.QuantizeX(base)

		jitter := (mathx.HashUnit2(seed+obstacleXSalt, chunkIndex, cell) - 0.5) * 2 * p.Jitter
		x := base + jitter

		spec := rouletteKind(mathx.HashUnit2(seed+obstacleKindSalt, chunkIndex, cell))
		variant := mathx.HashUnit2(seed+obstacleVarSalt, chunkIndex, cell)
		scale := 0.8 + variant*0.4
		rotation := (variant - 0.5) * 0.3

		w := spec.width * scale
		h := spec.height * scale
		surface := HeightAtSamples(heights, x)

		out = append(out, Obstacle{
			ID:        fmt.Sprintf("obs_%d_%d", chunkIndex, slot),
			Kind:      spec.kind,
			X:         x,
			Y:         surface - h/2, // rest just above the surface
			Width:     w,
			Height:    h,
			Health:    spec.baseHealth,
			MaxHealth: spec.baseHealth,
			Rotation:  rotation,
			Scale:     scale,
		})
	}
	return out
}

func rouletteKind(r float64) kindSpec {
	total := 0.0
	for _, s := range obstacleCatalog {
		total += s.weight
	}
	target := r * total
	acc := 0.0
	for _, s := range obstacleCatalog {
		acc += s.weight
		if target < acc {
			return s
		}
	}
	// Fallback for r at the very top of the range.
	return obstacleCatalog[len(obstacleCatalog)-1]
}
