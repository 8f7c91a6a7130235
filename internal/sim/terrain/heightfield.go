// Package terrain holds the pure generators of the dustrunner world: the
// sampled height field of the desert surface, static hazards placed along it,
// and zombie spawn markers. Everything here is a deterministic function of
// (seed, chunk index, tuning); no generator touches a shared RNG stream, so a
// chunk evicted from the cache regenerates identically on re-request.
package terrain

import (
	"math"

	"dustrunner/internal/sim/mathx"
)

// HeightSample is one measurement of the terrain surface. Y grows downward
// (screen coordinates): a smaller Y is a taller dune.
type HeightSample struct {
	WorldX float64
	Y      float64
}

// HeightProfile is the height-field slice of tuning.Options.
type HeightProfile struct {
	Base            float64 // baseline surface line
	Variation       float64 // combined amplitude of the periodic terms
	MinY            float64 // ceiling: Y never goes above (smaller than) this
	SmoothingPasses int
}

// Per-sample feature injection thresholds. Values of the unit hash above the
// ramp threshold raise the surface, values below the dip threshold sink it.
const (
	rampThreshold = 0.965
	dipThreshold  = 0.03
	featureSalt   = 0x5eed
)

// GenerateHeights samples the surface of one chunk. The result has
// ceil(chunkSize/pointSpacing)+1 points spaced by pointSpacing, except the
// final point which lands exactly on the chunk's right edge.
func GenerateHeights(seed int64, chunkIndex int64, chunkSize, pointSpacing float64, p HeightProfile) []HeightSample {
	offset := float64(chunkIndex) * chunkSize
	n := int(math.Ceil(chunkSize/pointSpacing)) + 1

	// Seed-derived phases push different seeds onto unrelated curves.
	phaseA := float64(mathx.Hash1(seed, 1)%6283) / 1000.0
	phaseB := float64(mathx.Hash1(seed, 2)%6283) / 1000.0
	phaseC := float64(mathx.Hash1(seed, 3)%6283) / 1000.0

	out := make([]HeightSample, n)
	for i := 0; i < n; i++ {
		x := offset + float64(i)*pointSpacing
		if i == n-1 {
			x = offset + chunkSize
		}

		// Large dunes, medium features, fine bumps.
		y := p.Base
		y += p.Variation * 0.55 * math.Sin(x*0.0016+phaseA)
		y += p.Variation * 0.30 * math.Sin(x*0.0063+phaseB)
		y += p.Variation * 0.15 * math.Sin(x*0.0270+phaseC)

		// Occasional one-sided ramps (up) and dips (down) for jump and fall
		// opportunities.
		r := mathx.HashUnit(seed+featureSalt, mathx.QuantizeX(x))
		switch {
		case r > rampThreshold:
			y -= p.Variation * 0.9 * (r - rampThreshold) / (1 - rampThreshold)
		case r < dipThreshold:
			y += p.Variation * 0.7 * (dipThreshold - r) / dipThreshold
		}

		if y < p.MinY {
			y = p.MinY
		}
		out[i] = HeightSample{WorldX: x, Y: y}
	}

	for pass := 0; pass < p.SmoothingPasses; pass++ {
		boxBlur(out)
	}
	return out
}

// boxBlur removes single-sample spikes; endpoints are kept so chunk seams
// stay continuous with their neighbors' sampling.
func boxBlur(samples []HeightSample) {
	if len(samples) < 3 {
		return
	}
	prev := samples[0].Y
	for i := 1; i < len(samples)-1; i++ {
		cur := samples[i].Y
		samples[i].Y = (prev + cur + samples[i+1].Y) / 3
		prev = cur
	}
}

// HeightAtSamples linearly interpolates the surface between the bracketing
// pair of samples. Outside the sampled range it clamps to the nearest
// endpoint rather than extrapolating.
func HeightAtSamples(samples []HeightSample, x float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	if x <= samples[0].WorldX {
		return samples[0].Y
	}
	last := samples[len(samples)-1]
	if x >= last.WorldX {
		return last.Y
	}

	lo, hi := 0, len(samples)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if samples[mid].WorldX <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	a, b := samples[lo], samples[hi]
	span := b.WorldX - a.WorldX
	if span <= 0 {
		return a.Y
	}
	t := (x - a.WorldX) / span
	return mathx.Lerp(a.Y, b.Y, t)
}
