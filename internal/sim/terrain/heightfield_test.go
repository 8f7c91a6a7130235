package terrain

import (
	"math"
	"testing"
)

func testProfile() HeightProfile {
	return HeightProfile{Base: 500, Variation: 120, MinY: 150, SmoothingPasses: 2}
}

func TestPointCount(t *testing.T) {
	// seed=12345, chunkSize=1000, pointSpacing=10 -> 101 samples.
	hs := GenerateHeights(12345, 0, 1000, 10, testProfile())
	if len(hs) != 101 {
		t.Fatalf("expected 101 samples, got %d", len(hs))
	}

	// Non-divisible spacing still lands the final point on the right edge.
	hs = GenerateHeights(12345, 2, 1000, 30, testProfile())
	want := int(math.Ceil(1000.0/30.0)) + 1
	if len(hs) != want {
		t.Fatalf("expected %d samples, got %d", want, len(hs))
	}
	if got := hs[len(hs)-1].WorldX; got != 3000 {
		t.Fatalf("final sample should sit on the chunk edge, got x=%v", got)
	}
}

func TestSamplesAscendAndSpacing(t *testing.T) {
	hs := GenerateHeights(42, -3, 1000, 10, testProfile())
	for i := 1; i < len(hs); i++ {
		if hs[i].WorldX <= hs[i-1].WorldX {
			t.Fatalf("samples not x-ascending at %d: %v then %v", i, hs[i-1].WorldX, hs[i].WorldX)
		}
	}
	for i := 1; i < len(hs)-1; i++ {
		gap := hs[i].WorldX - hs[i-1].WorldX
		if math.Abs(gap-10) > 1e-9 {
			t.Fatalf("interior spacing drifted at %d: %v", i, gap)
		}
	}
}

func TestDeterminismExact(t *testing.T) {
	a := GenerateHeights(12345, 7, 1000, 10, testProfile())
	b := GenerateHeights(12345, 7, 1000, 10, testProfile())
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSeedsDiverge(t *testing.T) {
	a := GenerateHeights(1, 0, 1000, 10, testProfile())
	b := GenerateHeights(2, 0, 1000, 10, testProfile())
	same := 0
	for i := range a {
		if a[i].Y == b[i].Y {
			same++
		}
	}
	if same > len(a)/4 {
		t.Fatalf("seeds 1 and 2 produced %d/%d identical heights", same, len(a))
	}
}

func TestMinHeightFloor(t *testing.T) {
	p := testProfile()
	p.MinY = 480 // squeeze hard so ramps would overshoot without the floor
	for idx := int64(-5); idx < 5; idx++ {
		for _, s := range GenerateHeights(99, idx, 1000, 10, p) {
			if s.Y < p.MinY-1e-9 {
				t.Fatalf("chunk %d: sample at x=%v above the floor: y=%v", idx, s.WorldX, s.Y)
			}
		}
	}
}

func maxAdjacentDelta(hs []HeightSample) float64 {
	worst := 0.0
	for i := 1; i < len(hs); i++ {
		d := math.Abs(hs[i].Y - hs[i-1].Y)
		if d > worst {
			worst = d
		}
	}
	return worst
}

func TestSmoothingBoundsSlope(t *testing.T) {
	raw := testProfile()
	raw.SmoothingPasses = 0
	smooth := testProfile()

	for idx := int64(0); idx < 20; idx++ {
		dRaw := maxAdjacentDelta(GenerateHeights(12345, idx, 1000, 10, raw))
		dSmooth := maxAdjacentDelta(GenerateHeights(12345, idx, 1000, 10, smooth))
		if dSmooth > dRaw+1e-9 {
			t.Fatalf("chunk %d: smoothing increased worst slope: %v > %v", idx, dSmooth, dRaw)
		}
		if dSmooth > smooth.Variation {
			t.Fatalf("chunk %d: worst adjacent delta %v exceeds variation", idx, dSmooth)
		}
	}
}

func TestChunkSeamsLineUp(t *testing.T) {
	for idx := int64(-4); idx < 4; idx++ {
		left := GenerateHeights(12345, idx, 1000, 10, testProfile())
		right := GenerateHeights(12345, idx+1, 1000, 10, testProfile())
		a := left[len(left)-1]
		b := right[0]
		if a.WorldX != b.WorldX {
			t.Fatalf("seam x mismatch between %d and %d: %v vs %v", idx, idx+1, a.WorldX, b.WorldX)
		}
		if a.Y != b.Y {
			t.Fatalf("seam y mismatch between %d and %d: %v vs %v", idx, idx+1, a.Y, b.Y)
		}
	}
}

func TestHeightAtSamplesInterpolatesAndClamps(t *testing.T) {
	hs := []HeightSample{{0, 100}, {10, 200}, {20, 150}}
	if got := HeightAtSamples(hs, 5); got != 150 {
		t.Fatalf("midpoint interpolation: got %v", got)
	}
	if got := HeightAtSamples(hs, 17); math.Abs(got-165) > 1e-9 {
		t.Fatalf("interpolation at 17: got %v, want 165", got)
	}
	if got := HeightAtSamples(hs, -50); got != 100 {
		t.Fatalf("left clamp: got %v", got)
	}
	if got := HeightAtSamples(hs, 999); got != 150 {
		t.Fatalf("right clamp: got %v", got)
	}
	if got := HeightAtSamples(nil, 5); got != 0 {
		t.Fatalf("empty samples: got %v", got)
	}
}
