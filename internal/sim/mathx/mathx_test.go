package mathx

import "testing"

func TestFloorDivNegatives(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{0, 1000, 0},
		{999, 1000, 0},
		{1000, 1000, 1},
		{-1, 1000, -1},
		{-1000, 1000, -1},
		{-1001, 1000, -2},
		{1500, 1000, 1},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.want {
			t.Fatalf("FloorDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestModAlwaysNonNegative(t *testing.T) {
	for a := int64(-2500); a <= 2500; a += 17 {
		m := Mod(a, 1000)
		if m < 0 || m >= 1000 {
			t.Fatalf("Mod(%d,1000) = %d out of range", a, m)
		}
	}
}

func TestHashUnitDeterministicAndBounded(t *testing.T) {
	for x := int64(-500); x < 500; x++ {
		a := HashUnit(42, x)
		b := HashUnit(42, x)
		if a != b {
			t.Fatalf("HashUnit not stable at x=%d: %v vs %v", x, a, b)
		}
		if a < 0 || a >= 1 {
			t.Fatalf("HashUnit out of [0,1) at x=%d: %v", x, a)
		}
	}
}

func TestHashSeedsDiverge(t *testing.T) {
	same := 0
	for x := int64(0); x < 1000; x++ {
		if Hash1(1, x) == Hash1(2, x) {
			same++
		}
	}
	if same > 0 {
		t.Fatalf("seeds 1 and 2 collided on %d of 1000 inputs", same)
	}
}

func TestClampLerp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Fatalf("Clamp high: %v", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Fatalf("Clamp low: %v", got)
	}
	if got := Lerp(10, 20, 0.5); got != 15 {
		t.Fatalf("Lerp mid: %v", got)
	}
}
