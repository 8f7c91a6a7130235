package mathx

import "math"

func FloorDiv(a, b int64) int64 {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

func Mod(a, b int64) int64 {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func AbsInt(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Hash1 is a stateless PRF over a single coordinate. Identical inputs always
// yield identical output regardless of call order, which is what keeps chunk
// regeneration reproducible after eviction.
func Hash1(seed int64, x int64) uint64 {
	v := uint64(seed) ^ (uint64(x) * 0x9e3779b97f4a7c15)
	return mix64(v)
}

func Hash2(seed int64, x, y int64) uint64 {
	v := uint64(seed) ^ (uint64(x) * 0x9e3779b97f4a7c15) ^ (uint64(y) * 0xbf58476d1ce4e5b9)
	return mix64(v)
}

// HashUnit maps Hash1 onto [0, 1).
func HashUnit(seed int64, x int64) float64 {
	return float64(Hash1(seed, x)>>11) / float64(1<<53)
}

// HashUnit2 maps Hash2 onto [0, 1).
func HashUnit2(seed int64, x, y int64) float64 {
	return float64(Hash2(seed, x, y)>>11) / float64(1<<53)
}

// QuantizeX buckets a world coordinate for hashing so that nearby float
// positions land in a stable integer cell.
func QuantizeX(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
