package physics

import "testing"

func TestRegisterAndResolve(t *testing.T) {
	w := NewStaticWorld()
	h := w.RegisterStaticBody(Box(80, 40), Vec2{X: 10, Y: 20}, 0.1, Material{Tag: "terrain"})
	if !h.Valid() {
		t.Fatal("issued handle must be valid")
	}
	b, ok := w.Body(h)
	if !ok {
		t.Fatal("live handle must resolve")
	}
	if b.Pos != (Vec2{X: 10, Y: 20}) || b.Material.Tag != "terrain" {
		t.Fatalf("body state wrong: %+v", b)
	}
	if w.Count() != 1 {
		t.Fatalf("count: %d", w.Count())
	}
}

func TestDeregisterExactlyOnce(t *testing.T) {
	w := NewStaticWorld()
	h := w.RegisterStaticBody(Box(10, 10), Vec2{}, 0, Material{})
	if !w.DeregisterBody(h) {
		t.Fatal("first deregister must succeed")
	}
	if w.DeregisterBody(h) {
		t.Fatal("second deregister must report stale")
	}
	if w.Count() != 0 {
		t.Fatalf("count after deregister: %d", w.Count())
	}
	if _, ok := w.Body(h); ok {
		t.Fatal("stale handle must not resolve")
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	w := NewStaticWorld()
	old := w.RegisterStaticBody(Box(10, 10), Vec2{}, 0, Material{Tag: "old"})
	w.DeregisterBody(old)

	// The freed slot is reused; the old handle must not see the newcomer.
	fresh := w.RegisterStaticBody(Box(20, 20), Vec2{}, 0, Material{Tag: "fresh"})
	if _, ok := w.Body(old); ok {
		t.Fatal("stale handle resolved after slot reuse")
	}
	if w.DeregisterBody(old) {
		t.Fatal("stale deregister must fail after reuse")
	}
	b, ok := w.Body(fresh)
	if !ok || b.Material.Tag != "fresh" {
		t.Fatalf("fresh handle broken: %+v ok=%v", b, ok)
	}
}

func TestZeroHandleNeverResolves(t *testing.T) {
	w := NewStaticWorld()
	w.RegisterStaticBody(Box(10, 10), Vec2{}, 0, Material{})
	var zero BodyHandle
	if zero.Valid() {
		t.Fatal("zero handle must be invalid")
	}
	if _, ok := w.Body(zero); ok {
		t.Fatal("zero handle resolved")
	}
	if w.DeregisterBody(zero) {
		t.Fatal("zero handle deregistered")
	}
}
