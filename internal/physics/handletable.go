package physics

// StaticBody is the stored state of one registered scenery body.
type StaticBody struct {
	Shape    Shape
	Pos      Vec2
	Rotation float64
	Material Material
}

type slot struct {
	gen  uint32
	live bool
	body StaticBody
}

// StaticWorld is a handle-table implementation of World: slots are reused
// through a free list and each reuse bumps the slot generation, so handles to
// removed bodies can never resolve to a newer occupant.
type StaticWorld struct {
	slots []slot
	free  []uint32
	count int
}

func NewStaticWorld() *StaticWorld {
	return &StaticWorld{}
}

func (w *StaticWorld) RegisterStaticBody(shape Shape, pos Vec2, rotation float64, mat Material) BodyHandle {
	body := StaticBody{Shape: shape, Pos: pos, Rotation: rotation, Material: mat}

	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.slots = append(w.slots, slot{})
		idx = uint32(len(w.slots) - 1)
	}

	s := &w.slots[idx]
	s.gen++
	s.live = true
	s.body = body
	w.count++
	return BodyHandle{index: idx, gen: s.gen}
}

func (w *StaticWorld) DeregisterBody(h BodyHandle) bool {
	s := w.slot(h)
	if s == nil {
		return false
	}
	s.live = false
	s.body = StaticBody{}
	w.free = append(w.free, h.index)
	w.count--
	return true
}

// Body resolves a handle; ok is false for stale or unknown handles.
func (w *StaticWorld) Body(h BodyHandle) (StaticBody, bool) {
	s := w.slot(h)
	if s == nil {
		return StaticBody{}, false
	}
	return s.body, true
}

// Count is the number of live bodies.
func (w *StaticWorld) Count() int {
	return w.count
}

func (w *StaticWorld) slot(h BodyHandle) *slot {
	if !h.Valid() || int(h.index) >= len(w.slots) {
		return nil
	}
	s := &w.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s
}
