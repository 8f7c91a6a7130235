package world

import (
	"math"
	"testing"

	"dustrunner/internal/physics"
)

func TestBuildWithoutPhysics(t *testing.T) {
	f := NewFactory(testOpts(), nil, nil)
	c := f.Build(2, 7)

	if c.Index != 2 || c.WorldOffset != 2000 || c.Size != 1000 {
		t.Fatalf("chunk identity: %+v", c)
	}
	if c.GeneratedAtTick != 7 {
		t.Fatalf("tick stamp: %d", c.GeneratedAtTick)
	}
	if len(c.Heights) != 101 {
		t.Fatalf("height count: %d", len(c.Heights))
	}
	if len(c.TerrainBodies) != 0 || len(c.ObstacleBodies) != 0 {
		t.Fatal("no physics world, no handles")
	}
	if len(c.Obstacles) == 0 {
		t.Fatal("obstacle placement must always succeed")
	}
}

func TestBuildRegistersCollisionGeometry(t *testing.T) {
	phys := physics.NewStaticWorld()
	f := NewFactory(testOpts(), phys, nil)
	c := f.Build(0, 1)

	// One oriented box per consecutive sample pair, one per obstacle.
	if want := len(c.Heights) - 1; len(c.TerrainBodies) != want {
		t.Fatalf("terrain bodies: %d, want %d", len(c.TerrainBodies), want)
	}
	if len(c.ObstacleBodies) != len(c.Obstacles) {
		t.Fatalf("obstacle bodies: %d, want %d", len(c.ObstacleBodies), len(c.Obstacles))
	}
	if phys.Count() != c.bodyCount() {
		t.Fatalf("world holds %d bodies, chunk owns %d", phys.Count(), c.bodyCount())
	}
}

func TestTerrainSegmentBodies(t *testing.T) {
	phys := physics.NewStaticWorld()
	f := NewFactory(testOpts(), phys, nil)
	c := f.Build(0, 1)

	for i, h := range c.TerrainBodies {
		a, b := c.Heights[i], c.Heights[i+1]
		body, ok := phys.Body(h)
		if !ok {
			t.Fatalf("segment %d handle is dead", i)
		}
		wantPos := physics.Vec2{X: (a.WorldX + b.WorldX) / 2, Y: (a.Y + b.Y) / 2}
		if math.Abs(body.Pos.X-wantPos.X) > 1e-9 || math.Abs(body.Pos.Y-wantPos.Y) > 1e-9 {
			t.Fatalf("segment %d not at midpoint: %+v vs %+v", i, body.Pos, wantPos)
		}
		wantRot := math.Atan2(b.Y-a.Y, b.WorldX-a.WorldX)
		if math.Abs(body.Rotation-wantRot) > 1e-9 {
			t.Fatalf("segment %d rotation %v, want slope angle %v", i, body.Rotation, wantRot)
		}
		if body.Material.Tag != "terrain" {
			t.Fatalf("segment %d tag %q", i, body.Material.Tag)
		}
	}
}

func TestObstacleBodiesTagged(t *testing.T) {
	phys := physics.NewStaticWorld()
	f := NewFactory(testOpts(), phys, nil)
	c := f.Build(3, 1)

	for i, h := range c.ObstacleBodies {
		o := c.Obstacles[i]
		body, ok := phys.Body(h)
		if !ok {
			t.Fatalf("obstacle %s handle is dead", o.ID)
		}
		want := o.Kind.String() + ":" + o.ID
		if body.Material.Tag != want {
			t.Fatalf("obstacle body tag %q, want %q", body.Material.Tag, want)
		}
		if body.Shape.HalfW*2 != o.Width || body.Shape.HalfH*2 != o.Height {
			t.Fatalf("obstacle body shape %+v does not match %vx%v", body.Shape, o.Width, o.Height)
		}
	}
}
