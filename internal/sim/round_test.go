package sim

import (
	"math"
	"testing"
	"time"
)

var roomy = Bounds{W: 1000, H: 800}

func TestTickLevelOneGrowth(t *testing.T) {
	r := newTestRound(1, &scriptRand{})
	e := addEntity(r, Entity{X: 100, Y: 100, Radius: 15, Growth: 20})

	for i := 0; i < 10; i++ {
		res := r.Tick(100*time.Millisecond, roomy)
		if res.Breached || res.Expired || len(res.Detonated) != 0 || res.WarpStarted {
			t.Fatalf("tick %d had side effects: %+v", i, res)
		}
	}
	if !approx(e.Radius, 35) {
		t.Fatalf("radius = %v, want 35", e.Radius)
	}
	if r.Remaining != 29*time.Second || r.Elapsed != time.Second {
		t.Fatalf("remaining=%v elapsed=%v", r.Remaining, r.Elapsed)
	}
	if r.Score != 0 {
		t.Fatalf("score changed to %d", r.Score)
	}
}

func TestStepDrifterBounces(t *testing.T) {
	r := newTestRound(3, &scriptRand{})
	e := addEntity(r, Entity{X: 985, Y: 400, VX: 60, Radius: 10, Mods: ModDrifter})
	r.Step(500*time.Millisecond, roomy)
	if e.X != 990 || e.VX != -60 {
		t.Fatalf("x=%v vx=%v, want 990 -60", e.X, e.VX)
	}
}

func TestStepUsesCurrentBounds(t *testing.T) {
	r := newTestRound(1, &scriptRand{})
	addEntity(r, Entity{X: 50, Y: 50, Radius: 40})
	if res := r.Step(time.Millisecond, roomy); res.Breached {
		t.Fatal("breached in a large area")
	}
	if res := r.Step(time.Millisecond, Bounds{W: 80, H: 600}); !res.Breached {
		t.Fatal("shrinking the area should make the entity lethal")
	}
}

func TestFuseDetonatesOnce(t *testing.T) {
	r := newTestRound(5, &scriptRand{})
	a := addEntity(r, Entity{X: 100, Y: 100, Radius: 20})
	fuse := addEntity(r, Entity{X: 300, Y: 300, Radius: 15, Kind: KindFuse, Fuse: &Fuse{Remaining: 150 * time.Millisecond}})
	b := addEntity(r, Entity{X: 500, Y: 500, Radius: 2})

	if res := r.Step(100*time.Millisecond, roomy); len(res.Detonated) != 0 {
		t.Fatal("fuse detonated early")
	}
	res := r.Step(100*time.Millisecond, roomy)
	if len(res.Detonated) != 1 || res.Detonated[0] != fuse.ID {
		t.Fatalf("detonated = %v, want [%d]", res.Detonated, fuse.ID)
	}
	if _, ok := r.Entity(fuse.ID); ok {
		t.Fatal("fuse still present after detonation")
	}
	if !approx(a.Radius, 25) {
		t.Fatalf("neighbor radius = %v, want 25", a.Radius)
	}
	if b.Radius != 5 {
		t.Fatalf("small neighbor radius = %v, want floor 5", b.Radius)
	}
	if r.Score != 0 {
		t.Fatalf("detonation awarded score %d", r.Score)
	}

	for i := 0; i < 10; i++ {
		if res := r.Step(100*time.Millisecond, roomy); len(res.Detonated) != 0 {
			t.Fatal("fuse detonated twice")
		}
	}
	if !approx(a.Radius, 25) {
		t.Fatalf("shockwave applied again: radius %v", a.Radius)
	}
}

func TestTwoFusesShockEachOther(t *testing.T) {
	r := newTestRound(5, &scriptRand{})
	addEntity(r, Entity{Radius: 15, Kind: KindFuse, Fuse: &Fuse{Remaining: 50 * time.Millisecond}})
	addEntity(r, Entity{Radius: 15, Kind: KindFuse, Fuse: &Fuse{Remaining: 50 * time.Millisecond}})
	n := addEntity(r, Entity{X: 200, Y: 200, Radius: 16})

	res := r.Step(100*time.Millisecond, roomy)
	if len(res.Detonated) != 2 {
		t.Fatalf("detonated %d fuses, want 2", len(res.Detonated))
	}
	if len(r.Entities()) != 1 {
		t.Fatalf("%d entities left, want 1", len(r.Entities()))
	}
	if !approx(n.Radius, 25) {
		t.Fatalf("radius = %v, want 16*1.25*1.25", n.Radius)
	}
}

func TestBreachIffLethal(t *testing.T) {
	b := Bounds{W: 100, H: 60}
	r := newTestRound(1, &scriptRand{})
	e := addEntity(r, Entity{X: 50, Y: 30, Radius: 29.99})
	if r.Step(time.Millisecond, b).Breached {
		t.Fatal("breach below the lethal radius")
	}
	e.Radius = 30
	if !r.Step(time.Millisecond, b).Breached {
		t.Fatal("no breach at the lethal radius")
	}
}

func TestDegenerateBoundsBreachImmediately(t *testing.T) {
	r := newTestRound(1, &scriptRand{})
	addEntity(r, Entity{Radius: 15})
	if !r.Step(time.Millisecond, Bounds{}).Breached {
		t.Fatal("zero-sized area should end the round")
	}
}

func TestHitNormal(t *testing.T) {
	r := newTestRound(1, &scriptRand{})
	e := addEntity(r, Entity{X: 10, Y: 10, Radius: 15})

	res := r.Hit(e.ID, roomy)
	if !res.Found || !res.Destroyed || res.Awarded != 1 {
		t.Fatalf("hit result = %+v", res)
	}
	if r.Score != 1 || len(r.Entities()) != 0 {
		t.Fatalf("score=%d entities=%d", r.Score, len(r.Entities()))
	}
	if again := r.Hit(e.ID, roomy); again.Found {
		t.Fatal("second hit on a removed entity should be a no-op")
	}
	if r.Score != 1 {
		t.Fatal("stale hit awarded score")
	}
}

func TestHitArmored(t *testing.T) {
	r := newTestRound(2, &scriptRand{})
	e := addEntity(r, Entity{Radius: 15, Hits: 3, Mods: ModArmored})

	for i := 0; i < 2; i++ {
		res := r.Hit(e.ID, roomy)
		if res.Destroyed || res.Awarded != 0 {
			t.Fatalf("hit %d: %+v", i+1, res)
		}
	}
	if r.Score != 0 || e.Hits != 1 {
		t.Fatalf("score=%d hits=%d", r.Score, e.Hits)
	}
	if res := r.Hit(e.ID, roomy); !res.Destroyed || r.Score != 1 {
		t.Fatalf("final hit = %+v score=%d", res, r.Score)
	}
}

func TestHitUnknownEntity(t *testing.T) {
	r := newTestRound(1, &scriptRand{})
	addEntity(r, Entity{Radius: 15})
	if res := r.Hit(999, roomy); res.Found || res.Destroyed {
		t.Fatalf("unknown id result = %+v", res)
	}
	if len(r.Entities()) != 1 || r.Score != 0 {
		t.Fatal("unknown hit changed the round")
	}
}

func TestSplitterChildren(t *testing.T) {
	// child 1: angle 0, no drift; child 2: angle pi/2, drifts with heading pi
	rng := &scriptRand{vals: []float64{0, 0.9, 0.25, 0.1, 0.5}}
	r := newTestRound(4, rng)
	p := addEntity(r, Entity{X: 200, Y: 200, Radius: 30, Growth: 20, Kind: KindSplitter})

	res := r.Hit(p.ID, roomy)
	if !res.Destroyed || len(res.Children) != 2 {
		t.Fatalf("splitter hit = %+v", res)
	}
	if r.Score != 1 {
		t.Fatalf("score = %d, want 1", r.Score)
	}

	c1, ok1 := r.Entity(res.Children[0])
	c2, ok2 := r.Entity(res.Children[1])
	if !ok1 || !ok2 {
		t.Fatal("children not added to the round")
	}
	for _, c := range []*Entity{c1, c2} {
		if c.Radius != 15 || c.Hits != 1 || c.Kind != KindNormal || !approx(c.Growth, 24) {
			t.Fatalf("child = %+v", c)
		}
		if c.Mods&ModArmored != 0 {
			t.Fatal("child inherited armor")
		}
	}
	if !approx(c1.X, 230) || !approx(c1.Y, 200) || c1.Drifting() {
		t.Fatalf("child 1 = %+v", c1)
	}
	if !approx(c2.X, 200) || !approx(c2.Y, 230) || !c2.Drifting() {
		t.Fatalf("child 2 = %+v", c2)
	}
	if !approx(c2.VX, -60) || math.Abs(c2.VY) > 1e-9 {
		t.Fatalf("child 2 velocity = (%v, %v)", c2.VX, c2.VY)
	}
}

func TestSplitterChildRadiusFloor(t *testing.T) {
	r := newTestRound(4, &scriptRand{fallback: 0.9})
	p := addEntity(r, Entity{X: 200, Y: 200, Radius: 16, Kind: KindSplitter})
	res := r.Hit(p.ID, roomy)
	for _, id := range res.Children {
		c, _ := r.Entity(id)
		if c.Radius != 10 {
			t.Fatalf("child radius = %v, want floor 10", c.Radius)
		}
	}
}

func TestSplitterChildrenStayInside(t *testing.T) {
	b := Bounds{W: 300, H: 300}
	r := newTestRound(4, NewRand(3))
	for i := 0; i < 50; i++ {
		p := addEntity(r, Entity{X: 20, Y: 280, Radius: 20, Kind: KindSplitter})
		res := r.Hit(p.ID, b)
		for _, id := range res.Children {
			c, _ := r.Entity(id)
			if c.X-c.Radius < 0 || c.X+c.Radius > b.W || c.Y-c.Radius < 0 || c.Y+c.Radius > b.H {
				t.Fatalf("child escaped: %+v", c)
			}
			if c.Kind == KindSplitter {
				t.Fatal("child can split again")
			}
		}
	}
}

func TestFuseHitShrinksOthers(t *testing.T) {
	r := newTestRound(5, &scriptRand{})
	fuse := addEntity(r, Entity{Radius: 15, Kind: KindFuse, Fuse: &Fuse{Remaining: time.Second}})
	others := []*Entity{
		addEntity(r, Entity{Radius: 20}),
		addEntity(r, Entity{Radius: 10}),
		addEntity(r, Entity{Radius: 6}),
		addEntity(r, Entity{Radius: 40}),
	}

	res := r.Hit(fuse.ID, roomy)
	if !res.Destroyed || res.Awarded != 1 || r.Score != 1 {
		t.Fatalf("fuse hit = %+v score=%d", res, r.Score)
	}
	if _, ok := r.Entity(fuse.ID); ok {
		t.Fatal("fuse still present")
	}
	want := []float64{16, 8, 5, 32}
	for i, e := range others {
		if !approx(e.Radius, want[i]) {
			t.Errorf("other %d radius = %v, want %v", i, e.Radius, want[i])
		}
	}
}

func TestEntityAtPrefersNewest(t *testing.T) {
	r := newTestRound(1, &scriptRand{})
	addEntity(r, Entity{X: 100, Y: 100, Radius: 30})
	top := addEntity(r, Entity{X: 110, Y: 100, Radius: 30})

	e, ok := r.EntityAt(105, 100)
	if !ok || e.ID != top.ID {
		t.Fatalf("EntityAt picked %v, want newest %d", e, top.ID)
	}
	if _, ok := r.EntityAt(500, 500); ok {
		t.Fatal("EntityAt found an entity in empty space")
	}
}

func TestSpawnAddsAndAccelerates(t *testing.T) {
	r := newTestRound(1, NewRand(9))
	before := r.Director().BaseInterval()
	e := r.Spawn(roomy)
	if _, ok := r.Entity(e.ID); !ok {
		t.Fatal("spawned entity missing")
	}
	if r.Director().BaseInterval() >= before {
		t.Fatal("spawn did not accelerate the interval")
	}
}

func TestTickExpires(t *testing.T) {
	r := newTestRound(1, &scriptRand{})
	var res TickResult
	for i := 0; i < 119; i++ {
		res = r.Tick(250*time.Millisecond, roomy)
		if res.Expired {
			t.Fatalf("expired after %d ticks", i+1)
		}
	}
	res = r.Tick(250*time.Millisecond, roomy)
	if !res.Expired || r.Remaining != 0 {
		t.Fatalf("not expired at 30s: %+v remaining=%v", res, r.Remaining)
	}
}
