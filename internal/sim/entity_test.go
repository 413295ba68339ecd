package sim

import (
	"testing"
	"time"
)

func TestAdvanceOneSecondOfTicks(t *testing.T) {
	e := &Entity{Radius: 15, Growth: 20, Hits: 1}
	for i := 0; i < 10; i++ {
		e.Advance(100 * time.Millisecond)
	}
	if !approx(e.Radius, 35) {
		t.Fatalf("radius after 1s = %v, want 35", e.Radius)
	}
	if e.X != 0 || e.Y != 0 {
		t.Fatalf("stationary entity moved to (%v, %v)", e.X, e.Y)
	}
}

func TestAdvanceNeverShrinks(t *testing.T) {
	for _, dt := range []time.Duration{0, -time.Second, time.Nanosecond, time.Millisecond, time.Second} {
		e := &Entity{Radius: 15, Growth: 20, Hits: 1}
		e.Advance(dt)
		if e.Radius < 15 {
			t.Fatalf("Advance(%v) shrank radius to %v", dt, e.Radius)
		}
	}
}

func TestAdvanceMovesDrifter(t *testing.T) {
	e := &Entity{X: 50, Y: 50, VX: 10, VY: -20, Radius: 5, Growth: 1, Hits: 1}
	e.Advance(500 * time.Millisecond)
	if !approx(e.X, 55) || !approx(e.Y, 40) {
		t.Fatalf("position = (%v, %v), want (55, 40)", e.X, e.Y)
	}
}

func TestBounceReflectsAndClamps(t *testing.T) {
	b := Bounds{W: 200, H: 100}

	left := &Entity{X: 5, Y: 50, VX: -60, VY: 0, Radius: 10}
	left.Bounce(b)
	if left.X != 10 || left.VX != 60 {
		t.Fatalf("left wall: x=%v vx=%v, want 10 60", left.X, left.VX)
	}

	bottom := &Entity{X: 100, Y: 98, VX: 3, VY: 40, Radius: 10}
	bottom.Bounce(b)
	if bottom.Y != 90 || bottom.VY != -40 || bottom.VX != 3 {
		t.Fatalf("bottom wall: y=%v vy=%v vx=%v", bottom.Y, bottom.VY, bottom.VX)
	}

	inside := &Entity{X: 100, Y: 50, VX: 5, VY: 5, Radius: 10}
	inside.Bounce(b)
	if inside.X != 100 || inside.Y != 50 || inside.VX != 5 || inside.VY != 5 {
		t.Fatal("bounce changed an entity away from the walls")
	}
}

func TestBounceCentersOversizedCircle(t *testing.T) {
	e := &Entity{X: 10, Y: 10, VX: 1, VY: 1, Radius: 60}
	e.Bounce(Bounds{W: 100, H: 300})
	if e.X != 50 {
		t.Fatalf("x = %v, want centered 50", e.X)
	}
	if e.Y != 60 {
		t.Fatalf("y = %v, want clamped 60", e.Y)
	}
}

func TestRegisterHit(t *testing.T) {
	e := &Entity{Hits: 3, Mods: ModArmored}
	if e.RegisterHit() || e.RegisterHit() {
		t.Fatal("armored entity destroyed before its last hit")
	}
	if !e.RegisterHit() {
		t.Fatal("third hit should destroy")
	}
	if e.Hits != 0 {
		t.Fatalf("hits = %d, want 0", e.Hits)
	}
}

func TestTag(t *testing.T) {
	cases := []struct {
		e    Entity
		want Tag
	}{
		{Entity{}, TagNormal},
		{Entity{Mods: ModArmored}, TagArmored},
		{Entity{Mods: ModDrifter}, TagDrifter},
		{Entity{Mods: ModArmored | ModDrifter}, TagArmoredDrifter},
		{Entity{Kind: KindSplitter}, TagSplitter},
		{Entity{Kind: KindFuse, Fuse: &Fuse{Remaining: time.Second}}, TagFuse},
	}
	for _, c := range cases {
		if got := c.e.Tag(); got != c.want {
			t.Errorf("Tag() = %q, want %q", got, c.want)
		}
	}
}

func TestLethalRadius(t *testing.T) {
	if r := (Bounds{W: 800, H: 600}).LethalRadius(); r != 300 {
		t.Fatalf("lethal radius = %v, want 300", r)
	}
	if r := (Bounds{}).LethalRadius(); r != 0 {
		t.Fatalf("degenerate lethal radius = %v, want 0", r)
	}
}
