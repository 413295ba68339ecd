package physics

import (
	"math"
	"testing"
)

func TestDistanceSquared(t *testing.T) {
	if d := DistanceSquared(1, 1, 4, 5); d != 25 {
		t.Fatalf("DistanceSquared = %v, want 25", d)
	}
}

func TestPointInCircle(t *testing.T) {
	if !PointInCircle(10, 10, 10, 10, 1) {
		t.Fatal("center must be inside")
	}
	if !PointInCircle(13, 14, 10, 10, 5) {
		t.Fatal("point on the edge must be inside")
	}
	if PointInCircle(10+5*math.Cos(0.3)+0.01, 10+5*math.Sin(0.3)+0.01, 10, 10, 5) {
		t.Fatal("point just past the edge must be outside")
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name              string
		pos, vel, r, span float64
		wantPos, wantVel  float64
	}{
		{"inside", 50, 10, 5, 100, 50, 10},
		{"past low wall", 3, -10, 5, 100, 5, 10},
		{"past high wall", 98, 10, 5, 100, 95, -10},
		{"at high wall moving in", 98, -10, 5, 100, 95, -10},
		{"wider than span", 20, 10, 60, 100, 50, 10},
	}
	for _, tt := range tests {
		pos, vel := Reflect(tt.pos, tt.vel, tt.r, tt.span)
		if pos != tt.wantPos || vel != tt.wantVel {
			t.Errorf("%s: Reflect = %v, %v, want %v, %v", tt.name, pos, vel, tt.wantPos, tt.wantVel)
		}
	}
}
