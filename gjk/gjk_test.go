package gjk

import (
	"testing"

	"github.com/akmonengine/dock/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func box(position, halfExtents mgl64.Vec3) actor.Volume {
	return actor.Volume{
		Shape:     &actor.Box{HalfExtents: halfExtents},
		Transform: actor.Transform{Position: position, Rotation: mgl64.QuatIdent()},
	}
}

func sphere(position mgl64.Vec3, radius float64) actor.Volume {
	return actor.Volume{
		Shape:     &actor.Sphere{Radius: radius},
		Transform: actor.Transform{Position: position, Rotation: mgl64.QuatIdent()},
	}
}

func TestMinkowskiSupport(t *testing.T) {
	tests := []struct {
		name      string
		b         actor.Volume
		direction mgl64.Vec3
		expectedX float64
	}{
		// max(A.x) - min(B.x) = 1 - 2
		{"separated along +X", sphere(mgl64.Vec3{3, 0, 0}, 1), mgl64.Vec3{1, 0, 0}, -1},
		{"overlapping along +X", sphere(mgl64.Vec3{1.5, 0, 0}, 1), mgl64.Vec3{1, 0, 0}, 0.5},
		// min(A.x) - max(B.x) = -1 - 4
		{"separated along -X", sphere(mgl64.Vec3{3, 0, 0}, 1), mgl64.Vec3{-1, 0, 0}, -5},
	}

	a := sphere(mgl64.Vec3{}, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			support := MinkowskiSupport(a, tt.b, tt.direction)
			if support.X() != tt.expectedX {
				t.Errorf("support.X = %v, want %v", support.X(), tt.expectedX)
			}
		})
	}
}

func TestGJK(t *testing.T) {
	quarterTurn := mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0})
	rotated := box(mgl64.Vec3{2.5, 0, 0}, mgl64.Vec3{0.5, 0.5, 2})
	rotated.Transform.Rotation = quarterTurn

	tests := []struct {
		name     string
		a, b     actor.Volume
		expected bool
	}{
		{"overlapping spheres", sphere(mgl64.Vec3{}, 1), sphere(mgl64.Vec3{1.5, 0, 0}, 1), true},
		{"touching spheres", sphere(mgl64.Vec3{}, 1), sphere(mgl64.Vec3{2, 0, 0}, 1), true},
		{"coincident spheres", sphere(mgl64.Vec3{}, 1), sphere(mgl64.Vec3{}, 1), true},
		{"nearly coincident spheres", sphere(mgl64.Vec3{}, 1), sphere(mgl64.Vec3{1e-15, 0, 0}, 1), true},
		{"far spheres", sphere(mgl64.Vec3{}, 1), sphere(mgl64.Vec3{10, 0, 0}, 1), false},
		{"barely separated spheres", sphere(mgl64.Vec3{}, 1), sphere(mgl64.Vec3{2.1, 0, 0}, 1), false},
		{"spheres apart on Y", sphere(mgl64.Vec3{}, 1), sphere(mgl64.Vec3{0, 5, 0}, 1), false},
		{"spheres apart diagonally", sphere(mgl64.Vec3{}, 1), sphere(mgl64.Vec3{3, 3, 3}, 1), false},
		{"overlapping boxes", box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), box(mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{1, 1, 1}), true},
		{"touching boxes", box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), box(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 1, 1}), true},
		{"nested boxes", box(mgl64.Vec3{}, mgl64.Vec3{2, 2, 2}), box(mgl64.Vec3{0, 1, 1}, mgl64.Vec3{1, 1, 1}), true},
		{"barely separated boxes", box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), box(mgl64.Vec3{2.1, 0, 0}, mgl64.Vec3{1, 1, 1}), false},
		{"sphere inside box", box(mgl64.Vec3{}, mgl64.Vec3{2, 2, 2}), sphere(mgl64.Vec3{}, 0.5), true},
		{"sphere on box corner", box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), sphere(mgl64.Vec3{1.5, 1.5, 1.5}, 1), true},
		{"sphere near box face", box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), sphere(mgl64.Vec3{2.5, 0, 0}, 0.4), false},
		// long along Z before the turn, long along X after it
		{"rotated box reaches", box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), rotated, true},
		{"large spheres", sphere(mgl64.Vec3{}, 1e10), sphere(mgl64.Vec3{1.5e10, 0, 0}, 1e10), true},
		{"small spheres", sphere(mgl64.Vec3{}, 1e-10), sphere(mgl64.Vec3{1.5e-10, 0, 0}, 1e-10), true},
		{"points", sphere(mgl64.Vec3{}, 0), sphere(mgl64.Vec3{}, 0), true},
		{"flat boxes", box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 0}), box(mgl64.Vec3{0.5, 0.5, 0}, mgl64.Vec3{1, 1, 0}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GJK(tt.a, tt.b, &Simplex{}); got != tt.expected {
				t.Errorf("GJK() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIntersects_ReusesPool(t *testing.T) {
	a := box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	near := box(mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{1, 1, 1})
	far := box(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{1, 1, 1})

	for i := 0; i < 3; i++ {
		if !Intersects(a, near) {
			t.Fatalf("iteration %d: expected overlap", i)
		}
		if Intersects(a, far) {
			t.Fatalf("iteration %d: expected separation", i)
		}
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name          string
		b, a          mgl64.Vec3
		expected      bool
		expectedCount int
	}{
		{"origin beside segment", mgl64.Vec3{-1, 1, 0}, mgl64.Vec3{1, 1, 0}, false, 2},
		{"origin in the middle", mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, true, 2},
		{"origin at A", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 0, 0}, false, 1},
		{"origin behind A", mgl64.Vec3{3, 0, 0}, mgl64.Vec3{1, 0, 0}, false, 1},
		{"degenerate segment at origin", mgl64.Vec3{1e-15, 1e-15, 0}, mgl64.Vec3{1e-15, 0, 0}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex := Simplex{Points: [4]mgl64.Vec3{tt.b, tt.a}, Count: 2}
			direction := mgl64.Vec3{0, 1, 0}

			if got := line(&simplex, &direction); got != tt.expected {
				t.Errorf("line() = %v, want %v", got, tt.expected)
			}
			if simplex.Count != tt.expectedCount {
				t.Errorf("simplex.Count = %d, want %d", simplex.Count, tt.expectedCount)
			}
		})
	}
}

func TestTriangle(t *testing.T) {
	tests := []struct {
		name          string
		c, b, a       mgl64.Vec3
		expectedCount int
	}{
		{"origin off the face plane", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 0.5}, 3},
		{"origin by edge AB", mgl64.Vec3{3, 3, 0}, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{2, 0, 0}, 2},
		{"origin by edge AC", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{3, 3, 0}, mgl64.Vec3{2, 0, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex := Simplex{Points: [4]mgl64.Vec3{tt.c, tt.b, tt.a}, Count: 3}
			direction := mgl64.Vec3{0, 0, 1}

			if triangle(&simplex, &direction) {
				t.Error("a triangle never contains the origin")
			}
			if simplex.Count != tt.expectedCount {
				t.Errorf("simplex.Count = %d, want %d", simplex.Count, tt.expectedCount)
			}
		})
	}
}

func TestTetrahedron(t *testing.T) {
	tests := []struct {
		name     string
		points   [4]mgl64.Vec3
		expected bool
	}{
		{"origin inside", [4]mgl64.Vec3{{-1, -1, -1}, {1, 1, -1}, {1, -1, 1}, {-1, 1, 1}}, true},
		{"origin outside", [4]mgl64.Vec3{{5, 5, 5}, {6, 5, 5}, {5, 6, 5}, {5, 5, 6}}, false},
		{"colinear points", [4]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}, false},
		{"repeated point", [4]mgl64.Vec3{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, false},
		{"origin just past a face", [4]mgl64.Vec3{{1, 1, -1e-12}, {1, 0, 1e-12}, {0, 1, 1e-12}, {0, 0, 1e-12}}, false},
		{"sliver face", [4]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1e-15, 0}, {0, 0, 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex := Simplex{Points: tt.points, Count: 4}
			direction := mgl64.Vec3{0, 0, 1}

			if got := tetrahedron(&simplex, &direction); got != tt.expected {
				t.Errorf("tetrahedron() = %v, want %v", got, tt.expected)
			}
			if !tt.expected && simplex.Count > 3 {
				t.Errorf("simplex.Count = %d, want it reduced", simplex.Count)
			}
		})
	}
}

func BenchmarkGJK_Boxes(b *testing.B) {
	a := box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	other := box(mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{1, 1, 1})
	simplex := &Simplex{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GJK(a, other, simplex)
	}
}
