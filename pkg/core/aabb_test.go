package core

import (
	"math/rand"
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{
			name:     "Straight through",
			ray:      NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)),
			expected: true,
		},
		{
			name:     "Pointing away",
			ray:      NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)),
			expected: false,
		},
		{
			name:     "Parallel outside x slab",
			ray:      NewRay(NewVec3(2, -5, 0), NewVec3(0, 1, 0)),
			expected: false,
		},
		{
			name:     "Parallel outside x slab negative side",
			ray:      NewRay(NewVec3(-2, -5, 0), NewVec3(0, 1, 0)),
			expected: false,
		},
		{
			name:     "Parallel inside x slab",
			ray:      NewRay(NewVec3(0.5, -5, 0), NewVec3(0, 1, 0)),
			expected: true,
		},
		{
			name:     "Diagonal",
			ray:      NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)),
			expected: true,
		},
		{
			name:     "Origin inside",
			ray:      NewRay(NewVec3(0, 0, 0), NewVec3(0.3, -0.2, 1)),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, 0.001, 1e9); got != tt.expected {
				t.Errorf("Expected hit=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAABB_HitRespectsInterval(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1))

	// Box spans t in [4, 6]
	if box.Hit(ray, 0.001, 3.5) {
		t.Error("Expected miss when tMax ends before the box")
	}
	if box.Hit(ray, 6.5, 100) {
		t.Error("Expected miss when tMin starts after the box")
	}
	if !box.Hit(ray, 4.5, 5.5) {
		t.Error("Expected hit when interval lies inside the box span")
	}
}

func TestSurroundingBox_Idempotent(t *testing.T) {
	box := NewAABB(NewVec3(-1, 2, -3), NewVec3(4, 5, 6))
	if got := SurroundingBox(box, box); got != box {
		t.Errorf("Expected %v, got %v", box, got)
	}
}

func TestSurroundingBox_ContainsBoth(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := NewRandomSampler(random)

	for i := 0; i < 100; i++ {
		a := NewAABBFromPoints(RandomVec3(sampler, -10, 10), RandomVec3(sampler, -10, 10))
		b := NewAABBFromPoints(RandomVec3(sampler, -10, 10), RandomVec3(sampler, -10, 10))

		union := SurroundingBox(a, b)
		if !union.Contains(a) || !union.Contains(b) {
			t.Fatalf("Union %v does not contain %v and %v", union, a, b)
		}
		if !union.IsValid() {
			t.Fatalf("Union %v has min > max", union)
		}
		if SurroundingBox(b, a) != union {
			t.Fatalf("SurroundingBox is not commutative for %v and %v", a, b)
		}
	}
}
