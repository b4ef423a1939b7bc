package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TestImageTextureValue tests basic texture sampling
func TestImageTextureValue(t *testing.T) {
	// Layout:
	//   white black
	//   black white
	pixels := []core.Vec3{
		core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0), // Row 0 (top in image coords)
		core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), // Row 1 (bottom in image coords)
	}
	texture := NewImageTexture(2, 2, pixels)

	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)

	tests := []struct {
		name     string
		u, v     float64
		expected core.Vec3
	}{
		{"Bottom-left", 0.1, 0.1, black},
		{"Bottom-right", 0.9, 0.1, white},
		{"Top-left", 0.1, 0.9, white},
		{"Top-right", 0.9, 0.9, black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := texture.Value(tt.u, tt.v, core.Vec3{}); got != tt.expected {
				t.Errorf("UV(%.1f,%.1f): expected %v, got %v", tt.u, tt.v, tt.expected, got)
			}
		})
	}
}

// TestImageTextureClamping tests that UV outside [0,1] sticks to the edge
func TestImageTextureClamping(t *testing.T) {
	pixels := make([]core.Vec3, 16)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			val := float64(y*4+x) / 15.0
			pixels[y*4+x] = core.NewVec3(val, val, val)
		}
	}
	texture := NewImageTexture(4, 4, pixels)

	tests := []struct {
		name     string
		u, v     float64
		expected core.Vec3
	}{
		// V=1 maps to the top row, U=1 to the last column
		{"Top-left corner", 0, 1, pixels[0]},
		{"Bottom-right corner", 1, 0, pixels[15]},
		{"Past the right edge", 1.5, 1, pixels[3]},
		{"Below the bottom edge", 0, -2, pixels[12]},
		{"Interior", 0.375, 0.625, pixels[1*4+1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := texture.Value(tt.u, tt.v, core.Vec3{}); got != tt.expected {
				t.Errorf("UV(%.3f,%.3f): expected %v, got %v", tt.u, tt.v, tt.expected, got)
			}
		})
	}
}

func TestImageTextureEmpty(t *testing.T) {
	texture := NewImageTexture(0, 0, nil)
	if got := texture.Value(0.5, 0.5, core.Vec3{}); got != core.NewVec3(0, 1, 1) {
		t.Errorf("Expected debug cyan for empty texture, got %v", got)
	}
}

func TestSolidColor(t *testing.T) {
	color := core.NewVec3(0.7, 0.3, 0.1)
	solid := NewSolidColor(color)

	points := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(5, 3, -2),
		core.NewVec3(-1, -1, -1),
	}
	for _, p := range points {
		if got := solid.Value(0.3, 0.6, p); got != color {
			t.Errorf("SolidColor at %v: expected %v, got %v", p, color, got)
		}
	}
}

func TestCheckerTexture(t *testing.T) {
	even := core.NewVec3(1, 1, 1)
	odd := core.NewVec3(0, 0, 0)
	checker := NewCheckerColors(even, odd)

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"all positive sines", core.NewVec3(0.1, 0.1, 0.1), even},
		{"one negative sine", core.NewVec3(-0.1, 0.1, 0.1), odd},
		{"two negative sines", core.NewVec3(-0.1, -0.1, 0.1), even},
		{"on a boundary", core.NewVec3(0, 0.1, 0.1), even},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Value(0, 0, tt.point); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPerlinNoiseDeterministicAndBounded(t *testing.T) {
	a := NewPerlin(core.NewRandomSampler(rand.New(rand.NewSource(7))))
	b := NewPerlin(core.NewRandomSampler(rand.New(rand.NewSource(7))))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 500; i++ {
		p := core.RandomVec3(sampler, -20, 20)
		na, nb := a.Noise(p), b.Noise(p)
		if na != nb {
			t.Fatalf("Same seed should produce same noise at %v: %f vs %f", p, na, nb)
		}
		// Lattice vectors and offsets both lie in [-1,1]^3
		if math.Abs(na) > 3 {
			t.Fatalf("Noise %f out of range at %v", na, p)
		}
		if turb := a.Turbulence(p, 7); turb < 0 {
			t.Fatalf("Turbulence should be non-negative, got %f", turb)
		}
	}
}

func TestPerlinNoiseZeroAtLatticePoints(t *testing.T) {
	perlin := NewPerlin(core.NewSeededSampler(3))
	for _, p := range []core.Vec3{{}, core.NewVec3(1, 2, 3), core.NewVec3(-4, 0, 7)} {
		if n := perlin.Noise(p); math.Abs(n) > 1e-12 {
			t.Errorf("Gradient noise should vanish at lattice point %v, got %f", p, n)
		}
	}
}

func TestNoiseTextureGray(t *testing.T) {
	texture := NewNoiseTexture(4, core.NewSeededSampler(5))
	sampler := core.NewSeededSampler(9)
	for i := 0; i < 100; i++ {
		c := texture.Value(0, 0, core.RandomVec3(sampler, -5, 5))
		if c.X != c.Y || c.Y != c.Z {
			t.Fatalf("Noise texture should be gray, got %v", c)
		}
		if c.X < 0 || c.X > 1 {
			t.Fatalf("Noise texture out of [0,1]: %v", c)
		}
	}
}
