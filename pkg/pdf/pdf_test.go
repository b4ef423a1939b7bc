package pdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// constantPDF returns a fixed density and a fixed direction
type constantPDF struct {
	value     float64
	direction core.Vec3
}

func (c constantPDF) Value(direction core.Vec3) float64 { return c.value }
func (c constantPDF) Generate(sampler core.Sampler) core.Vec3 { return c.direction }

// mockTarget records the origin it was queried from
type mockTarget struct {
	lastOrigin core.Vec3
}

func (m *mockTarget) PDFValue(origin, direction core.Vec3, sampler core.Sampler) float64 {
	m.lastOrigin = origin
	return 0.25
}

func (m *mockTarget) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	m.lastOrigin = origin
	return core.NewVec3(0, 1, 0)
}

func TestCosinePDF_Value(t *testing.T) {
	p := NewCosinePDF(core.NewVec3(0, 1, 0))

	tests := []struct {
		name      string
		direction core.Vec3
		expected  float64
	}{
		{"Along normal", core.NewVec3(0, 2, 0), 1 / math.Pi},
		{"45 degrees", core.NewVec3(1, 1, 0), math.Sqrt(0.5) / math.Pi},
		{"Tangent", core.NewVec3(1, 0, 0), 0},
		{"Below", core.NewVec3(0, -1, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Value(tt.direction); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestCosinePDF_GenerateInHemisphere(t *testing.T) {
	normal := core.NewVec3(1, 1, 0).Normalize()
	p := NewCosinePDF(normal)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		d := p.Generate(sampler)
		if d.Dot(normal) < -1e-9 {
			t.Fatalf("Generated direction %v is below the hemisphere", d)
		}
		if p.Value(d) < 0 {
			t.Fatalf("Negative density for generated direction %v", d)
		}
	}
}

func TestMixturePDF_Bounds(t *testing.T) {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	cosine := NewCosinePDF(core.NewVec3(0, 0, 1))

	for i := 0; i < 200; i++ {
		other := constantPDF{value: sampler.Get1D() * 3, direction: core.NewVec3(0, 0, 1)}
		mixture := NewMixturePDF(cosine, other)

		d := core.RandomVec3(sampler, -1, 1)
		a, b := cosine.Value(d), other.Value(d)
		got := mixture.Value(d)

		if got < math.Min(a, b)-1e-12 || got > math.Max(a, b)+1e-12 {
			t.Fatalf("Mixture value %f outside [%f, %f]", got, math.Min(a, b), math.Max(a, b))
		}
		if math.Abs(got-0.5*(a+b)) > 1e-12 {
			t.Fatalf("Expected average %f, got %f", 0.5*(a+b), got)
		}
	}
}

func TestMixturePDF_GenerateUsesBoth(t *testing.T) {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	up := constantPDF{value: 1, direction: core.NewVec3(0, 1, 0)}
	down := constantPDF{value: 1, direction: core.NewVec3(0, -1, 0)}
	mixture := NewMixturePDF(up, down)

	ups := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if mixture.Generate(sampler).Y > 0 {
			ups++
		}
	}

	ratio := float64(ups) / n
	if math.Abs(ratio-0.5) > 0.03 {
		t.Errorf("Expected roughly half of samples from each density, got %f", ratio)
	}
}

func TestHittablePDF_DelegatesWithOrigin(t *testing.T) {
	target := &mockTarget{}
	origin := core.NewVec3(1, 2, 3)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	p := NewHittablePDF(target, origin, sampler)

	if got := p.Value(core.NewVec3(0, 1, 0)); got != 0.25 {
		t.Errorf("Expected delegated value 0.25, got %f", got)
	}
	if target.lastOrigin != origin {
		t.Errorf("Expected origin %v, got %v", origin, target.lastOrigin)
	}

	target.lastOrigin = core.Vec3{}
	if got := p.Generate(sampler); got != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected delegated direction, got %v", got)
	}
	if target.lastOrigin != origin {
		t.Errorf("Expected origin %v, got %v", origin, target.lastOrigin)
	}
}
