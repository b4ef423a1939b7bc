// Package pdf provides probability densities over directions used for
// importance sampling in the path tracer.
package pdf

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PDF is a probability density over directions that can also be sampled
type PDF interface {
	// Value returns the density for the given direction
	Value(direction core.Vec3) float64
	// Generate draws a direction distributed according to this density
	Generate(sampler core.Sampler) core.Vec3
}

// CosinePDF is the cosine-weighted hemisphere density around a normal
type CosinePDF struct {
	uvw core.ONB
}

// NewCosinePDF creates a cosine density around w
func NewCosinePDF(w core.Vec3) *CosinePDF {
	return &CosinePDF{uvw: core.NewONBFromW(w)}
}

// Value returns cos(θ)/π, or 0 below the hemisphere
func (p *CosinePDF) Value(direction core.Vec3) float64 {
	cosine := direction.Normalize().Dot(p.uvw.W)
	if cosine <= 0 {
		return 0
	}
	return cosine / math.Pi
}

// Generate samples a cosine-weighted direction in world space
func (p *CosinePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.uvw.LocalVec(core.RandomCosineDirection(sampler))
}
