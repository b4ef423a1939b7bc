package pdf

import "github.com/df07/go-pathtracer/pkg/core"

// Target is anything that can be sampled by direction from a point,
// typically a light or a list of lights
type Target interface {
	PDFValue(origin, direction core.Vec3, sampler core.Sampler) float64
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// HittablePDF samples directions toward a target as seen from an origin
type HittablePDF struct {
	target  Target
	origin  core.Vec3
	sampler core.Sampler
}

// NewHittablePDF creates a density toward target from origin.
// The sampler is used when evaluating densities that require a hit test.
func NewHittablePDF(target Target, origin core.Vec3, sampler core.Sampler) *HittablePDF {
	return &HittablePDF{target: target, origin: origin, sampler: sampler}
}

// Value delegates to the target's density
func (p *HittablePDF) Value(direction core.Vec3) float64 {
	return p.target.PDFValue(p.origin, direction, p.sampler)
}

// Generate delegates to the target's sampler
func (p *HittablePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.target.Random(p.origin, sampler)
}
