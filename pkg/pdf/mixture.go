package pdf

import "github.com/df07/go-pathtracer/pkg/core"

// MixturePDF is an equal-weight blend of two densities
type MixturePDF struct {
	p0, p1 PDF
}

// NewMixturePDF creates a 50/50 mixture of p0 and p1
func NewMixturePDF(p0, p1 PDF) *MixturePDF {
	return &MixturePDF{p0: p0, p1: p1}
}

// Value returns 0.5·p0 + 0.5·p1
func (m *MixturePDF) Value(direction core.Vec3) float64 {
	return 0.5*m.p0.Value(direction) + 0.5*m.p1.Value(direction)
}

// Generate flips a fair coin to choose which density to sample
func (m *MixturePDF) Generate(sampler core.Sampler) core.Vec3 {
	if sampler.Get1D() < 0.5 {
		return m.p0.Generate(sampler)
	}
	return m.p1.Generate(sampler)
}
