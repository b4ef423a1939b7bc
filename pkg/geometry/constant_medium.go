package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// mediumExitEpsilon offsets the search for the boundary exit past the entry point
const mediumExitEpsilon = 0.0001

// ConstantMedium is a volume of uniform density filling a convex boundary, like smoke or fog
type ConstantMedium struct {
	notSampleable
	Boundary         Hittable
	PhaseFunction    material.Material
	negativeInvDense float64
}

// NewConstantMedium fills boundary with a medium of the given density and phase function
func NewConstantMedium(boundary Hittable, density float64, phase material.Material) *ConstantMedium {
	return &ConstantMedium{
		Boundary:         boundary,
		PhaseFunction:    phase,
		negativeInvDense: -1 / density,
	}
}

// NewConstantMediumColor fills boundary with an isotropic medium of the given color
func NewConstantMediumColor(boundary Hittable, density float64, color core.Vec3) *ConstantMedium {
	return NewConstantMedium(boundary, density, material.NewIsotropic(color))
}

// Hit samples a free-flight distance through the medium. The ray scatters inside
// the boundary with probability that grows with the distance travelled through it.
func (m *ConstantMedium) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	entry, ok := m.Boundary.Hit(ray, math.Inf(-1), math.Inf(1), sampler)
	if !ok {
		return nil, false
	}
	exit, ok := m.Boundary.Hit(ray, entry.T+mediumExitEpsilon, math.Inf(1), sampler)
	if !ok {
		return nil, false
	}

	t1, t2 := entry.T, exit.T
	if t1 < tMin {
		t1 = tMin
	}
	if t2 > tMax {
		t2 = tMax
	}
	if t1 >= t2 {
		return nil, false
	}
	if t1 < 0 {
		t1 = 0
	}

	rayLength := ray.Direction.Length()
	distanceInsideBoundary := (t2 - t1) * rayLength
	hitDistance := m.negativeInvDense * math.Log(sampler.Get1D())
	if hitDistance > distanceInsideBoundary {
		return nil, false
	}

	t := t1 + hitDistance/rayLength
	return &material.HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    core.NewVec3(1, 0, 0), // arbitrary
		FrontFace: true,                  // also arbitrary
		Material:  m.PhaseFunction,
	}, true
}

// BoundingBox returns the boundary's box
func (m *ConstantMedium) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return m.Boundary.BoundingBox(time0, time1)
}
