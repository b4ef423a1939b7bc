package geometry

import (
	"errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrNoBoundingBox is returned when a BVH is asked to hold an object with no bounding box
var ErrNoBoundingBox = errors.New("no bounding box in BVH construction")

// Hittable interface for objects that can be hit by rays
type Hittable interface {
	// Hit returns the closest intersection with t in [tMin, tMax]
	Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool)

	// BoundingBox returns the box enclosing the object over the shutter interval.
	// Returns false for objects that cannot be bounded.
	BoundingBox(time0, time1 float64) (core.AABB, bool)

	// PDFValue returns the solid-angle density of sampling direction from origin toward this object
	PDFValue(origin, direction core.Vec3, sampler core.Sampler) float64

	// Random returns a direction from origin toward a random point on this object
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// notSampleable gives objects that are never used as lights the default density and direction
type notSampleable struct{}

func (notSampleable) PDFValue(origin, direction core.Vec3, sampler core.Sampler) float64 {
	return 0
}

func (notSampleable) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return core.NewVec3(1, 0, 0)
}
