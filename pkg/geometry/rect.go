package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// rectPadding thickens the flat axis of a rectangle's bounding box so it has volume
const rectPadding = 0.0001

// Plane identifies which axes an axis-aligned rectangle spans
type Plane int

const (
	PlaneXY Plane = iota // spans X and Y, fixed Z
	PlaneXZ              // spans X and Z, fixed Y
	PlaneYZ              // spans Y and Z, fixed X
)

// axes returns the two spanned axes and the fixed axis
func (p Plane) axes() (a, b, k int) {
	switch p {
	case PlaneXY:
		return 0, 1, 2
	case PlaneXZ:
		return 0, 2, 1
	default:
		return 1, 2, 0
	}
}

// AARect is an axis-aligned rectangle at K on the fixed axis, spanning [A0,A1]×[B0,B1]
type AARect struct {
	Plane    Plane
	A0, A1   float64
	B0, B1   float64
	K        float64
	Material material.Material
}

// NewXYRect creates a rectangle in the plane z = k
func NewXYRect(x0, x1, y0, y1, k float64, material material.Material) *AARect {
	return &AARect{Plane: PlaneXY, A0: x0, A1: x1, B0: y0, B1: y1, K: k, Material: material}
}

// NewXZRect creates a rectangle in the plane y = k
func NewXZRect(x0, x1, z0, z1, k float64, material material.Material) *AARect {
	return &AARect{Plane: PlaneXZ, A0: x0, A1: x1, B0: z0, B1: z1, K: k, Material: material}
}

// NewYZRect creates a rectangle in the plane x = k
func NewYZRect(y0, y1, z0, z1, k float64, material material.Material) *AARect {
	return &AARect{Plane: PlaneYZ, A0: y0, A1: y1, B0: z0, B1: z1, K: k, Material: material}
}

// compose builds a point from values along the two spanned axes and the fixed axis
func (r *AARect) compose(a, b, k float64) core.Vec3 {
	var v [3]float64
	ia, ib, ik := r.Plane.axes()
	v[ia], v[ib], v[ik] = a, b, k
	return core.NewVec3(v[0], v[1], v[2])
}

// Hit intersects the ray with the rectangle's plane and checks the 2D bounds
func (r *AARect) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	ia, ib, ik := r.Plane.axes()

	t := (r.K - ray.Origin.Axis(ik)) / ray.Direction.Axis(ik)
	if t < tMin || t > tMax {
		return nil, false
	}

	a := ray.Origin.Axis(ia) + t*ray.Direction.Axis(ia)
	b := ray.Origin.Axis(ib) + t*ray.Direction.Axis(ib)
	if a < r.A0 || a > r.A1 || b < r.B0 || b > r.B1 {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		U:        (a - r.A0) / (r.A1 - r.A0),
		V:        (b - r.B0) / (r.B1 - r.B0),
		Material: r.Material,
	}
	hitRecord.SetFaceNormal(ray, r.compose(0, 0, 1))
	return hitRecord, true
}

// BoundingBox returns the rectangle's bounds padded along the fixed axis
func (r *AARect) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return core.NewAABB(
		r.compose(r.A0, r.B0, r.K-rectPadding),
		r.compose(r.A1, r.B1, r.K+rectPadding),
	), true
}

// Area returns the rectangle's surface area
func (r *AARect) Area() float64 {
	return (r.A1 - r.A0) * (r.B1 - r.B0)
}

// PDFValue converts the uniform area density to solid angle: distance²/(|cosθ|·area)
func (r *AARect) PDFValue(origin, direction core.Vec3, sampler core.Sampler) float64 {
	hit, ok := r.Hit(core.NewRay(origin, direction), 0.001, math.Inf(1), sampler)
	if !ok {
		return 0
	}

	distanceSquared := hit.T * hit.T * direction.LengthSquared()
	cosine := math.Abs(direction.Dot(hit.Normal) / direction.Length())
	return distanceSquared / (cosine * r.Area())
}

// Random returns the vector from origin to a uniformly chosen point on the rectangle
func (r *AARect) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	point := r.compose(
		core.RandomRange(sampler, r.A0, r.A1),
		core.RandomRange(sampler, r.B0, r.B1),
		r.K,
	)
	return point.Subtract(origin)
}
