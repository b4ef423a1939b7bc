package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Translate moves a wrapped object by a fixed offset
type Translate struct {
	Object Hittable
	Offset core.Vec3
}

// NewTranslate wraps object so it appears displaced by offset
func NewTranslate(object Hittable, offset core.Vec3) *Translate {
	return &Translate{Object: object, Offset: offset}
}

// Hit moves the ray into object space, tests, and moves the hit point back
func (t *Translate) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	moved := core.NewRayAtTime(ray.Origin.Subtract(t.Offset), ray.Direction, ray.Time)

	hit, ok := t.Object.Hit(moved, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}

	// Translation leaves normals and facing unchanged
	hit.Point = hit.Point.Add(t.Offset)
	return hit, true
}

// BoundingBox returns the child's box shifted by the offset
func (t *Translate) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	box, ok := t.Object.BoundingBox(time0, time1)
	if !ok {
		return core.AABB{}, false
	}
	return box.Translate(t.Offset), true
}

// PDFValue forwards to the child with the origin in object space
func (t *Translate) PDFValue(origin, direction core.Vec3, sampler core.Sampler) float64 {
	return t.Object.PDFValue(origin.Subtract(t.Offset), direction, sampler)
}

// Random forwards to the child with the origin in object space
func (t *Translate) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return t.Object.Random(origin.Subtract(t.Offset), sampler)
}

// RotateY rotates a wrapped object about the Y axis
type RotateY struct {
	Object   Hittable
	sinTheta float64
	cosTheta float64
	hasBox   bool
	box      core.AABB
}

// NewRotateY wraps object rotated by angle degrees about the Y axis
func NewRotateY(object Hittable, angle float64) *RotateY {
	radians := angle * math.Pi / 180
	r := &RotateY{
		Object:   object,
		sinTheta: math.Sin(radians),
		cosTheta: math.Cos(radians),
	}

	bbox, ok := object.BoundingBox(0, 1)
	r.hasBox = ok

	// Rotate all 8 corners and bound the result
	min := core.NewVec3(math.Inf(1), math.Inf(1), math.Inf(1))
	max := core.NewVec3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				x := float64(i)*bbox.Max.X + float64(1-i)*bbox.Min.X
				y := float64(j)*bbox.Max.Y + float64(1-j)*bbox.Min.Y
				z := float64(k)*bbox.Max.Z + float64(1-k)*bbox.Min.Z

				corner := r.toWorld(core.NewVec3(x, y, z))
				min = core.NewVec3(math.Min(min.X, corner.X), math.Min(min.Y, corner.Y), math.Min(min.Z, corner.Z))
				max = core.NewVec3(math.Max(max.X, corner.X), math.Max(max.Y, corner.Y), math.Max(max.Z, corner.Z))
			}
		}
	}
	r.box = core.NewAABB(min, max)

	return r
}

// toObject rotates a world-space vector by -θ
func (r *RotateY) toObject(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		r.cosTheta*v.X-r.sinTheta*v.Z,
		v.Y,
		r.sinTheta*v.X+r.cosTheta*v.Z,
	)
}

// toWorld rotates an object-space vector by +θ
func (r *RotateY) toWorld(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		r.cosTheta*v.X+r.sinTheta*v.Z,
		v.Y,
		-r.sinTheta*v.X+r.cosTheta*v.Z,
	)
}

// Hit rotates the ray into object space, tests, and rotates the hit back
func (r *RotateY) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	rotated := core.NewRayAtTime(r.toObject(ray.Origin), r.toObject(ray.Direction), ray.Time)

	hit, ok := r.Object.Hit(rotated, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}

	// Rotation preserves dot products, so the child's FrontFace still holds
	hit.Point = r.toWorld(hit.Point)
	hit.Normal = r.toWorld(hit.Normal)
	return hit, true
}

// BoundingBox returns the precomputed rotated box
func (r *RotateY) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return r.box, r.hasBox
}

// PDFValue evaluates the child's density in object space
func (r *RotateY) PDFValue(origin, direction core.Vec3, sampler core.Sampler) float64 {
	return r.Object.PDFValue(r.toObject(origin), r.toObject(direction), sampler)
}

// Random samples the child in object space and rotates the direction back to world space
func (r *RotateY) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return r.toWorld(r.Object.Random(r.toObject(origin), sampler))
}

// FlipFace inverts the front-face flag of a wrapped object's hits
type FlipFace struct {
	Object Hittable
}

// NewFlipFace wraps object with its front and back faces swapped
func NewFlipFace(object Hittable) *FlipFace {
	return &FlipFace{Object: object}
}

// Hit returns the child's hit with FrontFace inverted
func (f *FlipFace) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	hit, ok := f.Object.Hit(ray, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}
	hit.FrontFace = !hit.FrontFace
	return hit, true
}

// BoundingBox returns the child's box
func (f *FlipFace) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return f.Object.BoundingBox(time0, time1)
}

// PDFValue forwards to the child
func (f *FlipFace) PDFValue(origin, direction core.Vec3, sampler core.Sampler) float64 {
	return f.Object.PDFValue(origin, direction, sampler)
}

// Random forwards to the child
func (f *FlipFace) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return f.Object.Random(origin, sampler)
}
