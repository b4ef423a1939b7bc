package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Material interface for objects that can scatter or emit light
type Material interface {
	// Scatter decides how an incoming ray leaves the surface. Returns false when the ray is absorbed.
	Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterRecord, bool)

	// ScatteringPDF returns the density of scattering rayIn into scattered
	ScatteringPDF(rayIn core.Ray, hit *HitRecord, scattered core.Ray) float64

	// Emitted returns the light emitted at the hit point
	Emitted(rayIn core.Ray, hit *HitRecord, u, v float64, p core.Vec3) core.Vec3
}

// ScatterRecord contains the result of material scattering
type ScatterRecord struct {
	Attenuation core.Vec3 // Color attenuation
	SpecularRay core.Ray  // Outgoing ray when IsSpecular
	IsSpecular  bool      // Delta scattering: follow SpecularRay, ignore PDF
	PDF         pdf.PDF   // Sampling density, only set when not specular
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	U, V      float64   // Surface coordinates for texturing
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// nonEmitter provides the zero emission shared by every non-light material
type nonEmitter struct{}

func (nonEmitter) Emitted(rayIn core.Ray, hit *HitRecord, u, v float64, p core.Vec3) core.Vec3 {
	return core.Vec3{}
}
