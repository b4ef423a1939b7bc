package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Isotropic is the phase function of a participating medium:
// it scatters uniformly in every direction
type Isotropic struct {
	nonEmitter
	Albedo Texture
}

// NewIsotropic creates an isotropic phase function with a solid color
func NewIsotropic(albedo core.Vec3) *Isotropic {
	return &Isotropic{Albedo: NewSolidColor(albedo)}
}

// NewTexturedIsotropic creates an isotropic phase function from a texture
func NewTexturedIsotropic(albedo Texture) *Isotropic {
	return &Isotropic{Albedo: albedo}
}

// Scatter sends the ray off in a random direction from the hit point
func (i *Isotropic) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterRecord, bool) {
	return ScatterRecord{
		Attenuation: i.Albedo.Value(hit.U, hit.V, hit.Point),
		SpecularRay: core.NewRayAtTime(hit.Point, core.RandomInUnitSphere(sampler), rayIn.Time),
		IsSpecular:  true,
	}, true
}

// ScatteringPDF is zero since the scatter is followed as a specular ray
func (i *Isotropic) ScatteringPDF(rayIn core.Ray, hit *HitRecord, scattered core.Ray) float64 {
	return 0
}
