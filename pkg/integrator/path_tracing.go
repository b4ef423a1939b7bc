package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// hitEpsilon keeps secondary rays from re-hitting the surface they left
const hitEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with
// light importance sampling mixed into every diffuse bounce
type PathTracingIntegrator struct {
	World      geometry.Hittable
	Lights     geometry.Hittable // nil when the scene has nothing to sample directly
	Background core.Vec3
}

// NewPathTracingIntegrator creates a path tracer over world. An empty light list is treated as no lights.
func NewPathTracingIntegrator(world, lights geometry.Hittable, background core.Vec3) *PathTracingIntegrator {
	if list, ok := lights.(*geometry.HittableList); ok && list.Len() == 0 {
		lights = nil
	}
	return &PathTracingIntegrator{
		World:      world,
		Lights:     lights,
		Background: background,
	}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := pt.World.Hit(ray, hitEpsilon, math.Inf(1), sampler)
	if !isHit {
		return pt.Background
	}

	emitted := hit.Material.Emitted(ray, hit, hit.U, hit.V, hit.Point)

	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		return emitted
	}

	if scatter.IsSpecular {
		return pt.specularColor(scatter, depth, sampler)
	}
	return emitted.Add(pt.diffuseColor(ray, hit, scatter, depth, sampler))
}

// specularColor follows the single reflected or refracted ray.
// Emission at the specular surface itself is not added.
func (pt *PathTracingIntegrator) specularColor(scatter material.ScatterRecord, depth int, sampler core.Sampler) core.Vec3 {
	return scatter.Attenuation.MultiplyVec(pt.RayColor(scatter.SpecularRay, depth-1, sampler))
}

// diffuseColor samples a new direction from the mixture of the light and material densities
// and weights the incoming light by the ratio of scattering density to sampling density
func (pt *PathTracingIntegrator) diffuseColor(ray core.Ray, hit *material.HitRecord, scatter material.ScatterRecord, depth int, sampler core.Sampler) core.Vec3 {
	sampling := pt.samplingPDF(hit, scatter, sampler)

	scattered := core.NewRayAtTime(hit.Point, sampling.Generate(sampler), ray.Time)
	pdfValue := sampling.Value(scattered.Direction)
	scatteringPDF := hit.Material.ScatteringPDF(ray, hit, scattered)

	incoming := pt.RayColor(scattered, depth-1, sampler)
	return scatter.Attenuation.MultiplyVec(incoming).Multiply(scatteringPDF / pdfValue)
}

// samplingPDF mixes light sampling into the material density when the scene has lights
func (pt *PathTracingIntegrator) samplingPDF(hit *material.HitRecord, scatter material.ScatterRecord, sampler core.Sampler) pdf.PDF {
	if pt.Lights == nil {
		return scatter.PDF
	}
	lightPDF := pdf.NewHittablePDF(pt.Lights, hit.Point, sampler)
	return pdf.NewMixturePDF(lightPDF, scatter.PDF)
}
