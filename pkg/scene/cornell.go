package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Cornell box dimensions (standard 555x555x555 units)
const boxSize = 555.0

// cornellCamera looks into the open front of the box
func cornellCamera(s *Scene) {
	s.CameraConfig.LookFrom = core.NewVec3(278, 278, -800)
	s.CameraConfig.LookAt = core.NewVec3(278, 278, 0)
	s.CameraConfig.VFov = 40
	s.CameraConfig.AspectRatio = 1.0
	s.RenderConfig.Width = 600
}

// addCornellWalls adds the green, red and white walls, leaving the front open
func addCornellWalls(s *Scene, white material.Material) {
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	s.Add(
		geometry.NewYZRect(0, boxSize, 0, boxSize, boxSize, green), // left wall
		geometry.NewYZRect(0, boxSize, 0, boxSize, 0, red),         // right wall
		geometry.NewXZRect(0, boxSize, 0, boxSize, 0, white),       // floor
		geometry.NewXZRect(0, boxSize, 0, boxSize, boxSize, white), // ceiling
		geometry.NewXYRect(0, boxSize, 0, boxSize, boxSize, white), // back wall
	)
}

// ceilingLight returns a rectangle just below the ceiling, facing down into the box
func ceilingLight(x0, x1, z0, z1 float64, emission core.Vec3) (visible, sampled geometry.Hittable) {
	rect := geometry.NewXZRect(x0, x1, z0, z1, boxSize-1, material.NewDiffuseLight(emission))
	return geometry.NewFlipFace(rect), rect
}

// NewCornellBoxScene creates the classic Cornell box with a tall rotated block and a glass sphere.
// The light and the sphere are both sampled directly.
func NewCornellBoxScene(opts Options, sampler core.Sampler) (*Scene, error) {
	s := newScene("cornell-box")
	cornellCamera(s)
	s.RenderConfig.SamplesPerPixel = 1000

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	addCornellWalls(s, white)

	light, lightTarget := ceilingLight(213, 343, 227, 332, core.NewVec3(15, 15, 15))
	s.Add(light)

	var block geometry.Hittable = geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 330, 165), white)
	block = geometry.NewRotateY(block, 15)
	block = geometry.NewTranslate(block, core.NewVec3(265, 0, 295))
	s.Add(block)

	glass := geometry.NewSphere(core.NewVec3(190, 90, 190), 90, material.NewDielectric(1.5))
	s.Add(glass)

	s.AddLight(lightTarget, glass)
	return s, nil
}

// NewCornellSmokeScene creates the Cornell box with its two blocks replaced by black and white smoke
func NewCornellSmokeScene(opts Options, sampler core.Sampler) (*Scene, error) {
	s := newScene("cornell-smoke")
	cornellCamera(s)
	s.RenderConfig.SamplesPerPixel = 200

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	addCornellWalls(s, white)

	light, _ := ceilingLight(113, 443, 127, 432, core.NewVec3(7, 7, 7))
	s.Add(light)

	var tall geometry.Hittable = geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 330, 165), white)
	tall = geometry.NewTranslate(geometry.NewRotateY(tall, 15), core.NewVec3(265, 0, 295))

	var short geometry.Hittable = geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 165, 165), white)
	short = geometry.NewTranslate(geometry.NewRotateY(short, -18), core.NewVec3(130, 0, 65))

	s.Add(
		geometry.NewConstantMediumColor(tall, 0.01, core.NewVec3(0, 0, 0)),
		geometry.NewConstantMediumColor(short, 0.01, core.NewVec3(1, 1, 1)),
	)
	return s, nil
}
