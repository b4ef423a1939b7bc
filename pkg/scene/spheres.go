package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

var skyBackground = core.NewVec3(0.7, 0.8, 1.0)

// outdoorCamera is the wide shot of the origin shared by the sphere scenes
func outdoorCamera(s *Scene) {
	s.CameraConfig.LookFrom = core.NewVec3(13, 2, 3)
	s.CameraConfig.LookAt = core.NewVec3(0, 0, 0)
	s.CameraConfig.VFov = 20
	s.CameraConfig.AspectRatio = 16.0 / 9.0
	s.Background = skyBackground
}

func groundChecker() *material.CheckerTexture {
	return material.NewCheckerColors(core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9))
}

// NewRandomSpheresScene creates a field of small random spheres around three large ones
func NewRandomSpheresScene(opts Options, sampler core.Sampler) (*Scene, error) {
	s := newScene("random-spheres")
	outdoorCamera(s)
	s.CameraConfig.Aperture = 0.1

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(groundChecker())))

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(b)+0.9*sampler.Get1D())

			// Keep clear of the large metal sphere
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
				center2 := center.Add(core.NewVec3(0, core.RandomRange(sampler, 0, 0.5), 0))
				s.Add(geometry.NewMovingSphere(center, center2, 0, 1, 0.2, material.NewLambertian(albedo)))
			case chooseMat < 0.95:
				albedo := core.RandomVec3(sampler, 0.5, 1)
				fuzz := core.RandomRange(sampler, 0, 0.5)
				s.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				s.Add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)),
	)
	return s, nil
}

// NewTwoSpheresScene creates two large checkered spheres touching at the origin
func NewTwoSpheresScene(opts Options, sampler core.Sampler) (*Scene, error) {
	s := newScene("two-spheres")
	outdoorCamera(s)

	checker := material.NewTexturedLambertian(groundChecker())
	s.Add(
		geometry.NewSphere(core.NewVec3(0, -10, 0), 10, checker),
		geometry.NewSphere(core.NewVec3(0, 10, 0), 10, checker),
	)
	return s, nil
}

// NewTwoPerlinSpheresScene creates a marble sphere resting on a marble ground
func NewTwoPerlinSpheresScene(opts Options, sampler core.Sampler) (*Scene, error) {
	s := newScene("two-perlin-spheres")
	outdoorCamera(s)

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, sampler))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
	)
	return s, nil
}

// NewEarthScene creates a globe textured with earthmap.jpg from the asset directory
func NewEarthScene(opts Options, sampler core.Sampler) (*Scene, error) {
	s := newScene("earth")
	outdoorCamera(s)

	texture, err := loadImageTexture(opts, "earthmap.jpg")
	if err != nil {
		return nil, err
	}
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 2, material.NewTexturedLambertian(texture)))
	return s, nil
}

// NewSimpleLightScene creates the Perlin spheres lit only by a rectangle behind them
func NewSimpleLightScene(opts Options, sampler core.Sampler) (*Scene, error) {
	s := newScene("simple-light")
	s.CameraConfig.LookFrom = core.NewVec3(26, 3, 6)
	s.CameraConfig.LookAt = core.NewVec3(0, 2, 0)
	s.CameraConfig.VFov = 20
	s.CameraConfig.AspectRatio = 16.0 / 9.0
	s.RenderConfig.SamplesPerPixel = 400

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, sampler))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
		geometry.NewXYRect(3, 5, 1, 3, -2, material.NewDiffuseLight(core.NewVec3(4, 4, 4))),
	)
	return s, nil
}
