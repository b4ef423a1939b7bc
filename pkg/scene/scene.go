package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Objects      *geometry.HittableList // Objects in insertion order
	Lights       *geometry.HittableList // Objects sampled directly; may be empty
	World        geometry.Hittable      // BVH over Objects, set by Build
	CameraConfig renderer.CameraConfig
	RenderConfig renderer.Config // Recommended settings for this scene
	Background   core.Vec3       // Radiance of rays that escape the scene
}

// newScene creates an empty scene with the default configs and a black background
func newScene(name string) *Scene {
	camera := renderer.DefaultCameraConfig()
	camera.FocusDist = 10
	camera.VFov = 40

	return &Scene{
		Name:         name,
		Objects:      geometry.NewHittableList(),
		Lights:       geometry.NewHittableList(),
		CameraConfig: camera,
		RenderConfig: renderer.DefaultConfig(),
	}
}

// Add appends objects to the scene
func (s *Scene) Add(objects ...geometry.Hittable) {
	for _, object := range objects {
		s.Objects.Add(object)
	}
}

// AddLight appends objects to the list sampled directly by the integrator.
// They are not added to the visible objects.
func (s *Scene) AddLight(lights ...geometry.Hittable) {
	for _, light := range lights {
		s.Lights.Add(light)
	}
}

// Build creates the BVH over the scene's objects for the camera's shutter interval
func (s *Scene) Build(sampler core.Sampler) error {
	bvh, err := geometry.NewBVHNode(s.Objects.Objects, s.CameraConfig.Time0, s.CameraConfig.Time1, sampler)
	if err != nil {
		return fmt.Errorf("failed to build scene %q: %w", s.Name, err)
	}
	s.World = bvh
	return nil
}

// Integrator returns a path tracer over the built world
func (s *Scene) Integrator() (*integrator.PathTracingIntegrator, error) {
	if s.World == nil {
		return nil, fmt.Errorf("scene %q has not been built", s.Name)
	}
	return integrator.NewPathTracingIntegrator(s.World, s.Lights, s.Background), nil
}

// NewRaytracer creates a raytracer for the scene, applying non-zero fields of override to its recommended config
func (s *Scene) NewRaytracer(override renderer.Config, logger core.Logger) (*renderer.Raytracer, error) {
	integ, err := s.Integrator()
	if err != nil {
		return nil, err
	}
	return renderer.NewRaytracer(integ, s.CameraConfig, s.RenderConfig.Merge(override), logger)
}

// GetPrimitiveCount returns the number of top-level objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.Objects.Len()
}
