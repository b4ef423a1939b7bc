package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x", toByte(c.X), toByte(c.Y), toByte(c.Z))
}

func toByte(x float64) int {
	return int(255 * math.Max(0, math.Min(1, x)))
}

// extractTextureInfo describes a texture
func extractTextureInfo(tex material.Texture) map[string]interface{} {
	properties := make(map[string]interface{})
	switch t := tex.(type) {
	case *material.SolidColor:
		properties["type"] = "solid"
		properties["value"] = vec(t.Color)
		properties["color"] = hexColor(t.Color)
	case *material.CheckerTexture:
		properties["type"] = "checker"
		properties["even"] = extractTextureInfo(t.Even)
		properties["odd"] = extractTextureInfo(t.Odd)
	case *material.NoiseTexture:
		properties["type"] = "noise"
		properties["scale"] = t.Scale
	case *material.ImageTexture:
		properties["type"] = "image"
		properties["width"] = t.Width
		properties["height"] = t.Height
	default:
		properties["type"] = "unknown"
	}
	return properties
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = extractTextureInfo(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vec(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff"
		return "dielectric", properties

	case *material.DiffuseLight:
		properties["emission"] = extractTextureInfo(m.Emit)
		return "diffuse_light", properties

	case *material.Isotropic:
		properties["albedo"] = extractTextureInfo(m.Albedo)
		return "isotropic", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo describes the top-level object that was hit, unwrapping instances
func extractGeometryInfo(object geometry.Hittable) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch g := object.(type) {
	case *geometry.Sphere:
		properties["center"] = vec(g.Center)
		properties["radius"] = g.Radius
		return "sphere", properties

	case *geometry.MovingSphere:
		properties["center0"] = vec(g.Center0)
		properties["center1"] = vec(g.Center1)
		properties["time0"] = g.Time0
		properties["time1"] = g.Time1
		properties["radius"] = g.Radius
		return "moving_sphere", properties

	case *geometry.AARect:
		properties["plane"] = [...]string{"xy", "xz", "yz"}[g.Plane]
		properties["a"] = [2]float64{g.A0, g.A1}
		properties["b"] = [2]float64{g.B0, g.B1}
		properties["k"] = g.K
		return "rect", properties

	case *geometry.Box:
		properties["min"] = vec(g.Min)
		properties["max"] = vec(g.Max)
		return "box", properties

	case *geometry.ConstantMedium:
		boundaryType, boundaryProps := extractGeometryInfo(g.Boundary)
		properties["boundary"] = map[string]interface{}{"type": boundaryType, "properties": boundaryProps}
		return "constant_medium", properties

	case *geometry.Translate:
		innerType, innerProps := extractGeometryInfo(g.Object)
		properties["offset"] = vec(g.Offset)
		properties["object"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "translate", properties

	case *geometry.RotateY:
		innerType, innerProps := extractGeometryInfo(g.Object)
		properties["object"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "rotate_y", properties

	case *geometry.FlipFace:
		innerType, innerProps := extractGeometryInfo(g.Object)
		properties["object"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "flip_face", properties

	case *geometry.BVHNode:
		properties["depth"] = g.Depth()
		return "bvh", properties

	case *geometry.HittableList:
		properties["count"] = g.Len()
		return "list", properties

	default:
		return "unknown", properties
	}
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Object    geometry.Hittable // Top-level scene object that was hit, nil if unknown
}

// inspectPixel casts a ray through the center of pixel (pixelX, pixelY), counted
// from the top-left, and returns the first object hit. The scene must be built.
func inspectPixel(sceneObj *scene.Scene, width, pixelX, pixelY int) InspectResult {
	// Pinhole at the start of the shutter interval so the ray is repeatable
	cameraConfig := sceneObj.CameraConfig
	cameraConfig.Aperture = 0
	cameraConfig.Time1 = cameraConfig.Time0
	camera := renderer.NewCamera(cameraConfig)
	height := cameraConfig.ImageHeight(width)

	u := (float64(pixelX) + 0.5) / float64(width-1)
	v := (float64(height-1-pixelY) + 0.5) / float64(height-1)
	sampler := core.NewSeededSampler(0)
	ray := camera.GetRay(u, v, sampler)

	hit, isHit := sceneObj.World.Hit(ray, 0.001, math.Inf(1), sampler)
	if !isHit {
		return InspectResult{Hit: false}
	}

	// The BVH only returns the hit record, so find the object with the same hit
	for _, object := range sceneObj.Objects.Objects {
		if objectHit, ok := object.Hit(ray, 0.001, hit.T+0.001, sampler); ok && objectHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Object: object}
		}
	}
	return InspectResult{Hit: true, HitRecord: hit}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = defaultScene
	}
	seed, err := parseInt64Param(query, "seed", s.options.Seed)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	opts := s.options
	opts.Seed = seed
	sceneObj, err := scene.Load(sceneName, opts)
	if err != nil {
		writeJSON(w, sceneErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	width, err := parseIntParam(query, "width", sceneObj.RenderConfig.Width, minWidth, maxWidth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	height := sceneObj.CameraConfig.ImageHeight(width)

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, width, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Object)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec(result.HitRecord.Point),
		Normal:       vec(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
