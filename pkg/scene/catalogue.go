package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrUnknownScene is returned when a scene name is not in the catalogue
var ErrUnknownScene = errors.New("unknown scene")

// Options controls how catalogue scenes are constructed
type Options struct {
	Seed     int64  // Seeds random layouts, Perlin tables and BVH axis choices
	AssetDir string // Directory holding image textures
}

// DefaultOptions returns the seed and asset directory used by the CLI
func DefaultOptions() Options {
	return Options{
		Seed:     42,
		AssetDir: "assets",
	}
}

// SceneInfo describes a catalogue entry
type SceneInfo struct {
	ID          string `json:"id"`          // Name used to load the scene
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
}

type builder func(opts Options, sampler core.Sampler) (*Scene, error)

type entry struct {
	info  SceneInfo
	build builder
}

var catalogue = []entry{
	{SceneInfo{"random-spheres", "Random Spheres", "Checkered ground with hundreds of small moving, metal and glass spheres"}, NewRandomSpheresScene},
	{SceneInfo{"two-spheres", "Two Spheres", "Two checker-textured spheres"}, NewTwoSpheresScene},
	{SceneInfo{"two-perlin-spheres", "Two Perlin Spheres", "Marble Perlin noise on the ground and a sphere"}, NewTwoPerlinSpheresScene},
	{SceneInfo{"earth", "Earth", "Image-textured globe"}, NewEarthScene},
	{SceneInfo{"simple-light", "Simple Light", "Perlin spheres lit by a rectangular area light"}, NewSimpleLightScene},
	{SceneInfo{"cornell-box", "Cornell Box", "Cornell box with a rotated block and a glass sphere"}, NewCornellBoxScene},
	{SceneInfo{"cornell-smoke", "Cornell Smoke", "Cornell box with blocks of black and white smoke"}, NewCornellSmokeScene},
	{SceneInfo{"final-scene", "Final Scene", "Every feature: box field, motion blur, glass, fog, textures and a sphere cluster"}, NewFinalScene},
}

// List returns the catalogue in display order
func List() []SceneInfo {
	infos := make([]SceneInfo, len(catalogue))
	for i, e := range catalogue {
		infos[i] = e.info
	}
	return infos
}

// Names returns the catalogue scene names in display order
func Names() []string {
	names := make([]string, len(catalogue))
	for i, e := range catalogue {
		names[i] = e.info.ID
	}
	return names
}

// New constructs the named scene without building its BVH
func New(name string, opts Options) (*Scene, error) {
	s, _, err := construct(name, opts)
	return s, err
}

// Load constructs the named scene and builds it for rendering
func Load(name string, opts Options) (*Scene, error) {
	s, sampler, err := construct(name, opts)
	if err != nil {
		return nil, err
	}
	if err := s.Build(sampler); err != nil {
		return nil, err
	}
	return s, nil
}

func construct(name string, opts Options) (*Scene, core.Sampler, error) {
	for _, e := range catalogue {
		if e.info.ID != name {
			continue
		}
		sampler := core.NewSeededSampler(opts.Seed)
		s, err := e.build(opts, sampler)
		if err != nil {
			return nil, nil, err
		}
		return s, sampler, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// loadImageTexture loads an image texture from the asset directory
func loadImageTexture(opts Options, filename string) (*material.ImageTexture, error) {
	data, err := loaders.LoadImage(filepath.Join(opts.AssetDir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to load texture: %w", err)
	}
	return material.NewImageTexture(data.Width, data.Height, data.Pixels), nil
}
