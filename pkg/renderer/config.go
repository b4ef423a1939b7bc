package renderer

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrInvalidConfig is returned when a render or camera configuration cannot produce an image
var ErrInvalidConfig = errors.New("invalid render config")

// Config contains rendering configuration
type Config struct {
	Width           int   // Image width in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	NumBands        int   // Number of row bands the image is split into
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed; band i samples from Seed+i
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		NumBands:        32,
		NumWorkers:      0, // Auto-detect CPU count
		Seed:            42,
	}
}

// Merge returns c with every non-zero field of override applied
func (c Config) Merge(override Config) Config {
	if override.Width > 0 {
		c.Width = override.Width
	}
	if override.SamplesPerPixel > 0 {
		c.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth > 0 {
		c.MaxDepth = override.MaxDepth
	}
	if override.NumBands > 0 {
		c.NumBands = override.NumBands
	}
	if override.NumWorkers > 0 {
		c.NumWorkers = override.NumWorkers
	}
	if override.Seed != 0 {
		c.Seed = override.Seed
	}
	return c
}

// Workers returns the effective worker count
func (c Config) Workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

// Validate reports the first field that makes the configuration unusable
func (c Config) Validate() error {
	switch {
	case c.Width < 2:
		return fmt.Errorf("%w: width %d must be at least 2", ErrInvalidConfig, c.Width)
	case c.SamplesPerPixel < 1:
		return fmt.Errorf("%w: samples per pixel %d must be positive", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 1:
		return fmt.Errorf("%w: max depth %d must be positive", ErrInvalidConfig, c.MaxDepth)
	case c.NumBands < 1:
		return fmt.Errorf("%w: band count %d must be positive", ErrInvalidConfig, c.NumBands)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: worker count %d must not be negative", ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}

// CameraConfig describes a thin-lens camera
type CameraConfig struct {
	LookFrom    core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is aimed at
	VUp         core.Vec3 // World up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
	Aperture    float64   // Lens diameter (0 = pinhole)
	FocusDist   float64   // Distance to the plane in perfect focus
	Time0       float64   // Shutter open
	Time1       float64   // Shutter close
}

// DefaultCameraConfig returns a 16:9 pinhole camera looking down -Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		VUp:         core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 16.0 / 9.0,
		Aperture:    0,
		FocusDist:   10,
		Time0:       0,
		Time1:       1,
	}
}

// ImageHeight returns the image height for a given width
func (c CameraConfig) ImageHeight(width int) int {
	return int(float64(width) / c.AspectRatio)
}

// Validate checks the camera can form a view basis
func (c CameraConfig) Validate() error {
	switch {
	case c.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect ratio %f must be positive", ErrInvalidConfig, c.AspectRatio)
	case c.VFov <= 0 || c.VFov >= 180:
		return fmt.Errorf("%w: vertical fov %f must be in (0, 180)", ErrInvalidConfig, c.VFov)
	case c.LookFrom == c.LookAt:
		return fmt.Errorf("%w: look-from and look-at coincide", ErrInvalidConfig)
	case c.FocusDist <= 0:
		return fmt.Errorf("%w: focus distance %f must be positive", ErrInvalidConfig, c.FocusDist)
	}
	return nil
}
