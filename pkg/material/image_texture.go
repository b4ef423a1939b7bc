package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Value samples the texture at given UV coordinates using nearest-neighbor filtering.
// UV outside [0,1] is clamped to the image edge.
func (t *ImageTexture) Value(u, v float64, p core.Vec3) core.Vec3 {
	// No image data: solid cyan makes the problem visible in renders
	if t.Width == 0 || t.Height == 0 || len(t.Pixels) == 0 {
		return core.NewVec3(0, 1, 1)
	}

	u = clamp(u, 0, 1)
	// V=0 is bottom, V=1 is top (flip V for image coordinates where origin is top-left)
	v = 1.0 - clamp(v, 0, 1)

	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))

	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}

	return t.Pixels[y*t.Width+x]
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
