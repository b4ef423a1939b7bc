package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PixelBuffer holds the final 8-bit RGB image, row-major with row 0 at the top
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer creates a black buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// At returns the RGB values of pixel (x, y)
func (pb *PixelBuffer) At(x, y int) (r, g, b uint8) {
	i := (y*pb.Width + x) * 3
	return pb.Pix[i], pb.Pix[i+1], pb.Pix[i+2]
}

// SetBand copies a band's rows into the buffer at the band's row offset
func (pb *PixelBuffer) SetBand(result BandResult) {
	copy(pb.Pix[result.Task.RowBegin*pb.Width*3:], result.Pixels)
}

// Image converts the buffer to an opaque RGBA image
func (pb *PixelBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, pb.Width, pb.Height))
	for y := 0; y < pb.Height; y++ {
		for x := 0; x < pb.Width; x++ {
			r, g, b := pb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// AverageLuminance returns the mean Rec. 709 luminance of the buffer in [0,1]
func (pb *PixelBuffer) AverageLuminance() float64 {
	if pb.Width == 0 || pb.Height == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(pb.Pix); i += 3 {
		total += 0.2126*float64(pb.Pix[i]) + 0.7152*float64(pb.Pix[i+1]) + 0.0722*float64(pb.Pix[i+2])
	}
	return total / 255 / float64(pb.Width*pb.Height)
}

// vec3ToRGB converts an accumulated color to 8-bit RGB: average over the samples,
// drop non-finite components, apply gamma 2 and scale into [0, 255]
func vec3ToRGB(sum core.Vec3, samples int) (r, g, b uint8) {
	scale := 1.0 / float64(samples)
	return toByte(sum.X, scale), toByte(sum.Y, scale), toByte(sum.Z, scale)
}

func toByte(sum, scale float64) uint8 {
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		sum = 0
	}
	c := math.Sqrt(scale * sum)
	if !(c > 0) {
		c = 0
	}
	if c > 0.999 {
		c = 0.999
	}
	return uint8(256 * c)
}
