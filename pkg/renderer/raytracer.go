package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// Raytracer renders a full frame by splitting it into row bands
type Raytracer struct {
	integrator integrator.Integrator
	camera     *Camera
	config     Config
	width      int
	height     int
	logger     core.Logger
}

// NewRaytracer creates a new raytracer. The image height follows from the
// configured width and the camera's aspect ratio.
func NewRaytracer(integ integrator.Integrator, camera CameraConfig, config Config, logger core.Logger) (*Raytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := camera.Validate(); err != nil {
		return nil, err
	}
	height := camera.ImageHeight(config.Width)
	if height < 2 {
		return nil, fmt.Errorf("%w: image height %d must be at least 2", ErrInvalidConfig, height)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &Raytracer{
		integrator: integ,
		camera:     NewCamera(camera),
		config:     config,
		width:      config.Width,
		height:     height,
		logger:     logger,
	}, nil
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// RenderBand traces every sample of every pixel in the band with the band's own sampler
func (rt *Raytracer) RenderBand(task BandTask) BandResult {
	sampler := core.NewSeededSampler(rt.config.Seed + int64(task.Index))
	pixels := make([]uint8, task.Rows()*rt.width*3)

	for y := task.RowBegin; y < task.RowEnd; y++ {
		// Image rows run top-down, the viewport's t axis runs bottom-up
		j := rt.height - 1 - y
		for x := 0; x < rt.width; x++ {
			colorAccum := core.Vec3{}
			for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
				s := (float64(x) + sampler.Get1D()) / float64(rt.width-1)
				t := (float64(j) + sampler.Get1D()) / float64(rt.height-1)

				ray := rt.camera.GetRay(s, t, sampler)
				colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, rt.config.MaxDepth, sampler))
			}

			i := ((y-task.RowBegin)*rt.width + x) * 3
			pixels[i], pixels[i+1], pixels[i+2] = vec3ToRGB(colorAccum, rt.config.SamplesPerPixel)
		}
	}

	return BandResult{Task: task, Pixels: pixels}
}

// Render renders the whole image. onProgress, if not nil, is called on the
// calling goroutine after each band is merged. A cancelled context aborts the
// render before the remaining bands start and no image is returned.
func (rt *Raytracer) Render(ctx context.Context, onProgress func(ProgressUpdate)) (*PixelBuffer, RenderStats, error) {
	start := time.Now()
	tasks := NewBandTasks(rt.height, rt.config.NumBands)
	pool := NewWorkerPool(rt.config.Workers())

	rt.logger.Printf("Rendering %dx%d, %d samples/pixel, depth %d, %d bands on %d workers\n",
		rt.width, rt.height, rt.config.SamplesPerPixel, rt.config.MaxDepth, len(tasks), pool.GetNumWorkers())

	buffer := NewPixelBuffer(rt.width, rt.height)
	progress := NewProgress(len(tasks), rt.logger)

	results, errc := pool.Run(ctx, tasks, rt.RenderBand)
	received := 0
	for result := range results {
		buffer.SetBand(result)
		received++
		update := progress.Complete(result.Task)
		if onProgress != nil {
			onProgress(update)
		}
	}
	if err := <-errc; err != nil {
		return nil, RenderStats{}, fmt.Errorf("render aborted after %d of %d bands: %w", received, len(tasks), err)
	}

	stats := RenderStats{
		TotalPixels:     rt.width * rt.height,
		TotalSamples:    rt.width * rt.height * rt.config.SamplesPerPixel,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Bands:           len(tasks),
		Workers:         pool.GetNumWorkers(),
		Duration:        time.Since(start),
	}
	rt.logger.Printf("Render completed in %v\n", stats.Duration.Round(time.Millisecond))
	return buffer, stats, nil
}
