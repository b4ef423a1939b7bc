package renderer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BandTask represents one horizontal strip of the image
type BandTask struct {
	Index    int // Band number, also offsets the band's seed
	RowBegin int // First image row (0 = top)
	RowEnd   int // One past the last image row
}

// Rows returns the number of image rows in the band
func (t BandTask) Rows() int {
	return t.RowEnd - t.RowBegin
}

// BandResult contains the rendered pixels of a band
type BandResult struct {
	Task   BandTask
	Pixels []uint8 // Row-major RGB for the band's rows only
}

// NewBandTasks splits height rows into n contiguous bands.
// Band i covers rows [height*i/n, height*(i+1)/n).
func NewBandTasks(height, n int) []BandTask {
	tasks := make([]BandTask, n)
	for i := range tasks {
		tasks[i] = BandTask{
			Index:    i,
			RowBegin: height * i / n,
			RowEnd:   height * (i + 1) / n,
		}
	}
	return tasks
}

// WorkerPool runs band tasks on a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every task and delivers each result on the returned channel,
// which is closed once all tasks have finished. The error channel then yields
// the first error, or nil. Cancelling ctx stops tasks that have not started.
func (wp *WorkerPool) Run(ctx context.Context, tasks []BandTask, render func(BandTask) BandResult) (<-chan BandResult, <-chan error) {
	results := make(chan BandResult, len(tasks))
	errc := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	go func() {
		defer close(errc)
		for _, task := range tasks {
			task := task
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results <- render(task)
				return nil
			})
		}
		err := g.Wait()
		close(results)
		errc <- err
	}()

	return results, errc
}
