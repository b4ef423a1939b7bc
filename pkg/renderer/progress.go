package renderer

import (
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ProgressUpdate describes the state of a render after a band completes
type ProgressUpdate struct {
	Band           BandTask
	Completed      int
	Total          int
	Elapsed        time.Duration
	BandsPerSecond float64       // Spring-smoothed completion rate
	ETA            time.Duration // Estimated time until the last band finishes
}

// Fraction returns the completed share of the render in [0,1]
func (u ProgressUpdate) Fraction() float64 {
	if u.Total == 0 {
		return 1
	}
	return float64(u.Completed) / float64(u.Total)
}

// Progress tracks band completions. The completion rate is smoothed with a
// critically damped spring before estimating the time remaining.
type Progress struct {
	total     int
	completed int
	start     time.Time
	last      time.Time
	rate      float64
	velocity  float64
	logger    core.Logger
	now       func() time.Time
}

const (
	progressFrequency = 4.0
	progressDamping   = 1.0
)

// NewProgress starts tracking a render of total bands
func NewProgress(total int, logger core.Logger) *Progress {
	return newProgressWithClock(total, logger, time.Now)
}

func newProgressWithClock(total int, logger core.Logger, now func() time.Time) *Progress {
	if logger == nil {
		logger = core.NopLogger{}
	}
	start := now()
	return &Progress{
		total:  total,
		start:  start,
		last:   start,
		logger: logger,
		now:    now,
	}
}

// Complete records a finished band and returns the updated progress
func (p *Progress) Complete(band BandTask) ProgressUpdate {
	now := p.now()
	p.completed++

	elapsed := now.Sub(p.start)
	instant := 0.0
	if elapsed > 0 {
		instant = float64(p.completed) / elapsed.Seconds()
	}

	if p.completed == 1 {
		p.rate = instant
	} else if dt := now.Sub(p.last).Seconds(); dt > 0 {
		spring := harmonica.NewSpring(dt, progressFrequency, progressDamping)
		p.rate, p.velocity = spring.Update(p.rate, p.velocity, instant)
	}
	p.last = now

	update := ProgressUpdate{
		Band:           band,
		Completed:      p.completed,
		Total:          p.total,
		Elapsed:        elapsed,
		BandsPerSecond: p.rate,
	}
	if remaining := p.total - p.completed; remaining > 0 && p.rate > 0 {
		update.ETA = time.Duration(float64(remaining) / p.rate * float64(time.Second))
	}

	p.logger.Printf("Band %d/%d done (%.1f bands/s, eta %v)\n",
		update.Completed, update.Total, update.BandsPerSecond, update.ETA.Round(time.Millisecond))
	return update
}
