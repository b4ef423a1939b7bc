package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const defaultScene = "cornell-box"

// RenderRequest represents a render request from the client.
// Zero numeric fields keep the scene's recommended values.
type RenderRequest struct {
	Scene           string `json:"scene"`
	Width           int    `json:"width"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
	MaxDepth        int    `json:"maxDepth"`
	Seed            int64  `json:"seed"`
}

// BandUpdate is sent after each band of the image finishes
type BandUpdate struct {
	Band      int   `json:"band"`
	RowBegin  int   `json:"rowBegin"`
	RowEnd    int   `json:"rowEnd"`
	Completed int   `json:"completed"`
	Total     int   `json:"total"`
	ElapsedMs int64 `json:"elapsedMs"`
	ETAMs     int64 `json:"etaMs"`
}

// ImageUpdate carries the finished frame
type ImageUpdate struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	ImageData        string  `json:"imageData"` // Base64 encoded PNG
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	TotalSamples     int     `json:"totalSamples"`
	ElapsedMs        int64   `json:"elapsedMs"`
	AverageLuminance float64 `json:"averageLuminance"`
	PrimitiveCount   int     `json:"primitiveCount"`
}

// SSEEvent is a single server-sent event
type SSEEvent struct {
	Type string `json:"type"` // "console", "band", "image", "error", "complete"
	Data string `json:"data"`
}

// handleRender renders a scene and streams band progress, console output and
// the final image via SSE. The handler goroutine is the only writer.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeSSEEvent(w, flusher, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	consoleChan, webLogger := setupConsoleLogging()
	events := make(chan SSEEvent, 100)
	go func() {
		defer close(events)
		s.renderScene(ctx, req, webLogger, events)
	}()

	s.writeSSEEvents(ctx, w, flusher, events, consoleChan)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// writeSSEEvents writes render events and console messages until the render
// finishes or the client disconnects
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, events <-chan SSEEvent, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				// Render finished: flush the console lines it left behind
				for {
					select {
					case msg := <-consoleChan:
						if !writeConsoleMessage(w, flusher, msg) {
							return
						}
					default:
						return
					}
				}
			}
			if !writeSSEEvent(w, flusher, event) {
				return
			}

		case msg := <-consoleChan:
			if !writeConsoleMessage(w, flusher, msg) {
				return
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

func writeConsoleMessage(w http.ResponseWriter, flusher http.Flusher, msg ConsoleMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling console message: %v", err)
		return true
	}
	return writeSSEEvent(w, flusher, SSEEvent{Type: "console", Data: string(data)})
}

// writeSSEEvent writes one event and reports whether the client is still there
func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event SSEEvent) bool {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}

// renderScene runs the render and sends its events. It never blocks once ctx is done.
func (s *Server) renderScene(ctx context.Context, req *RenderRequest, logger core.Logger, events chan<- SSEEvent) {
	send := func(eventType string, v interface{}) {
		data, err := json.Marshal(v)
		if err != nil {
			log.Printf("Error marshaling %s event: %v", eventType, err)
			return
		}
		select {
		case events <- SSEEvent{Type: eventType, Data: string(data)}:
		case <-ctx.Done():
		}
	}
	fail := func(message string) {
		select {
		case events <- SSEEvent{Type: "error", Data: message}:
		case <-ctx.Done():
		}
	}

	opts := s.options
	opts.Seed = req.Seed
	sceneObj, err := scene.Load(req.Scene, opts)
	if err != nil {
		fail(fmt.Sprintf("Failed to load scene: %v", err))
		return
	}

	override := renderer.Config{
		Width:           req.Width,
		SamplesPerPixel: req.SamplesPerPixel,
		MaxDepth:        req.MaxDepth,
		Seed:            req.Seed,
	}
	raytracer, err := sceneObj.NewRaytracer(override, logger)
	if err != nil {
		fail(fmt.Sprintf("Failed to create raytracer: %v", err))
		return
	}

	buffer, stats, err := raytracer.Render(ctx, func(update renderer.ProgressUpdate) {
		send("band", BandUpdate{
			Band:      update.Band.Index,
			RowBegin:  update.Band.RowBegin,
			RowEnd:    update.Band.RowEnd,
			Completed: update.Completed,
			Total:     update.Total,
			ElapsedMs: update.Elapsed.Milliseconds(),
			ETAMs:     update.ETA.Milliseconds(),
		})
	})
	if err != nil {
		fail(fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	imageData, err := imageToBase64PNG(buffer)
	if err != nil {
		fail(fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	send("image", ImageUpdate{
		Width:            buffer.Width,
		Height:           buffer.Height,
		ImageData:        imageData,
		SamplesPerPixel:  stats.SamplesPerPixel,
		TotalSamples:     stats.TotalSamples,
		ElapsedMs:        stats.Duration.Milliseconds(),
		AverageLuminance: buffer.AverageLuminance(),
		PrimitiveCount:   sceneObj.GetPrimitiveCount(),
	})

	select {
	case events <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = defaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", 0, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.Seed, err = parseInt64Param(query, "seed", s.options.Seed); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width > 800 && req.SamplesPerPixel > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// imageToBase64PNG converts a pixel buffer to base64-encoded PNG
func imageToBase64PNG(buffer *renderer.PixelBuffer) (string, error) {
	var buf bytes.Buffer
	if err := loaders.EncodePNG(&buf, buffer.Image()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
