package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func testServer(t *testing.T) *Server {
	opts := scene.DefaultOptions()
	opts.AssetDir = t.TempDir()
	return NewServer(0, opts)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// parseSSE splits a recorded event stream into events
func parseSSE(t *testing.T, body string) []SSEEvent {
	t.Helper()
	var events []SSEEvent
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		var event SSEEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				event.Type = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				event.Data = strings.TrimPrefix(line, "data: ")
			}
		}
		if event.Type == "" {
			t.Fatalf("Malformed event block %q", block)
		}
		events = append(events, event)
	}
	return events
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, testServer(t), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Errorf("Unexpected body %q (%v)", rec.Body.String(), err)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, testServer(t), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var infos []scene.SceneInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	names := scene.Names()
	if len(infos) != len(names) {
		t.Fatalf("Expected %d scenes, got %d", len(names), len(infos))
	}
	for i, info := range infos {
		if info.ID != names[i] || info.DisplayName == "" {
			t.Errorf("Scene %d: unexpected entry %+v", i, info)
		}
	}
}

func TestHandleSceneConfig(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedWidth  float64
	}{
		{"default scene", "/api/scene-config", http.StatusOK, 600},
		{"outdoor scene", "/api/scene-config?scene=two-spheres", http.StatusOK, 400},
		{"unknown scene", "/api/scene-config?scene=nonexistent", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, testServer(t), tt.target)
			if rec.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var body struct {
				Defaults map[string]float64 `json:"defaults"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if body.Defaults["width"] != tt.expectedWidth {
				t.Errorf("Expected width %v, got %v", tt.expectedWidth, body.Defaults["width"])
			}
			if body.Defaults["samplesPerPixel"] <= 0 || body.Defaults["maxDepth"] <= 0 {
				t.Errorf("Expected positive sampling defaults, got %v", body.Defaults)
			}
		})
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"width too small", "/api/render?width=5"},
		{"width not a number", "/api/render?width=abc"},
		{"zero samples", "/api/render?spp=0"},
		{"bad seed", "/api/render?seed=1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := parseSSE(t, get(t, testServer(t), tt.target).Body.String())
			if len(events) != 1 || events[0].Type != "error" {
				t.Fatalf("Expected a single error event, got %+v", events)
			}
			if !strings.HasPrefix(events[0].Data, "Invalid request") {
				t.Errorf("Unexpected error message %q", events[0].Data)
			}
		})
	}
}

func TestHandleRender_UnknownScene(t *testing.T) {
	events := parseSSE(t, get(t, testServer(t), "/api/render?scene=nonexistent").Body.String())
	last := events[len(events)-1]
	if last.Type != "error" || !strings.Contains(last.Data, "unknown scene") {
		t.Errorf("Expected unknown scene error, got %+v", last)
	}
}

func TestHandleRender_StreamsBandsAndImage(t *testing.T) {
	rec := get(t, testServer(t), "/api/render?scene=two-spheres&width=32&spp=1&depth=3")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	events := parseSSE(t, rec.Body.String())
	counts := map[string]int{}
	var image ImageUpdate
	lastBand := BandUpdate{}
	for _, event := range events {
		counts[event.Type]++
		switch event.Type {
		case "band":
			if err := json.Unmarshal([]byte(event.Data), &lastBand); err != nil {
				t.Fatalf("Invalid band event: %v", err)
			}
		case "image":
			if err := json.Unmarshal([]byte(event.Data), &image); err != nil {
				t.Fatalf("Invalid image event: %v", err)
			}
		case "error":
			t.Fatalf("Unexpected error event: %s", event.Data)
		}
	}

	if counts["band"] != 32 {
		t.Errorf("Expected 32 band events, got %d", counts["band"])
	}
	if lastBand.Completed != lastBand.Total || lastBand.Total != 32 {
		t.Errorf("Last band update should report completion, got %+v", lastBand)
	}
	if counts["console"] == 0 {
		t.Error("Expected console events from the render log")
	}
	if counts["image"] != 1 || events[len(events)-1].Type != "complete" {
		t.Fatalf("Expected one image event and a final complete event, got %v", counts)
	}

	if image.Width != 32 || image.Height != 18 || image.TotalSamples != 32*18 {
		t.Errorf("Unexpected image update %+v", image)
	}
	raw, err := base64.StdEncoding.DecodeString(image.ImageData)
	if err != nil {
		t.Fatalf("Image data is not base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Image data is not a PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 32 || b.Dy() != 18 {
		t.Errorf("Decoded PNG is %dx%d", b.Dx(), b.Dy())
	}
}

func TestHandleInspect(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
	}{
		{"missing x", "/api/inspect?scene=cornell-box&width=100&y=10", http.StatusBadRequest},
		{"out of bounds", "/api/inspect?scene=cornell-box&width=100&x=100&y=10", http.StatusBadRequest},
		{"width too small", "/api/inspect?scene=cornell-box&width=4&x=1&y=1", http.StatusBadRequest},
		{"unknown scene", "/api/inspect?scene=nonexistent&x=1&y=1", http.StatusBadRequest},
		{"center of cornell box", "/api/inspect?scene=cornell-box&width=100&x=50&y=50", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, testServer(t), tt.target)
			if rec.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var response InspectResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			// Everything inside the closed box hits some surface
			if !response.Hit || response.Distance <= 0 {
				t.Fatalf("Expected a hit, got %+v", response)
			}
			if response.MaterialType == "unknown" || response.GeometryType == "unknown" {
				t.Errorf("Expected known material and geometry, got %s/%s", response.MaterialType, response.GeometryType)
			}
		})
	}
}

func TestExtractInfo(t *testing.T) {
	red := material.NewLambertian(core.NewVec3(1, 0, 0))
	sphere := geometry.NewSphere(core.NewVec3(1, 2, 3), 4, red)

	geometryTests := []struct {
		object   geometry.Hittable
		expected string
	}{
		{sphere, "sphere"},
		{geometry.NewXZRect(0, 1, 0, 1, 2, red), "rect"},
		{geometry.NewBox(core.Vec3{}, core.NewVec3(1, 1, 1), red), "box"},
		{geometry.NewTranslate(sphere, core.NewVec3(1, 0, 0)), "translate"},
		{geometry.NewRotateY(sphere, 15), "rotate_y"},
		{geometry.NewFlipFace(sphere), "flip_face"},
		{geometry.NewConstantMediumColor(sphere, 0.1, core.NewVec3(1, 1, 1)), "constant_medium"},
		{nil, "unknown"},
	}
	for _, tt := range geometryTests {
		if got, _ := extractGeometryInfo(tt.object); got != tt.expected {
			t.Errorf("Expected geometry type %s, got %s", tt.expected, got)
		}
	}

	materialType, props := extractMaterialInfo(red)
	if materialType != "lambertian" {
		t.Errorf("Expected lambertian, got %s", materialType)
	}
	albedo, _ := props["albedo"].(map[string]interface{})
	if albedo["color"] != "#ff0000" {
		t.Errorf("Expected red albedo, got %v", props["albedo"])
	}

	if materialType, _ := extractMaterialInfo(material.NewDielectric(1.5)); materialType != "dielectric" {
		t.Errorf("Expected dielectric, got %s", materialType)
	}
	if materialType, _ := extractMaterialInfo(material.NewDiffuseLight(core.NewVec3(4, 4, 4))); materialType != "diffuse_light" {
		t.Errorf("Expected diffuse_light, got %s", materialType)
	}
}
