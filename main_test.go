package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestBindRenderFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, opts renderOptions)
	}{
		{
			name: "defaults",
			args: nil,
			validate: func(t *testing.T, opts renderOptions) {
				if opts.Scene != "cornell-box" || opts.Seed != 42 || opts.AssetDir != "assets" {
					t.Errorf("Unexpected defaults: %+v", opts)
				}
				if opts.Config.Width != 0 || opts.Config.SamplesPerPixel != 0 {
					t.Errorf("Config overrides should default to zero, got %+v", opts.Config)
				}
			},
		},
		{
			name: "long flags",
			args: []string{"--scene", "earth", "--width", "800", "--spp", "16", "--depth", "8", "--workers", "3", "--bands", "64", "--seed", "7", "--out", "x.png", "--preview"},
			validate: func(t *testing.T, opts renderOptions) {
				if opts.Scene != "earth" || opts.Out != "x.png" || opts.Seed != 7 || !opts.Preview {
					t.Errorf("Unexpected options: %+v", opts)
				}
				c := opts.Config
				if c.Width != 800 || c.SamplesPerPixel != 16 || c.MaxDepth != 8 || c.NumWorkers != 3 || c.NumBands != 64 {
					t.Errorf("Unexpected config: %+v", c)
				}
			},
		},
		{
			name: "short flags",
			args: []string{"-s", "final-scene", "-w", "320", "-d", "5", "-o", "out.png"},
			validate: func(t *testing.T, opts renderOptions) {
				if opts.Scene != "final-scene" || opts.Config.Width != 320 || opts.Config.MaxDepth != 5 || opts.Out != "out.png" {
					t.Errorf("Unexpected options: %+v", opts)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultRenderOptions()
			fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
			bindRenderFlags(fs, &opts)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			tt.validate(t, opts)
		})
	}
}

func TestListScenes(t *testing.T) {
	var out bytes.Buffer
	if err := listScenes(&out); err != nil {
		t.Fatalf("listScenes failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	names := scene.Names()
	if len(lines) != len(names) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(names), len(lines), out.String())
	}
	for i, name := range names {
		if !strings.HasPrefix(lines[i], name) {
			t.Errorf("Line %d should start with %q, got %q", i, name, lines[i])
		}
	}
}

func TestRootCommand_Scenes(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"scenes"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("scenes command failed: %v", err)
	}
	if !strings.Contains(out.String(), "cornell-smoke") {
		t.Errorf("Expected scene listing, got:\n%s", out.String())
	}
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"render", "extra"})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected an error for unexpected positional arguments")
	}
}

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	got := defaultOutputPath("earth", now)
	expected := filepath.Join("output", "earth", "render_20240309_140507.png")
	if got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}

func TestRunRender(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "two.png")
	opts := defaultRenderOptions()
	opts.Scene = "two-spheres"
	opts.Out = out
	opts.Config.Width = 32
	opts.Config.SamplesPerPixel = 2
	opts.Config.MaxDepth = 4

	buffer, err := runRender(context.Background(), opts, core.NopLogger{})
	if err != nil {
		t.Fatalf("runRender failed: %v", err)
	}
	if buffer.Width != 32 || buffer.Height != 18 {
		t.Errorf("Expected 32x18 image, got %dx%d", buffer.Width, buffer.Height)
	}

	img, err := loaders.LoadImage(out)
	if err != nil {
		t.Fatalf("Saved image could not be loaded: %v", err)
	}
	if img.Width != 32 || img.Height != 18 {
		t.Errorf("Saved image is %dx%d", img.Width, img.Height)
	}
}

func TestRunRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(opts *renderOptions)
		target error
	}{
		{"unknown scene", func(o *renderOptions) { o.Scene = "nonexistent" }, scene.ErrUnknownScene},
		{"empty scene name", func(o *renderOptions) { o.Scene = "" }, scene.ErrUnknownScene},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultRenderOptions()
			opts.Out = filepath.Join(t.TempDir(), "never.png")
			tt.modify(&opts)

			buffer, err := runRender(context.Background(), opts, core.NopLogger{})
			if !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
			if buffer != nil {
				t.Error("Expected no buffer on error")
			}
		})
	}

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		opts := defaultRenderOptions()
		opts.Scene = "two-spheres"
		opts.Out = filepath.Join(t.TempDir(), "never.png")
		opts.Config.Width = 16

		if _, err := runRender(ctx, opts, core.NopLogger{}); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}
