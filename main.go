package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/preview"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/web/server"
)

// renderOptions holds the flags of the render command
type renderOptions struct {
	Scene    string
	Out      string
	AssetDir string
	Preview  bool
	Seed     int64
	Config   renderer.Config // Non-zero fields override the scene's recommended config
}

func defaultRenderOptions() renderOptions {
	defaults := scene.DefaultOptions()
	return renderOptions{
		Scene:    "cornell-box",
		AssetDir: defaults.AssetDir,
		Seed:     defaults.Seed,
	}
}

// bindRenderFlags registers the render flags on fs
func bindRenderFlags(fs *pflag.FlagSet, opts *renderOptions) {
	fs.StringVarP(&opts.Scene, "scene", "s", opts.Scene, "Scene to render (see 'scenes')")
	fs.StringVarP(&opts.Out, "out", "o", opts.Out, "Output PNG file (default output/<scene>/render_<timestamp>.png)")
	fs.StringVar(&opts.AssetDir, "assets", opts.AssetDir, "Directory holding image textures")
	fs.BoolVarP(&opts.Preview, "preview", "p", opts.Preview, "Show the finished image in the terminal")
	fs.Int64Var(&opts.Seed, "seed", opts.Seed, "Seed for scene layout and sampling")
	fs.IntVarP(&opts.Config.Width, "width", "w", 0, "Image width in pixels (0 uses the scene default)")
	fs.IntVar(&opts.Config.SamplesPerPixel, "spp", 0, "Samples per pixel (0 uses the scene default)")
	fs.IntVarP(&opts.Config.MaxDepth, "depth", "d", 0, "Maximum bounces per path (0 uses the scene default)")
	fs.IntVar(&opts.Config.NumWorkers, "workers", 0, "Concurrent band workers (0 uses all CPUs)")
	fs.IntVar(&opts.Config.NumBands, "bands", 0, "Number of horizontal bands (0 uses the scene default)")
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pathtracer",
		Short:        "Monte Carlo path tracer",
		Long:         "Renders the built-in scenes with a multithreaded Monte Carlo path tracer.",
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd(), newScenesCmd(), newServeCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	opts := defaultRenderOptions()
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to a PNG file",
		Example: `  pathtracer render --scene cornell-box --spp 200
  pathtracer render -s final-scene -w 800 -o final.png --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := renderer.NewDefaultLogger()
			buffer, err := runRender(cmd.Context(), opts, logger)
			if err != nil {
				return err
			}
			if opts.Preview {
				return preview.Show(cmd.Context(), buffer)
			}
			return nil
		},
	}
	bindRenderFlags(cmd.Flags(), &opts)
	return cmd
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the available scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listScenes(cmd.OutOrStdout())
		},
	}
}

func newServeCmd() *cobra.Command {
	var port int
	opts := scene.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP render service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			webServer := server.NewServer(port, opts)
			return webServer.Start(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to serve on")
	cmd.Flags().StringVar(&opts.AssetDir, "assets", opts.AssetDir, "Directory holding image textures")
	return cmd
}

// runRender loads the scene, renders it and writes the PNG
func runRender(ctx context.Context, opts renderOptions, logger core.Logger) (*renderer.PixelBuffer, error) {
	sceneOpts := scene.Options{Seed: opts.Seed, AssetDir: opts.AssetDir}

	logger.Printf("Loading scene %s...\n", opts.Scene)
	selectedScene, err := scene.Load(opts.Scene, sceneOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	logger.Printf("Scene has %d top-level objects\n", selectedScene.GetPrimitiveCount())

	override := opts.Config
	override.Seed = opts.Seed
	raytracer, err := selectedScene.NewRaytracer(override, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create raytracer: %w", err)
	}

	buffer, stats, err := raytracer.Render(ctx, nil)
	if err != nil {
		return nil, err
	}
	logger.Printf("%d samples at %.0f samples/sec\n", stats.TotalSamples, stats.SamplesPerSecond())
	logger.Printf("Average luminance: %.4f\n", buffer.AverageLuminance())

	filename := opts.Out
	if filename == "" {
		filename = defaultOutputPath(opts.Scene, time.Now())
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := loaders.SavePNG(filename, buffer.Image()); err != nil {
		return nil, err
	}
	logger.Printf("Render saved as %s\n", filename)

	return buffer, nil
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneName string, now time.Time) string {
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func listScenes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range scene.List() {
		fmt.Fprintf(tw, "%s\t%s\n", info.ID, info.Description)
	}
	return tw.Flush()
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithNotifySignal(os.Interrupt)); err != nil {
		os.Exit(1)
	}
}
