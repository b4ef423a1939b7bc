package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	opts := scene.DefaultOptions()
	port := flag.Int("port", 8080, "Port to serve on")
	flag.StringVar(&opts.AssetDir, "assets", opts.AssetDir, "Directory holding image textures")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	webServer := server.NewServer(*port, opts)

	log.Printf("Path Tracer Web Server")
	log.Printf("Render with http://localhost:%d/api/render?scene=cornell-box", *port)

	if err := webServer.Start(ctx); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
