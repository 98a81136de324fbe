package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-direct-raytracer/pkg/config"
	"github.com/df07/go-direct-raytracer/pkg/output"
	"github.com/df07/go-direct-raytracer/web/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}

	// Parse command line flags
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Port to serve on")
	flag.StringVar(&cfg.SceneDir, "scenes-dir", cfg.SceneDir, "Directory containing JSON scene files")
	flag.Parse()

	var uploader server.Uploader
	if cfg.S3.Enabled() {
		s3Uploader, err := output.NewS3Uploader(cfg.S3)
		if err != nil {
			log.Printf("Error configuring upload: %v", err)
			os.Exit(1)
		}
		uploader = s3Uploader
		log.Printf("Uploading renders to bucket %s", cfg.S3.Bucket)
	}

	webServer := server.NewServer(cfg, uploader)

	log.Printf("Direct Raytracer Web Server")
	log.Printf("Try http://localhost:%d/api/render?scene=default", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
