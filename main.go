package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/config"
	"github.com/df07/go-direct-raytracer/pkg/loaders"
	"github.com/df07/go-direct-raytracer/pkg/output"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], cfg, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the command line settings, defaulted from the environment config
type options struct {
	cfg     config.Config
	help    bool
	list    bool
	compare string
	upload  bool
}

func parseOptions(args []string, cfg config.Config) (options, error) {
	opts := options{cfg: cfg}
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)

	fs.StringVar(&opts.cfg.Scene, "scene", cfg.Scene, "Scene: a built-in ID, file:<name> from the scenes directory, or a path to a .json file")
	fs.StringVar(&opts.cfg.SceneDir, "scenes-dir", cfg.SceneDir, "Directory containing JSON scene files")
	fs.IntVar(&opts.cfg.Image.Width, "width", cfg.Image.Width, "Image width in pixels (0 uses the scene's)")
	fs.IntVar(&opts.cfg.Image.Height, "height", cfg.Image.Height, "Image height in pixels (0 uses the scene's)")
	fs.Float64Var(&opts.cfg.Image.FOV, "fov", cfg.Image.FOV, "Horizontal field of view in degrees (0 uses the scene's)")
	fs.Float64Var(&opts.cfg.Image.SurfaceNudge, "nudge", cfg.Image.SurfaceNudge, "Surface nudge fraction (0 uses the scene's)")
	fs.IntVar(&opts.cfg.Workers, "workers", cfg.Workers, "Number of parallel workers (1 renders sequentially, 0 uses all CPUs)")
	fs.IntVar(&opts.cfg.TileSize, "tile-size", cfg.TileSize, "Tile edge length in pixels")
	fs.StringVar(&opts.cfg.Output, "output", cfg.Output, "Output file; the extension picks the format")
	fs.IntVar(&opts.cfg.ThumbnailWidth, "thumbnail", cfg.ThumbnailWidth, "Also write a thumbnail of this width (0 disables)")
	fs.Float64Var(&opts.cfg.Ambient, "ambient", cfg.Ambient, "Ambient factor per light")
	fs.BoolVar(&opts.cfg.Sky, "sky", cfg.Sky, "Use the sky color for rays that hit nothing")
	lightMatch := fs.String("light-match", cfg.LightMatch.String(), "How shadow rays identify their light: identity or color")
	fs.StringVar(&opts.compare, "compare", "", "Reference image to compare the render against")
	fs.BoolVar(&opts.upload, "upload", false, "Upload the render to the configured S3 bucket")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	match, err := renderer.ParseLightMatch(*lightMatch)
	if err != nil {
		return opts, err
	}
	opts.cfg.LightMatch = match

	if opts.help {
		printHelp(fs)
		return opts, flag.ErrHelp
	}
	return opts, nil
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("Direct Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Run with -list to see available scenes.")
	fmt.Println("Output defaults to output/<scene>/render_<timestamp>.png")
}

func run(ctx context.Context, args []string, cfg config.Config, stdout io.Writer) error {
	opts, err := parseOptions(args, cfg)
	if err != nil {
		return err
	}

	if opts.list {
		return listScenes(stdout, opts.cfg.SceneDir)
	}

	fmt.Fprintln(stdout, "Starting Direct Raytracer...")

	sc, err := createScene(opts.cfg.Scene, opts.cfg.SceneDir, opts.cfg.Image)
	if err != nil {
		return err
	}

	raytracer, err := renderer.NewRaytracer(sc, opts.cfg.RenderConfig(), renderer.NewDefaultLogger())
	if err != nil {
		return err
	}

	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	fmt.Fprintf(stdout, "Average luminance: %.4f\n", renderer.CalculateAverageLuminance(img))

	filename := opts.cfg.Output
	if filename == "" {
		filename = defaultOutputPath(opts.cfg.Scene, time.Now())
	}
	if err := output.Save(img, filename); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render saved as %s\n", filename)

	if opts.cfg.ThumbnailWidth > 0 {
		thumbName := output.ThumbnailPath(filename)
		if err := output.Save(output.Thumbnail(img, uint(opts.cfg.ThumbnailWidth)), thumbName); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Thumbnail saved as %s\n", thumbName)
	}

	if opts.compare != "" {
		reference, err := loaders.LoadImage(opts.compare)
		if err != nil {
			return err
		}
		diff, err := loaders.MeanDifference(loaders.FromImage(img), reference)
		if err != nil {
			return fmt.Errorf("compare with %s: %w", opts.compare, err)
		}
		fmt.Fprintf(stdout, "Mean difference from %s: %.6f\n", opts.compare, diff)
	}

	if opts.upload {
		uploader, err := output.NewS3Uploader(opts.cfg.S3)
		if err != nil {
			return err
		}
		data, err := output.EncodePNG(img)
		if err != nil {
			return err
		}
		key := output.SceneSlug(opts.cfg.Scene) + "/" + filepath.Base(filename)
		if err := uploader.Upload(ctx, key, data); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Uploaded %s to bucket %s\n", key, opts.cfg.S3.Bucket)
	}

	fmt.Fprintf(stdout, "Pixels hit: %d of %d, shadow rays: %d (lit %d, occluded %d, escaped %d)\n",
		stats.HitPixels, stats.TotalPixels, stats.ShadowRays,
		stats.LitSamples, stats.OccludedSamples, stats.EscapedSamples)
	return nil
}

// createScene resolves a scene name to a scene with the given setting overrides
func createScene(name, sceneDir string, overrides scene.Settings) (*scene.Scene, error) {
	return loaders.LoadNamedScene(name, sceneDir, overrides)
}

func listScenes(w io.Writer, sceneDir string) error {
	scenes, err := scene.ListAllScenes(sceneDir)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scenes {
		fmt.Fprintf(w, "  %-20s %s", info.ID, info.Name)
		if info.Description != "" {
			fmt.Fprintf(w, " - %s", info.Description)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneName string, now time.Time) string {
	return filepath.Join("output", filepath.FromSlash(output.RenderKey(sceneName, now)))
}
