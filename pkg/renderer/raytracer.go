package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// DefaultTileSize is the edge length of the square tiles handed to workers
const DefaultTileSize = 32

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	NumWorkers int // Parallel workers; 1 renders sequentially, 0 uses the CPU count
	TileSize   int // Edge length of each tile in pixels
	Shading    ShadingConfig
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers: 0, // Auto-detect CPU count
		TileSize:   DefaultTileSize,
		Shading:    DefaultShadingConfig(),
	}
}

// Raytracer renders a scene to an image, one camera ray per pixel
type Raytracer struct {
	scene  Scene
	width  int
	height int
	camera *Camera
	shader *Shader
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards output.
func NewRaytracer(scene Scene, config RenderConfig, logger core.Logger) (*Raytracer, error) {
	width, height := scene.Dimensions()
	camera, err := NewCamera(width, height, scene.FieldOfView())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = discardLogger{}
	}

	return &Raytracer{
		scene:  scene,
		width:  width,
		height: height,
		camera: camera,
		shader: NewShader(scene, config.Shading),
		config: config,
		logger: logger,
	}, nil
}

// Camera returns the camera used for primary rays
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Render renders the full image. Any intersection fault aborts the render and
// no image is returned. ctx is checked between tiles, never inside a pixel.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	startTime := time.Now()

	var stats RenderStats
	var err error
	if rt.config.NumWorkers == 1 {
		rt.logger.Printf("Rendering %dx%d sequentially...\n", rt.width, rt.height)
		stats, err = rt.renderSequential(ctx, img)
	} else {
		stats, err = rt.renderParallel(ctx, img)
	}
	if err != nil {
		return nil, RenderStats{}, err
	}

	stats.Duration = time.Since(startTime)
	rt.logger.Printf("Render completed in %v (%d pixels, %.1f%% hit, %d shadow rays)\n",
		stats.Duration, stats.TotalPixels, 100*stats.HitRatio(), stats.ShadowRays)

	return img, stats, nil
}

func (rt *Raytracer) renderSequential(ctx context.Context, img *image.RGBA) (RenderStats, error) {
	var stats RenderStats
	for y := 0; y < rt.height; y++ {
		if err := ctx.Err(); err != nil {
			return RenderStats{}, err
		}
		rowStats, err := rt.RenderBounds(image.Rect(0, y, rt.width, y+1), img)
		if err != nil {
			return RenderStats{}, err
		}
		stats.Merge(rowStats)
	}
	return stats, nil
}

func (rt *Raytracer) renderParallel(ctx context.Context, img *image.RGBA) (RenderStats, error) {
	tiles := NewTileGrid(rt.width, rt.height, rt.config.TileSize)
	pool := NewWorkerPool(rt, img, len(tiles), rt.config.NumWorkers)

	rt.logger.Printf("Rendering %dx%d in %d tiles (using %d workers)...\n",
		rt.width, rt.height, len(tiles), pool.GetNumWorkers())

	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	// Drain every result so all workers finish before the pool is stopped
	var stats RenderStats
	var firstErr error
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("tile %d: %w", result.TaskID, result.Error)
			}
			continue
		}
		stats.Merge(result.Stats)
	}
	pool.Stop()

	if firstErr != nil {
		return RenderStats{}, firstErr
	}
	return stats, nil
}

// RenderBounds shades every pixel inside bounds and writes it to img. Pixels
// outside bounds are not touched, so disjoint bounds may render concurrently.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, img *image.RGBA) (RenderStats, error) {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color, err := rt.shader.shade(rt.camera.GetRay(x, y), &stats)
			if err != nil {
				return RenderStats{}, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
			}
			img.SetRGBA(x, y, color.ToRGBA())
		}
	}

	return stats, nil
}
