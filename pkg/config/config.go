// Package config loads renderer settings from an optional .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/output"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting. Zero image settings mean
// "use the scene's own".
type Config struct {
	Scene          string
	SceneDir       string
	Image          scene.Settings
	Workers        int
	TileSize       int
	Output         string
	ThumbnailWidth int
	Ambient        float64
	LightMatch     renderer.LightMatch
	Sky            bool // Render escaped rays with the sky color instead of black
	Port           int
	S3             output.S3Config
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Scene:    "default",
		SceneDir: "scenes",
		TileSize: renderer.DefaultTileSize,
		Output:   "", // output/<scene>/render_<timestamp>.png
		Ambient:  renderer.DefaultAmbient,
		Port:     8080,
		S3:       output.S3Config{Region: "us-east-1"},
	}
}

// Load reads envFile if it exists, without overriding variables already set
// in the environment, and then builds the configuration from the environment.
// An empty envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables
func FromEnv() (Config, error) {
	cfg := Default()
	p := parser{}

	cfg.Scene = getEnv("RT_SCENE", cfg.Scene)
	cfg.SceneDir = getEnv("RT_SCENE_DIR", cfg.SceneDir)
	cfg.Image.Width = p.getInt("RT_WIDTH", 0)
	cfg.Image.Height = p.getInt("RT_HEIGHT", 0)
	cfg.Image.FOV = p.getFloat("RT_FOV", 0)
	cfg.Image.SurfaceNudge = p.getFloat("RT_SURFACE_NUDGE", 0)
	cfg.Workers = p.getInt("RT_WORKERS", cfg.Workers)
	cfg.TileSize = p.getInt("RT_TILE_SIZE", cfg.TileSize)
	cfg.Output = getEnv("RT_OUTPUT", cfg.Output)
	cfg.ThumbnailWidth = p.getInt("RT_THUMBNAIL_WIDTH", cfg.ThumbnailWidth)
	cfg.Ambient = p.getFloat("RT_AMBIENT", cfg.Ambient)
	cfg.Sky = p.getBool("RT_SKY", cfg.Sky)
	cfg.Port = p.getInt("RT_PORT", cfg.Port)

	if v, ok := os.LookupEnv("RT_LIGHT_MATCH"); ok {
		match, err := renderer.ParseLightMatch(v)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("RT_LIGHT_MATCH: %w", err))
		}
		cfg.LightMatch = match
	}

	cfg.S3 = output.S3Config{
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    getEnv("S3_REGION", cfg.S3.Region),
		Bucket:    os.Getenv("S3_BUCKET"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RenderConfig returns the renderer settings described by the configuration
func (c Config) RenderConfig() renderer.RenderConfig {
	config := renderer.DefaultRenderConfig()
	config.NumWorkers = c.Workers
	config.TileSize = c.TileSize
	config.Shading.Ambient = c.Ambient
	config.Shading.LightMatch = c.LightMatch
	if c.Sky {
		config.Shading.Background = core.SkyColor()
	}
	return config
}

// Helper to get environment variables with a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// parser collects every malformed variable so they can be reported together
type parser struct {
	errs []error
}

func (p *parser) getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return fallback
	}
	return n
}

func (p *parser) getFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid number %q", key, v))
		return fallback
	}
	return f
}

func (p *parser) getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return fallback
	}
	return b
}
