package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/config"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"single-sphere scene", "single-sphere", false},
		{"shadows scene", "shadows", false},
		{"twin-lights scene", "twin-lights", false},

		// JSON scenes (by ID and by path)
		{"sunset-row file", "file:sunset-row", false},
		{"direct JSON path", "scenes/mirror-lights.json", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid JSON path", "scenes/nonexistent.json", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := createScene(tt.sceneType, "scenes", scene.Settings{})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if sc != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
				}
				if sc == nil {
					t.Errorf("Expected scene for '%s', got nil", tt.sceneType)
				}
			}
		})
	}
}

func TestCreateScene_Overrides(t *testing.T) {
	sc, err := createScene("default", "scenes", scene.Settings{Width: 160, Height: 90})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w, h := sc.Dimensions(); w != 160 || h != 90 {
		t.Errorf("Expected 160x90, got %dx%d", w, h)
	}
}

func TestParseOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 2

	opts, err := parseOptions([]string{"-scene", "shadows", "-width", "320", "-height", "200", "-light-match", "color"}, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if opts.cfg.Scene != "shadows" {
		t.Errorf("Expected scene shadows, got %s", opts.cfg.Scene)
	}
	if opts.cfg.Image.Width != 320 || opts.cfg.Image.Height != 200 {
		t.Errorf("Expected 320x200, got %+v", opts.cfg.Image)
	}
	if opts.cfg.Workers != 2 {
		t.Errorf("Expected workers from config to survive, got %d", opts.cfg.Workers)
	}
	if opts.cfg.LightMatch != renderer.MatchColor {
		t.Errorf("Expected color light match, got %v", opts.cfg.LightMatch)
	}
}

func TestParseOptions_Errors(t *testing.T) {
	if _, err := parseOptions([]string{"-light-match", "nearest"}, config.Default()); err == nil {
		t.Error("Expected error for unknown light match")
	}
	if _, err := parseOptions([]string{"-width", "wide"}, config.Default()); err == nil {
		t.Error("Expected error for malformed width")
	}
	if _, err := parseOptions([]string{"-help"}, config.Default()); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	tests := []struct {
		sceneName string
		expected  string
	}{
		{"default", filepath.Join("output", "default", "render_20240309_140507.png")},
		{"file:sunset-row", filepath.Join("output", "sunset-row", "render_20240309_140507.png")},
		{filepath.Join("scenes", "mirror-lights.json"), filepath.Join("output", "mirror-lights", "render_20240309_140507.png")},
	}

	for _, tt := range tests {
		if got := defaultOutputPath(tt.sceneName, now); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestRun_RendersAndSaves(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "render.png")

	var stdout bytes.Buffer
	args := []string{"-scene", "default", "-width", "40", "-height", "30", "-output", outFile, "-thumbnail", "10"}
	if err := run(context.Background(), args, config.Default(), &stdout); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, path := range []string{outFile, filepath.Join(dir, "render_thumb.png")} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s to exist: %v", path, err)
		}
	}

	// Comparing the render with itself yields no difference
	stdout.Reset()
	args = append(args, "-compare", outFile)
	if err := run(context.Background(), args, config.Default(), &stdout); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Mean difference from "+outFile+": 0.000000") {
		t.Errorf("Expected zero difference, got output:\n%s", stdout.String())
	}
}

func TestRun_UploadRequiresBucket(t *testing.T) {
	args := []string{"-scene", "single-sphere", "-width", "20", "-height", "10", "-output", filepath.Join(t.TempDir(), "r.png"), "-upload"}
	err := run(context.Background(), args, config.Default(), &bytes.Buffer{})
	if err == nil {
		t.Error("Expected error when uploading without a bucket")
	}
}

func TestRun_List(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"-list"}, config.Default(), &stdout); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, id := range []string{"default", "single-sphere", "file:sunset-row"} {
		if !strings.Contains(stdout.String(), id) {
			t.Errorf("Expected listing to include %s, got:\n%s", id, stdout.String())
		}
	}
}
