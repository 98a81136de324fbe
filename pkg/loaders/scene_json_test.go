package loaders

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

const testSceneJSON = `{
	"name": "Test Scene",
	"description": "A sphere over a floor",
	"width": 320,
	"height": 240,
	"fov": 60,
	"objects": [
		{"type": "plane", "center": [0, -1, 0], "normal": [0, 2, 0], "color": "#808080"},
		{"type": "sphere", "center": [0, 0, -5], "radius": 1, "color": [0.2, 0.4, 0.6]},
		{"type": "Sphere", "center": [0, 5, -5], "radius": 0.5, "color": "#fff", "intensity": 25}
	]
}`

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(testSceneJSON), scene.Settings{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	settings := s.Settings()
	if settings.Width != 320 || settings.Height != 240 || settings.FOV != 60 {
		t.Errorf("Expected 320x240 at 60°, got %+v", settings)
	}
	if settings.SurfaceNudge != geometry.DefaultSurfaceNudge {
		t.Errorf("Expected default surface nudge, got %v", settings.SurfaceNudge)
	}

	objects := s.Objects()
	if len(objects) != 3 {
		t.Fatalf("Expected 3 objects, got %d", len(objects))
	}

	plane, ok := objects[0].(*geometry.Plane)
	if !ok {
		t.Fatalf("Expected *geometry.Plane, got %T", objects[0])
	}
	if !plane.Normal.ApproxEqual(core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected normalized plane normal, got %v", plane.Normal)
	}
	// Hex colors are display space and decode to linear light
	grey := math.Pow(128.0/255.0, core.Gamma)
	if math.Abs(plane.Color().R-grey) > 1e-9 {
		t.Errorf("Expected decoded grey %f, got %f", grey, plane.Color().R)
	}

	if c := objects[1].Color(); c != core.NewColor(0.2, 0.4, 0.6) {
		t.Errorf("Expected linear array color to pass through, got %v", c)
	}

	lights := s.Lights()
	if len(lights) != 1 || lights[0].Intensity() != 25 {
		t.Errorf("Expected one light of intensity 25, got %v", lights)
	}
	if c := lights[0].Color(); c != core.NewColor(1, 1, 1) {
		t.Errorf("Expected short hex white, got %v", c)
	}
}

func TestParseScene_Overrides(t *testing.T) {
	s, err := ParseScene([]byte(testSceneJSON), scene.Settings{Width: 64, Height: 48})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if w, h := s.Dimensions(); w != 64 || h != 48 {
		t.Errorf("Expected 64x48, got %dx%d", w, h)
	}
	if s.FieldOfView() != 60 {
		t.Errorf("Expected file field of view to survive, got %v", s.FieldOfView())
	}
}

func TestParseScene_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"objects": [`},
		{"unknown type", `{"objects": [{"type": "cube", "center": [0, 0, 0]}]}`},
		{"plane without normal", `{"objects": [{"type": "plane", "center": [0, 0, 0]}]}`},
		{"bad hex", `{"objects": [{"type": "sphere", "center": [0, 0, -5], "radius": 1, "color": "#zzzzzz"}]}`},
		{"bad color shape", `{"objects": [{"type": "sphere", "center": [0, 0, -5], "radius": 1, "color": {"r": 1}}]}`},
		{"negative radius", `{"objects": [{"type": "sphere", "center": [0, 0, -5], "radius": -1}]}`},
		{"square image", `{"width": 100, "height": 100, "objects": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScene([]byte(tt.data), scene.Settings{}); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestParseScene_InvalidSceneIsWrapped(t *testing.T) {
	_, err := ParseScene([]byte(`{"width": 100, "height": 100}`), scene.Settings{})
	if !errors.Is(err, scene.ErrInvalidScene) {
		t.Errorf("Expected ErrInvalidScene, got %v", err)
	}
}

func TestLoadNamedScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sphere-over-floor.json")
	if err := os.WriteFile(path, []byte(testSceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	tests := []struct {
		name            string
		sceneName       string
		expectedObjects int
	}{
		{"builtin", "single-sphere", 1},
		{"file id", "file:sphere-over-floor", 3},
		{"path", path, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadNamedScene(tt.sceneName, dir, scene.Settings{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := len(s.Objects()); got != tt.expectedObjects {
				t.Errorf("Expected %d objects, got %d", tt.expectedObjects, got)
			}
		})
	}
}

func TestLoadNamedScene_Unknown(t *testing.T) {
	if _, err := LoadNamedScene("nope", t.TempDir(), scene.Settings{}); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
	if _, err := LoadNamedScene("file:missing", t.TempDir(), scene.Settings{}); err == nil {
		t.Error("Expected error for missing scene file")
	}
}

func TestLoadScene_BundledScenes(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.json"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) == 0 {
		t.Skip("No bundled scenes found")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			if _, err := LoadScene(file, scene.Settings{}); err != nil {
				t.Errorf("Failed to load %s: %v", file, err)
			}
		})
	}
}
