package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
	"github.com/df07/go-direct-raytracer/pkg/scene"
	"github.com/fogleman/fauxgl"
)

// ErrUnknownScene is returned when a scene name matches neither a built-in
// scene nor a scene file
var ErrUnknownScene = errors.New("unknown scene")

// SceneFile is the JSON layout of a scene description
type SceneFile struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	FOV          float64      `json:"fov"`
	SurfaceNudge float64      `json:"surfaceNudge"`
	Objects      []ObjectSpec `json:"objects"`
}

// ObjectSpec describes one sphere or plane. Color is either a hex string in
// display space ("#ffcc00") or a [r, g, b] array of linear values.
type ObjectSpec struct {
	Type      string          `json:"type"`
	Center    [3]float64      `json:"center"`
	Radius    float64         `json:"radius,omitempty"`
	Normal    *[3]float64     `json:"normal,omitempty"`
	Color     json.RawMessage `json:"color"`
	Intensity float64         `json:"intensity,omitempty"`
}

// LoadScene reads a JSON scene file. Non-zero fields of overrides replace
// the settings stored in the file, which in turn replace the defaults.
func LoadScene(path string, overrides scene.Settings) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := ParseScene(data, overrides)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScene builds a scene from JSON scene data
func ParseScene(data []byte, overrides scene.Settings) (*scene.Scene, error) {
	var file SceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	objects := make([]geometry.Object, 0, len(file.Objects))
	for i, spec := range file.Objects {
		object, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		objects = append(objects, object)
	}

	settings := scene.MergeSettings(scene.DefaultSettings(), scene.Settings{
		Width:        file.Width,
		Height:       file.Height,
		FOV:          file.FOV,
		SurfaceNudge: file.SurfaceNudge,
	})
	settings = scene.MergeSettings(settings, overrides)

	return scene.New(settings, objects)
}

func (spec ObjectSpec) build() (geometry.Object, error) {
	color, err := parseColor(spec.Color)
	if err != nil {
		return nil, err
	}
	center := core.NewPoint(spec.Center[0], spec.Center[1], spec.Center[2])

	switch strings.ToLower(spec.Type) {
	case "sphere":
		return geometry.NewSphere(center, spec.Radius, color, spec.Intensity), nil
	case "plane":
		if spec.Normal == nil {
			return nil, fmt.Errorf("plane requires a normal")
		}
		n := *spec.Normal
		return geometry.NewPlane(center, core.NewVec3(n[0], n[1], n[2]), color, spec.Intensity), nil
	default:
		return nil, fmt.Errorf("unsupported object type %q", spec.Type)
	}
}

// parseColor accepts a display-space hex string or a linear [r, g, b] array.
// A missing color is white.
func parseColor(raw json.RawMessage) (core.Color, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return core.NewColor(1, 1, 1), nil
	}

	var hex string
	if err := json.Unmarshal(raw, &hex); err == nil {
		if !isHexColor(hex) {
			return core.Color{}, fmt.Errorf("invalid hex color %q", hex)
		}
		c := fauxgl.HexColor(hex)
		return core.NewColor(core.GammaDecode(c.R), core.GammaDecode(c.G), core.GammaDecode(c.B)), nil
	}

	var rgb [3]float64
	if err := json.Unmarshal(raw, &rgb); err != nil {
		return core.Color{}, fmt.Errorf("color must be a hex string or [r, g, b]: %s", raw)
	}
	return core.NewColor(rgb[0], rgb[1], rgb[2]), nil
}

func isHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// LoadNamedScene resolves a built-in scene ID, a "file:<name>" ID from
// scene.ListFileScenes, or a path to a JSON file
func LoadNamedScene(name, sceneDir string, overrides scene.Settings) (*scene.Scene, error) {
	if scene.IsBuiltin(name) {
		return scene.NewBuiltin(name, overrides)
	}

	if fileName, ok := strings.CutPrefix(name, "file:"); ok {
		return LoadScene(filepath.Join(sceneDir, fileName+".json"), overrides)
	}

	if strings.EqualFold(filepath.Ext(name), ".json") {
		return LoadScene(name, overrides)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
}
