package scene

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// Builtin describes a scene that is constructed in code
type Builtin struct {
	ID          string
	Name        string
	Description string
	objects     func() []geometry.Object
}

var builtins = map[string]Builtin{
	"default": {
		ID:          "default",
		Name:        "Default Scene",
		Description: "Three spheres on a floor in front of a wall, lit by one spherical light",
		objects:     defaultObjects,
	},
	"single-sphere": {
		ID:          "single-sphere",
		Name:        "Single Sphere",
		Description: "One green sphere and no lights; renders black",
		objects:     singleSphereObjects,
	},
	"shadows": {
		ID:          "shadows",
		Name:        "Shadows",
		Description: "A row of spheres casting shadows on the floor from a low light",
		objects:     shadowObjects,
	},
	"twin-lights": {
		ID:          "twin-lights",
		Name:        "Twin Lights",
		Description: "Two lights of identical color on either side of a blocker",
		objects:     twinLightObjects,
	},
}

// Builtins returns the built-in scenes sorted by ID
func Builtins() []Builtin {
	result := make([]Builtin, 0, len(builtins))
	for _, b := range builtins {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// IsBuiltin reports whether id names a built-in scene
func IsBuiltin(id string) bool {
	_, ok := builtins[id]
	return ok
}

// NewBuiltin builds the named built-in scene. Non-zero fields of overrides
// replace the default settings.
func NewBuiltin(id string, overrides ...Settings) (*Scene, error) {
	b, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", id)
	}

	settings := DefaultSettings()
	if len(overrides) > 0 {
		settings = MergeSettings(settings, overrides[0])
	}
	return New(settings, b.objects())
}

// rgb8 converts an 8-bit display color to linear light
func rgb8(r, g, b uint8) core.Color {
	return core.ColorFromRGBA(color.RGBA{R: r, G: g, B: b, A: 255})
}

func defaultObjects() []geometry.Object {
	white := core.NewColor(1, 1, 1)
	return []geometry.Object{
		// Floor and back wall
		geometry.NewPlane(core.NewPoint(0, -2, -5), core.NewVec3(0, 1, 0), rgb8(200, 200, 200), 0),
		geometry.NewPlane(core.NewPoint(0, 0, -20), core.NewVec3(0, 0, 1), rgb8(60, 80, 200), 0),

		geometry.NewSphere(core.NewPoint(0, 0, -5), 1.0, rgb8(40, 255, 40), 0),
		geometry.NewSphere(core.NewPoint(-3, 1, -6), 2.0, rgb8(255, 40, 40), 0),
		geometry.NewSphere(core.NewPoint(2, 1, -4), 1.5, rgb8(40, 40, 255), 0),

		// Light above and in front of the spheres
		geometry.NewSphere(core.NewPoint(0, 6, -3), 0.5, white, 40),
	}
}

func singleSphereObjects() []geometry.Object {
	return []geometry.Object{
		geometry.NewSphere(core.NewPoint(0, 0, -5), 1.0, rgb8(40, 255, 40), 0),
	}
}

func shadowObjects() []geometry.Object {
	objects := []geometry.Object{
		geometry.NewPlane(core.NewPoint(0, -1, 0), core.NewVec3(0, 1, 0), rgb8(230, 230, 230), 0),
	}
	for i := 0; i < 5; i++ {
		x := float64(i-2) * 2.2
		objects = append(objects, geometry.NewSphere(core.NewPoint(x, 0, -8), 0.8, rgb8(255, 200, 80), 0))
	}
	objects = append(objects, geometry.NewSphere(core.NewPoint(-8, 2, -6), 0.5, rgb8(255, 240, 220), 60))
	return objects
}

func twinLightObjects() []geometry.Object {
	warm := rgb8(255, 220, 180)
	return []geometry.Object{
		geometry.NewPlane(core.NewPoint(0, -1, 0), core.NewVec3(0, 1, 0), rgb8(220, 220, 220), 0),
		geometry.NewSphere(core.NewPoint(0, 0, -6), 1.0, rgb8(120, 120, 255), 0),
		geometry.NewSphere(core.NewPoint(-4, 2, -6), 0.4, warm, 30),
		geometry.NewSphere(core.NewPoint(4, 2, -6), 0.4, warm, 30),
	}
}
