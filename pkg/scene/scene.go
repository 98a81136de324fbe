package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// ErrInvalidScene is returned when scene settings or objects are unusable
var ErrInvalidScene = errors.New("invalid scene")

// Settings contains the image and intersection parameters of a scene
type Settings struct {
	Width        int     // Image width in pixels; must exceed Height
	Height       int     // Image height in pixels
	FOV          float64 // Horizontal field of view in degrees
	SurfaceNudge float64 // Fraction hit points are pulled back toward the ray origin
}

// DefaultSettings returns sensible default values
func DefaultSettings() Settings {
	return Settings{
		Width:        800,
		Height:       600,
		FOV:          90.0,
		SurfaceNudge: geometry.DefaultSurfaceNudge,
	}
}

// MergeSettings returns base with every non-zero field of override applied
func MergeSettings(base, override Settings) Settings {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.FOV != 0 {
		result.FOV = override.FOV
	}
	if override.SurfaceNudge != 0 {
		result.SurfaceNudge = override.SurfaceNudge
	}
	return result
}

// Scene is an immutable collection of objects plus the image settings they
// are rendered with. It is safe for concurrent use by any number of readers.
type Scene struct {
	settings Settings
	objects  []geometry.Object
	lights   []geometry.Object // Objects with positive intensity, in scene order
}

// New validates the settings and objects and builds a scene
func New(settings Settings, objects []geometry.Object) (*Scene, error) {
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	s := &Scene{
		settings: settings,
		objects:  make([]geometry.Object, 0, len(objects)),
	}
	for i, object := range objects {
		if object == nil {
			return nil, fmt.Errorf("%w: object %d is nil", ErrInvalidScene, i)
		}
		if validator, ok := object.(geometry.Validator); ok {
			if err := validator.Validate(); err != nil {
				return nil, fmt.Errorf("%w: object %d: %v", ErrInvalidScene, i, err)
			}
		}
		s.objects = append(s.objects, object)
		if geometry.IsLight(object) {
			s.lights = append(s.lights, object)
		}
	}

	return s, nil
}

func validateSettings(settings Settings) error {
	if settings.Height <= 0 || settings.Width <= settings.Height {
		return fmt.Errorf("%w: width must exceed height, got %dx%d", ErrInvalidScene, settings.Width, settings.Height)
	}
	if !(settings.FOV > 0 && settings.FOV < 180) {
		return fmt.Errorf("%w: field of view must be in (0, 180) degrees, got %v", ErrInvalidScene, settings.FOV)
	}
	if !(settings.SurfaceNudge >= 0 && settings.SurfaceNudge < 1) || math.IsNaN(settings.SurfaceNudge) {
		return fmt.Errorf("%w: surface nudge must be in [0, 1), got %v", ErrInvalidScene, settings.SurfaceNudge)
	}
	return nil
}

// Settings returns the scene's image settings
func (s *Scene) Settings() Settings { return s.settings }

// Dimensions returns the image size in pixels
func (s *Scene) Dimensions() (width, height int) { return s.settings.Width, s.settings.Height }

// FieldOfView returns the horizontal field of view in degrees
func (s *Scene) FieldOfView() float64 { return s.settings.FOV }

// Objects returns a copy of the scene's objects in order
func (s *Scene) Objects() []geometry.Object {
	return append([]geometry.Object(nil), s.objects...)
}

// Lights returns the objects with positive intensity. The returned slice is
// shared and must not be modified.
func (s *Scene) Lights() []geometry.Object { return s.lights }

// CastRay returns the nearest hit along the ray, or nil when it escapes the scene
func (s *Scene) CastRay(ray core.Ray) (*geometry.Hit, error) {
	return geometry.ClosestHit(s.objects, ray, s.settings.SurfaceNudge)
}
