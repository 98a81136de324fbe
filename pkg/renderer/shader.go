package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

// DefaultAmbient is the fraction of a surface's color added for each light
// whose shadow ray reaches some surface
const DefaultAmbient = 0.0025

// LightMatch decides whether a shadow ray's nearest hit counts as reaching the light
type LightMatch int

const (
	// MatchIdentity requires the shadow ray to hit the light object itself
	MatchIdentity LightMatch = iota
	// MatchColor accepts any light-flagged surface of the light's color.
	// Two distinct lights sharing a color can see through each other.
	MatchColor
)

func (m LightMatch) String() string {
	switch m {
	case MatchIdentity:
		return "identity"
	case MatchColor:
		return "color"
	default:
		return fmt.Sprintf("LightMatch(%d)", int(m))
	}
}

// ParseLightMatch parses "identity" or "color"
func ParseLightMatch(s string) (LightMatch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "identity":
		return MatchIdentity, nil
	case "color":
		return MatchColor, nil
	default:
		return 0, fmt.Errorf("unknown light match %q (want identity or color)", s)
	}
}

// ShadingConfig contains the lighting parameters of the shader
type ShadingConfig struct {
	Ambient    float64    // Ambient factor applied per reachable light
	LightMatch LightMatch // How shadow rays identify their light
	Background core.Color // Color of rays that hit nothing
}

// DefaultShadingConfig returns sensible default values
func DefaultShadingConfig() ShadingConfig {
	return ShadingConfig{
		Ambient:    DefaultAmbient,
		LightMatch: MatchIdentity,
		Background: core.Black(),
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	Dimensions() (width, height int)
	FieldOfView() float64
	CastRay(ray core.Ray) (*geometry.Hit, error)
	Lights() []geometry.Object
}

// Shader resolves camera rays to linear colors using direct lighting from
// every light in the scene plus a flat ambient term
type Shader struct {
	scene  Scene
	config ShadingConfig
}

// NewShader creates a shader for the scene
func NewShader(scene Scene, config ShadingConfig) *Shader {
	return &Shader{scene: scene, config: config}
}

// CastCameraRay returns the linear color seen along the ray
func (s *Shader) CastCameraRay(ray core.Ray) (core.Color, error) {
	return s.shade(ray, nil)
}

// shade computes the color along the ray, recording counters in stats when non-nil
func (s *Shader) shade(ray core.Ray, stats *RenderStats) (core.Color, error) {
	hit, err := s.scene.CastRay(ray)
	if err != nil {
		return core.Black(), err
	}
	if hit == nil {
		return s.config.Background, nil
	}
	if stats != nil {
		stats.HitPixels++
	}

	color := core.Black()
	ambient := hit.Color.Multiply(s.config.Ambient)

	for _, light := range s.scene.Lights() {
		toLight := light.Origin().Subtract(hit.Point)
		distance := toLight.Length()
		if distance == 0 {
			continue
		}

		shadowRay := core.NewRay(hit.Point, toLight)
		shadowHit, err := s.scene.CastRay(shadowRay)
		if err != nil {
			return core.Black(), err
		}
		if stats != nil {
			stats.ShadowRays++
		}

		// Shadow rays that leave the scene carry no light at all
		if shadowHit == nil {
			if stats != nil {
				stats.EscapedSamples++
			}
			continue
		}

		color = color.Add(ambient)
		if !s.reachesLight(shadowHit, light) {
			if stats != nil {
				stats.OccludedSamples++
			}
			continue
		}
		if stats != nil {
			stats.LitSamples++
		}

		cosTheta := max(0, hit.Normal.Dot(shadowRay.Direction))
		power := light.Intensity() * cosTheta / math.Pi / distance
		color = color.Add(hit.Color.MultiplyColor(light.Color()).Multiply(power))
	}

	return color, nil
}

// reachesLight reports whether the shadow ray's nearest hit is the light it was aimed at
func (s *Shader) reachesLight(shadowHit *geometry.Hit, light geometry.Object) bool {
	if s.config.LightMatch == MatchColor {
		return shadowHit.IsLight && shadowHit.Color == light.Color()
	}
	return shadowHit.Object == light
}
