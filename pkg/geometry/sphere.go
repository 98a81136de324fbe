package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Point
	Radius float64
	Albedo core.Color
	Power  float64 // Emitted intensity; 0 for a plain reflector
}

// NewSphere creates a new sphere
func NewSphere(center core.Point, radius float64, color core.Color, intensity float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		Albedo: color,
		Power:  intensity,
	}
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray, nudge float64) (*Hit, bool) {
	// Vector from sphere center to ray origin
	l := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(l)
	c := l.Dot(l) - s.Radius*s.Radius

	t0, t1, ok := core.SolveQuadratic(a, b, c)
	if !ok {
		return nil, false
	}
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	// Prefer the near root; fall back to the far one when the origin is inside
	t := t0
	if t < 0 {
		t = t1
		if t < 0 {
			// Sphere is entirely behind the ray origin
			return nil, false
		}
	}

	point, distance := nudgedHit(ray, t, nudge)
	return &Hit{
		Distance: distance,
		Color:    s.Albedo,
		IsLight:  IsLight(s),
		Point:    point,
		Normal:   point.Subtract(s.Center).Divide(s.Radius).Normalize(),
		Object:   s,
	}, true
}

func (s *Sphere) Color() core.Color  { return s.Albedo }
func (s *Sphere) Origin() core.Point { return s.Center }
func (s *Sphere) Intensity() float64 { return s.Power }

// Validate checks that the sphere has a finite positive radius and a
// non-negative intensity
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("sphere radius must be positive, got %v", s.Radius)
	}
	if !(s.Power >= 0) || math.IsInf(s.Power, 0) {
		return fmt.Errorf("sphere intensity must be finite and non-negative, got %v", s.Power)
	}
	return nil
}
