package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

const (
	// ParallelThreshold is the smallest |normal·direction| for which a ray is
	// not treated as parallel to a plane
	ParallelThreshold = 1e-6
	// MinPlaneDistance rejects plane hits at or just in front of the ray origin
	MinPlaneDistance = 1e-7
)

// Plane represents an infinite plane defined by a point and normal.
// The normal is one-sided: hits report it unchanged whichever side the ray
// arrives from.
type Plane struct {
	Center core.Point // A point on the plane
	Normal core.Vec3  // Unit normal
	Albedo core.Color
	Power  float64
}

// NewPlane creates a new plane
func NewPlane(center core.Point, normal core.Vec3, color core.Color, intensity float64) *Plane {
	return &Plane{
		Center: center,
		Normal: normal.Normalize(), // Ensure normal is normalized
		Albedo: color,
		Power:  intensity,
	}
}

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray core.Ray, nudge float64) (*Hit, bool) {
	projection := p.Normal.Dot(ray.Direction)

	// Ray is parallel to the plane
	if math.Abs(projection) <= ParallelThreshold {
		return nil, false
	}

	t := p.Center.Subtract(ray.Origin).Dot(p.Normal) / projection
	if t < MinPlaneDistance {
		return nil, false
	}

	point, distance := nudgedHit(ray, t, nudge)
	return &Hit{
		Distance: distance,
		Color:    p.Albedo,
		IsLight:  IsLight(p),
		Point:    point,
		Normal:   p.Normal,
		Object:   p,
	}, true
}

func (p *Plane) Color() core.Color  { return p.Albedo }
func (p *Plane) Origin() core.Point { return p.Center }
func (p *Plane) Intensity() float64 { return p.Power }

// Validate checks that the plane has a usable normal and a non-negative intensity
func (p *Plane) Validate() error {
	if p.Normal.LengthSquared() == 0 {
		return fmt.Errorf("plane normal must be non-zero")
	}
	if !(p.Power >= 0) || math.IsInf(p.Power, 0) {
		return fmt.Errorf("plane intensity must be finite and non-negative, got %v", p.Power)
	}
	return nil
}
