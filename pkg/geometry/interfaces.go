package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// DefaultSurfaceNudge is the fraction by which a recorded hit point is pulled
// back toward the ray origin so that rays leaving the point do not re-hit the
// surface they start on.
const DefaultSurfaceNudge = 1e-5

// ErrNaNDistance reports a hit whose distance is not a number. It means the
// scene geometry is corrupt and the render cannot continue.
var ErrNaNDistance = errors.New("intersection distance is NaN")

// Hit records a single ray-surface intersection
type Hit struct {
	Distance float64    // Distance from the ray origin to Point
	Color    core.Color // Albedo of the surface that was hit
	IsLight  bool       // Whether the surface emits light
	Point    core.Point // Intersection point, nudged toward the ray origin
	Normal   core.Vec3  // Unit surface normal
	Object   Object     // The object that was hit
}

// Object is anything a ray can intersect. Lights are objects with a positive
// intensity; they are hit and shaded like any other surface.
type Object interface {
	Intersect(ray core.Ray, nudge float64) (*Hit, bool)
	Color() core.Color
	Origin() core.Point
	Intensity() float64
}

// Validator is implemented by objects that can reject invalid parameters
type Validator interface {
	Validate() error
}

// IsLight reports whether the object emits light
func IsLight(o Object) bool {
	return o.Intensity() > 0
}

// ClosestHit intersects the ray with every object and returns the nearest
// hit, or nil when the ray hits nothing. A NaN distance aborts the search.
func ClosestHit(objects []Object, ray core.Ray, nudge float64) (*Hit, error) {
	var closest *Hit

	for i, object := range objects {
		hit, isHit := object.Intersect(ray, nudge)
		if !isHit {
			continue
		}
		if math.IsNaN(hit.Distance) {
			return nil, fmt.Errorf("object %d (%T): %w", i, object, ErrNaNDistance)
		}
		if closest == nil || hit.Distance < closest.Distance {
			closest = hit
		}
	}

	return closest, nil
}

// nudgedHit builds the hit for parameter t along the ray, pulling the point
// back by the nudge fraction
func nudgedHit(ray core.Ray, t, nudge float64) (core.Point, float64) {
	point := ray.At(t * (1 - nudge))
	return point, point.Subtract(ray.Origin).Length()
}
