package core

// Ray represents a ray with an origin and a unit-length direction
type Ray struct {
	Origin    Point
	Direction Vec3
}

// NewRay creates a new ray. The direction is normalized so every ray in the
// renderer has a unit direction and hit distances equal ray parameters.
func NewRay(origin Point, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Point {
	return r.Origin.Add(r.Direction.Multiply(t))
}
