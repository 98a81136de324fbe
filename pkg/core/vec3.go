package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3D direction or displacement
type Vec3 mgl64.Vec3

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3(mgl64.Vec3(v).Add(mgl64.Vec3(other)))
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3(mgl64.Vec3(v).Sub(mgl64.Vec3(other)))
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3(mgl64.Vec3(v).Mul(scalar))
}

// Divide returns the vector divided by a scalar
func (v Vec3) Divide(scalar float64) Vec3 {
	return Vec3(mgl64.Vec3(v).Mul(1.0 / scalar))
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return mgl64.Vec3(v).Dot(mgl64.Vec3(other))
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return mgl64.Vec3(v).Len()
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	if v.LengthSquared() == 0 {
		return Vec3{}
	}
	return Vec3(mgl64.Vec3(v).Normalize())
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3(mgl64.Vec3(v).Cross(mgl64.Vec3(other)))
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return v.Multiply(-1)
}

// ApproxEqual reports whether two vectors agree within threshold per component
func (v Vec3) ApproxEqual(other Vec3, threshold float64) bool {
	return approxEqual([3]float64(v), [3]float64(other), threshold)
}

// Point is a position in world space. Subtracting two points yields a Vec3;
// adding a Vec3 to a point yields another point.
type Point mgl64.Vec3

// NewPoint creates a new Point
func NewPoint(x, y, z float64) Point {
	return Point{x, y, z}
}

// Origin returns the world origin
func Origin() Point {
	return Point{}
}

func (p Point) X() float64 { return p[0] }
func (p Point) Y() float64 { return p[1] }
func (p Point) Z() float64 { return p[2] }

// Add displaces the point by a vector
func (p Point) Add(v Vec3) Point {
	return Point(mgl64.Vec3(p).Add(mgl64.Vec3(v)))
}

// SubtractVec displaces the point by the negated vector
func (p Point) SubtractVec(v Vec3) Point {
	return Point(mgl64.Vec3(p).Sub(mgl64.Vec3(v)))
}

// Subtract returns the displacement from other to p
func (p Point) Subtract(other Point) Vec3 {
	return Vec3(mgl64.Vec3(p).Sub(mgl64.Vec3(other)))
}

// ApproxEqual reports whether two points agree within threshold per component
func (p Point) ApproxEqual(other Point, threshold float64) bool {
	return approxEqual([3]float64(p), [3]float64(other), threshold)
}

func approxEqual(a, b [3]float64, threshold float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > threshold {
			return false
		}
	}
	return true
}
