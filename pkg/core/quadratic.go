package core

import "math"

// SolveQuadratic finds the real roots of a*t² + b*t + c = 0.
// ok is false when the discriminant is negative. A double root is returned as
// two equal values. Roots are not ordered; callers pick the one they need.
//
// The roots come from q = -(b + sign(b)*sqrt(Δ))/2 as q/a and c/q, which keeps
// precision when b and sqrt(Δ) are close in magnitude.
func SolveQuadratic(a, b, c float64) (x0, x1 float64, ok bool) {
	discriminant := b*b - 4*a*c
	switch {
	case discriminant < 0:
		return 0, 0, false
	case discriminant == 0:
		root := -0.5 * b / a
		return root, root, true
	}

	var q float64
	if b > 0 {
		q = -0.5 * (b + math.Sqrt(discriminant))
	} else {
		q = -0.5 * (b - math.Sqrt(discriminant))
	}
	return q / a, c / q, true
}
