package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

var green = core.NewColor(0.2, 1.0, 0.2)

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere(core.NewPoint(0, 0, -5), 1.0, green, 0)
	ray := core.NewRay(core.Origin(), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Intersect(ray, DefaultSurfaceNudge)
	if isHit {
		t.Errorf("Expected miss, but got hit at distance %f", hit.Distance)
	}
}

func TestSphere_Intersect_AimedAtCenter(t *testing.T) {
	tests := []struct {
		name   string
		center core.Point
		radius float64
		origin core.Point
	}{
		{"straight ahead", core.NewPoint(0, 0, -5), 1.0, core.Origin()},
		{"offset origin", core.NewPoint(3, -2, 7), 2.5, core.NewPoint(-4, 1, 0)},
		{"small sphere far away", core.NewPoint(10, 5, -20), 0.1, core.NewPoint(1, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(tt.center, tt.radius, green, 0)
			ray := core.NewRay(tt.origin, tt.center.Subtract(tt.origin))

			hit, isHit := sphere.Intersect(ray, DefaultSurfaceNudge)
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			expected := tt.center.Subtract(tt.origin).Length() - tt.radius
			if math.Abs(hit.Distance-expected) > 1e-3 {
				t.Errorf("Expected distance %f, got %f", expected, hit.Distance)
			}
			if hit.Distance > expected {
				t.Errorf("Expected nudged distance to be short of %f, got %f", expected, hit.Distance)
			}

			if math.Abs(hit.Normal.Length()-1) > 1e-9 {
				t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
			}
			if hit.Normal.Dot(hit.Point.Subtract(tt.center)) <= 0 {
				t.Errorf("Expected normal %v to point away from center", hit.Normal)
			}
			if hit.Color != green {
				t.Errorf("Expected color %v, got %v", green, hit.Color)
			}
			if hit.IsLight {
				t.Error("Expected non-light hit")
			}
			if hit.Object != Object(sphere) {
				t.Error("Expected hit to reference the sphere")
			}
		})
	}
}

func TestSphere_Intersect_ExactWithoutNudge(t *testing.T) {
	sphere := NewSphere(core.NewPoint(0, 0, -5), 1.0, green, 0)
	ray := core.NewRay(core.Origin(), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Intersect(ray, 0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.Distance-4) > 1e-12 {
		t.Errorf("Expected distance 4, got %f", hit.Distance)
	}
	if !hit.Point.ApproxEqual(core.NewPoint(0, 0, -4), 1e-12) {
		t.Errorf("Expected point (0, 0, -4), got %v", hit.Point)
	}
	if !hit.Normal.ApproxEqual(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected normal (0, 0, 1), got %v", hit.Normal)
	}
}

func TestSphere_Intersect_NudgeStaysOutside(t *testing.T) {
	sphere := NewSphere(core.NewPoint(0, 0, -5), 1.0, green, 0)
	ray := core.NewRay(core.Origin(), core.NewVec3(0, 0, -1))

	hit, _ := sphere.Intersect(ray, DefaultSurfaceNudge)
	if d := hit.Point.Subtract(sphere.Center).Length(); d <= sphere.Radius {
		t.Errorf("Expected nudged point outside the sphere, got distance %f from center", d)
	}
}

func TestSphere_Intersect_OriginInside(t *testing.T) {
	sphere := NewSphere(core.NewPoint(0, 0, 0), 2.0, green, 0)
	ray := core.NewRay(core.NewPoint(0, 0, 0), core.NewVec3(1, 0, 0))

	hit, isHit := sphere.Intersect(ray, 0)
	if !isHit {
		t.Fatal("Expected hit on far side, but got miss")
	}
	if math.Abs(hit.Distance-2) > 1e-12 {
		t.Errorf("Expected distance 2, got %f", hit.Distance)
	}
	if !hit.Normal.ApproxEqual(core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("Expected outward normal (1, 0, 0), got %v", hit.Normal)
	}
}

func TestSphere_Intersect_BehindOrigin(t *testing.T) {
	sphere := NewSphere(core.NewPoint(0, 0, -5), 1.0, green, 0)
	ray := core.NewRay(core.NewPoint(0, 0, -10), core.NewVec3(0, 0, -1))

	if hit, isHit := sphere.Intersect(ray, DefaultSurfaceNudge); isHit {
		t.Errorf("Expected miss for sphere behind origin, got hit at distance %f", hit.Distance)
	}
}

func TestSphere_LightFlag(t *testing.T) {
	light := NewSphere(core.NewPoint(0, 0, -5), 1.0, core.NewColor(1, 1, 1), 10)
	if !IsLight(light) {
		t.Error("Expected sphere with positive intensity to be a light")
	}

	hit, isHit := light.Intersect(core.NewRay(core.Origin(), core.NewVec3(0, 0, -1)), DefaultSurfaceNudge)
	if !isHit || !hit.IsLight {
		t.Error("Expected light-flagged hit")
	}
	if light.Origin() != light.Center || light.Intensity() != 10 || light.Color() != light.Albedo {
		t.Error("Expected accessors to report stored fields")
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name      string
		sphere    *Sphere
		expectErr bool
	}{
		{"valid", NewSphere(core.Origin(), 1, green, 0), false},
		{"zero radius", NewSphere(core.Origin(), 0, green, 0), true},
		{"negative radius", NewSphere(core.Origin(), -1, green, 0), true},
		{"NaN radius", NewSphere(core.Origin(), math.NaN(), green, 0), true},
		{"negative intensity", NewSphere(core.Origin(), 1, green, -1), true},
		{"NaN intensity", NewSphere(core.Origin(), 1, green, math.NaN()), true},
		{"infinite intensity", NewSphere(core.Origin(), 1, green, math.Inf(1)), true},
		{"infinite radius", NewSphere(core.Origin(), math.Inf(1), green, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sphere.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Expected error=%t, got %v", tt.expectErr, err)
			}
		})
	}
}
