package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/geometry"
)

func TestNew_DerivesLights(t *testing.T) {
	white := core.NewColor(1, 1, 1)
	floor := geometry.NewPlane(core.NewPoint(0, -1, 0), core.NewVec3(0, 1, 0), white, 0)
	ball := geometry.NewSphere(core.NewPoint(0, 0, -5), 1, white, 0)
	lamp := geometry.NewSphere(core.NewPoint(0, 5, -5), 0.5, white, 10)
	glowingWall := geometry.NewPlane(core.NewPoint(0, 0, -30), core.NewVec3(0, 0, 1), white, 0.5)

	s, err := New(DefaultSettings(), []geometry.Object{floor, lamp, ball, glowingWall})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lights := s.Lights()
	if len(lights) != 2 {
		t.Fatalf("Expected 2 lights, got %d", len(lights))
	}
	if lights[0] != geometry.Object(lamp) || lights[1] != geometry.Object(glowingWall) {
		t.Errorf("Expected lights in scene order, got %v", lights)
	}
	if len(s.Objects()) != 4 {
		t.Errorf("Expected 4 objects, got %d", len(s.Objects()))
	}
}

func TestNew_IsolatedFromCallerSlice(t *testing.T) {
	white := core.NewColor(1, 1, 1)
	objects := []geometry.Object{geometry.NewSphere(core.NewPoint(0, 0, -5), 1, white, 0)}

	s, err := New(DefaultSettings(), objects)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	objects[0] = geometry.NewSphere(core.NewPoint(0, 0, -5), 1, white, 5)
	if len(s.Lights()) != 0 {
		t.Error("Expected scene to be unaffected by changes to the caller's slice")
	}

	copied := s.Objects()
	copied[0] = nil
	if s.Objects()[0] == nil {
		t.Error("Expected Objects to return a copy")
	}
}

func TestNew_Validation(t *testing.T) {
	white := core.NewColor(1, 1, 1)
	valid := []geometry.Object{geometry.NewSphere(core.NewPoint(0, 0, -5), 1, white, 0)}

	tests := []struct {
		name     string
		settings Settings
		objects  []geometry.Object
	}{
		{"square image", Settings{Width: 600, Height: 600, FOV: 90}, valid},
		{"tall image", Settings{Width: 600, Height: 800, FOV: 90}, valid},
		{"zero height", Settings{Width: 600, Height: 0, FOV: 90}, valid},
		{"zero fov", Settings{Width: 800, Height: 600, FOV: 0}, valid},
		{"fov too wide", Settings{Width: 800, Height: 600, FOV: 180}, valid},
		{"nudge too large", Settings{Width: 800, Height: 600, FOV: 90, SurfaceNudge: 1}, valid},
		{"NaN nudge", Settings{Width: 800, Height: 600, FOV: 90, SurfaceNudge: math.NaN()}, valid},
		{"bad sphere", DefaultSettings(), []geometry.Object{geometry.NewSphere(core.Origin(), -1, white, 0)}},
		{"nil object", DefaultSettings(), []geometry.Object{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.settings, tt.objects)
			if !errors.Is(err, ErrInvalidScene) {
				t.Errorf("Expected ErrInvalidScene, got %v", err)
			}
			if s != nil {
				t.Error("Expected nil scene on error")
			}
		})
	}
}

func TestMergeSettings(t *testing.T) {
	merged := MergeSettings(DefaultSettings(), Settings{Width: 1024, FOV: 60})
	expected := Settings{Width: 1024, Height: 600, FOV: 60, SurfaceNudge: geometry.DefaultSurfaceNudge}
	if merged != expected {
		t.Errorf("Expected %+v, got %+v", expected, merged)
	}
}

func TestScene_CastRay(t *testing.T) {
	s, err := NewBuiltin("single-sphere")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	hit, err := s.CastRay(core.NewRay(core.Origin(), core.NewVec3(0, 0, -1)))
	if err != nil || hit == nil {
		t.Fatalf("Expected hit, got %v, %v", hit, err)
	}
	if math.Abs(hit.Distance-4) > 1e-3 {
		t.Errorf("Expected distance 4, got %f", hit.Distance)
	}

	miss, err := s.CastRay(core.NewRay(core.Origin(), core.NewVec3(0, 0, 1)))
	if err != nil || miss != nil {
		t.Errorf("Expected miss, got %v, %v", miss, err)
	}
}

func TestNewBuiltin(t *testing.T) {
	for _, b := range Builtins() {
		t.Run(b.ID, func(t *testing.T) {
			s, err := NewBuiltin(b.ID, Settings{Width: 320, Height: 240})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if w, h := s.Dimensions(); w != 320 || h != 240 {
				t.Errorf("Expected 320x240, got %dx%d", w, h)
			}
			if s.FieldOfView() != 90 {
				t.Errorf("Expected default fov 90, got %f", s.FieldOfView())
			}
		})
	}

	if _, err := NewBuiltin("nonexistent"); err == nil {
		t.Error("Expected error for unknown scene")
	}

	single, _ := NewBuiltin("single-sphere")
	if len(single.Lights()) != 0 {
		t.Errorf("Expected single-sphere scene to have no lights, got %d", len(single.Lights()))
	}
	twins, _ := NewBuiltin("twin-lights")
	if len(twins.Lights()) != 2 {
		t.Errorf("Expected twin-lights scene to have 2 lights, got %d", len(twins.Lights()))
	}
}
