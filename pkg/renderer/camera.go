package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// ErrAspectRatio is returned for images that are not wider than they are tall
var ErrAspectRatio = errors.New("image width must exceed height")

// Camera generates primary rays. It sits at the world origin looking down -Z
// with +X to the right and +Y up; only the field of view is configurable.
type Camera struct {
	width         int
	height        int
	aspectRatio   float64
	fovAdjustment float64 // tan(fov/2)
}

// NewCamera creates a camera for an image of the given size and horizontal
// field of view in degrees
func NewCamera(width, height int, fov float64) (*Camera, error) {
	if height <= 0 || width <= height {
		return nil, fmt.Errorf("%w: got %dx%d", ErrAspectRatio, width, height)
	}

	return &Camera{
		width:         width,
		height:        height,
		aspectRatio:   float64(width) / float64(height),
		fovAdjustment: math.Tan(fov * math.Pi / 180 / 2),
	}, nil
}

// GetRay returns the ray through the center of pixel (x, y). Row 0 is the top
// of the image.
func (c *Camera) GetRay(x, y int) core.Ray {
	// Map the pixel center onto a 2x2 sensor one unit in front of the camera
	sensorX := ((float64(x)+0.5)/float64(c.width)*2 - 1) * c.aspectRatio * c.fovAdjustment
	sensorY := (1 - (float64(y)+0.5)/float64(c.height)*2) * c.fovAdjustment

	return core.NewRay(core.Origin(), core.NewVec3(sensorX, sensorY, -1))
}
