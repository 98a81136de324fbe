package loaders

import (
	"fmt"
	"image"
	"math"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/disintegration/imaging"
)

// ImageData contains a decoded image as linear light colors
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major
}

// LoadImage loads any image format imaging can decode and converts it from
// display space to linear light
func LoadImage(filename string) (*ImageData, error) {
	img, err := imaging.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return FromImage(img), nil
}

// FromImage converts an in-memory image to linear light colors
func FromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.ColorFromImageColor(img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// MeanDifference returns the mean absolute per-channel difference between two
// images of the same size, in linear light
func MeanDifference(a, b *ImageData) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return 0, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	if len(a.Pixels) == 0 {
		return 0, nil
	}

	total := 0.0
	for i, pa := range a.Pixels {
		pb := b.Pixels[i]
		total += math.Abs(pa.R-pb.R) + math.Abs(pa.G-pb.G) + math.Abs(pa.B-pb.B)
	}
	return total / float64(3*len(a.Pixels)), nil
}
