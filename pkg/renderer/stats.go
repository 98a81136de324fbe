package renderer

import (
	"image"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	HitPixels       int           // Pixels whose camera ray hit a surface
	ShadowRays      int           // Shadow rays cast toward lights
	LitSamples      int           // Shadow rays that reached their light
	OccludedSamples int           // Shadow rays blocked by other geometry
	EscapedSamples  int           // Shadow rays that hit nothing
	Duration        time.Duration // Wall-clock render time
}

// Merge adds the counters of other into the stats. Duration is not summed.
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.ShadowRays += other.ShadowRays
	s.LitSamples += other.LitSamples
	s.OccludedSamples += other.OccludedSamples
	s.EscapedSamples += other.EscapedSamples
}

// HitRatio returns the fraction of pixels whose camera ray hit a surface
func (s RenderStats) HitRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}

// CalculateAverageLuminance returns the mean linear luminance of an image,
// decoding each pixel from display space first
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			total += core.ColorFromImageColor(img.At(x, y)).Luminance()
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
