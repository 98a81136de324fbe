package core

import (
	"image/color"
	"math"
)

// Gamma is the exponent used between linear light and stored 8-bit values
const Gamma = 2.2

// Color is a linear RGB value. Channels are unbounded while light is being
// accumulated and are clamped only when converted to an 8-bit color.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Black returns the zero color
func Black() Color {
	return Color{}
}

// SkyColor returns the dim blue used as an optional background for rays that
// leave the scene
func SkyColor() Color {
	return Color{R: 0.01, G: 0.05, B: 0.1}
}

// Add returns the component-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply scales every channel by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// MultiplyColor returns the component-wise product of two colors
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Divide divides every channel by a scalar
func (c Color) Divide(scalar float64) Color {
	return Color{c.R / scalar, c.G / scalar, c.B / scalar}
}

// Clamp returns the color with every channel limited to [0, 1]
func (c Color) Clamp() Color {
	return Color{
		R: max(0.0, min(1.0, c.R)),
		G: max(0.0, min(1.0, c.G)),
		B: max(0.0, min(1.0, c.B)),
	}
}

// IsBlack reports whether every channel is exactly zero
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Luminance returns the perceptual luminance of the color
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// GammaEncode maps a linear value in [0, 1] to display space
func GammaEncode(linear float64) float64 {
	return math.Pow(linear, 1.0/Gamma)
}

// GammaDecode maps a display-space value in [0, 1] to linear light
func GammaDecode(encoded float64) float64 {
	return math.Pow(encoded, Gamma)
}

// ToRGBA clamps, gamma encodes and packs the color into an opaque 8-bit RGBA value
func (c Color) ToRGBA() color.RGBA {
	clamped := c.Clamp()
	return color.RGBA{
		R: uint8(GammaEncode(clamped.R) * 255),
		G: uint8(GammaEncode(clamped.G) * 255),
		B: uint8(GammaEncode(clamped.B) * 255),
		A: 255,
	}
}

// ColorFromRGBA decodes an 8-bit display color into linear light. Alpha is ignored.
func ColorFromRGBA(rgba color.RGBA) Color {
	return Color{
		R: GammaDecode(float64(rgba.R) / 255),
		G: GammaDecode(float64(rgba.G) / 255),
		B: GammaDecode(float64(rgba.B) / 255),
	}
}

// ColorFromImageColor decodes any image/color value into linear light
func ColorFromImageColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{
		R: GammaDecode(float64(r) / 65535),
		G: GammaDecode(float64(g) / 65535),
		B: GammaDecode(float64(b) / 65535),
	}
}
