package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// LinearToGamma applies the gamma-2 transfer curve. Non-positive values map to 0.
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// intensity clamps gamma-space values just below 1 so 256·x never reaches 256
var intensity = core.NewInterval(0.000, 0.999)

// QuantizeComponent converts a linear color component to a byte value in [0, 255]
func QuantizeComponent(linear float64) int {
	return int(256 * intensity.Clamp(LinearToGamma(linear)))
}

// Quantize converts a linear color to gamma-corrected byte components
func Quantize(c core.Vec3) (r, g, b int) {
	return QuantizeComponent(c.X), QuantizeComponent(c.Y), QuantizeComponent(c.Z)
}

// ToRGBA converts a linear color to an opaque RGBA value
func ToRGBA(c core.Vec3) color.RGBA {
	r, g, b := Quantize(c)
	return color.RGBA{
		R: uint8(r),
		G: uint8(g),
		B: uint8(b),
		A: 255,
	}
}
