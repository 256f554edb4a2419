package integrator

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// SkyGradient is the background seen by rays that escape the scene.
// It blends vertically from Bottom (looking straight down) to Top (looking straight up).
type SkyGradient struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// DefaultSky returns the white-to-blue sky
func DefaultSky() SkyGradient {
	return SkyGradient{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Evaluate returns the sky color for a ray direction
func (s SkyGradient) Evaluate(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	return s.Bottom.Multiply(1.0 - a).Add(s.Top.Multiply(a))
}
