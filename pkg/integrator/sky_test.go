package integrator

import (
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func TestSkyGradient_Evaluate(t *testing.T) {
	sky := SkyGradient{Top: core.NewVec3(0, 0, 1), Bottom: core.NewVec3(1, 0, 0)}

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"zenith", core.NewVec3(0, 2, 0), core.NewVec3(0, 0, 1)},
		{"nadir", core.NewVec3(0, -1, 0), core.NewVec3(1, 0, 0)},
		{"horizon", core.NewVec3(1, 0, 0), core.NewVec3(0.5, 0, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sky.Evaluate(core.NewRay(core.NewVec3(0, 0, 0), tt.direction))
			if c.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, c)
			}
		})
	}
}
