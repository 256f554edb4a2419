package material

import (
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func TestNewHitRecord_FaceOrientation(t *testing.T) {
	outward := core.NewVec3(0, 1, 0)
	tests := []struct {
		name           string
		direction      core.Vec3
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{"Ray against normal", core.NewVec3(0, -1, 0), true, core.NewVec3(0, 1, 0)},
		{"Ray along normal", core.NewVec3(0, 1, 0), false, core.NewVec3(0, -1, 0)},
		{"Oblique from outside", core.NewVec3(1, -1, 0), true, core.NewVec3(0, 1, 0)},
		{"Tangent counts as back face", core.NewVec3(1, 0, 0), false, core.NewVec3(0, -1, 0)},
	}

	mat := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 1, 0), tt.direction)
			rec := NewHitRecord(2.0, core.NewVec3(0, 0, 0), ray, outward, mat)

			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected FrontFace=%v, got %v", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal != tt.expectedNormal {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, rec.Normal)
			}
			if rec.T != 2.0 || rec.Material != mat {
				t.Errorf("Hit record fields not preserved: %+v", rec)
			}
		})
	}
}
