package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// absorber swallows every ray
type absorber struct{}

func (absorber) Scatter(rayIn core.Ray, hit *material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

// upMirror sends every ray straight up with a fixed attenuation
type upMirror struct {
	attenuation core.Vec3
}

func (m upMirror) Scatter(rayIn core.Ray, hit *material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{
		Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
		Attenuation: m.attenuation,
	}, true
}

// createGroundWorld creates a huge sphere whose top touches y = 0
func createGroundWorld(mat material.Material) *geometry.HittableList {
	return geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, mat))
}

func TestPathTracingDepthTermination(t *testing.T) {
	world := createGroundWorld(material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	// Depth 0 gathers nothing, even for a ray that would see the sky
	integrator := NewPathTracingIntegrator(0, DefaultSky())
	if c := integrator.RayColor(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)), world, sampler); c != (core.Vec3{}) {
		t.Errorf("Expected black color for depth 0, got %v", c)
	}

	// Depth 1 runs out of bounces right after the first hit
	integrator = NewPathTracingIntegrator(1, DefaultSky())
	if c := integrator.RayColor(ray, world, sampler); c != (core.Vec3{}) {
		t.Errorf("Expected black color for depth 1 hit, got %v", c)
	}

	// Depth 2 reaches the sky after one bounce
	integrator = NewPathTracingIntegrator(2, DefaultSky())
	if c := integrator.RayColor(ray, world, sampler); c.X <= 0 || c.Y <= 0 || c.Z <= 0 {
		t.Errorf("Expected positive color for depth 2, got %v", c)
	}
}

func TestPathTracingMissReturnsSky(t *testing.T) {
	integrator := NewPathTracingIntegrator(10, DefaultSky())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	world := geometry.NewHittableList()

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -5, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(3, 0, -4), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := integrator.RayColor(core.NewRay(core.NewVec3(0, 0, 0), tt.direction), world, sampler)
			if c.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected sky %v, got %v", tt.expected, c)
			}
		})
	}
}

func TestPathTracingAbsorptionIsBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator(10, DefaultSky())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	world := createGroundWorld(absorber{})

	c := integrator.RayColor(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), world, sampler)
	if c != (core.Vec3{}) {
		t.Errorf("Expected black for absorbed ray, got %v", c)
	}
}

func TestPathTracingAttenuationMultiplies(t *testing.T) {
	integrator := NewPathTracingIntegrator(10, DefaultSky())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	world := createGroundWorld(upMirror{attenuation: core.NewVec3(0.5, 0.25, 1.0)})

	c := integrator.RayColor(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), world, sampler)
	expected := core.NewVec3(0.25, 0.175, 1.0)
	if c.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, c)
	}
}

func TestPathTracingSelfIntersectionAvoided(t *testing.T) {
	integrator := NewPathTracingIntegrator(10, DefaultSky())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	world := createGroundWorld(absorber{})

	// A ray leaving the surface within the epsilon does not re-hit it
	c := integrator.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), world, sampler)
	if c != core.NewVec3(0.5, 0.7, 1.0) {
		t.Errorf("Expected sky above the ground, got %v", c)
	}
}

func TestPathTracingWhiteGroundConverges(t *testing.T) {
	// A cosine-weighted bounce sees E[y] = 2/3, so the sky blend factor averages 5/6
	expected := core.NewVec3(7.0/12.0, 0.75, 1.0)
	world := createGroundWorld(material.NewLambertian(core.NewVec3(1, 1, 1)))
	integrator := NewPathTracingIntegrator(50, DefaultSky())
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	for _, n := range []int{1000, 16000} {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
		var sum core.Vec3
		for i := 0; i < n; i++ {
			sum = sum.Add(integrator.RayColor(ray, world, sampler))
		}
		mean := sum.Divide(float64(n))

		tolerance := 4 * 0.25 / math.Sqrt(float64(n))
		if math.Abs(mean.X-expected.X) > tolerance ||
			math.Abs(mean.Y-expected.Y) > tolerance ||
			math.Abs(mean.Z-expected.Z) > tolerance {
			t.Errorf("N=%d: expected %v within %f, got %v", n, expected, tolerance, mean)
		}
	}
}
