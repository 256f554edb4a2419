package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Description    string
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig
	World          *geometry.HittableList // Objects in the scene
	Sky            integrator.SkyGradient // Background seen by escaping rays
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Base seed for every sampler of a render
}

// DefaultSamplingConfig returns the sampling defaults
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 10,
		MaxDepth:        10,
	}
}

// New creates an empty scene with default camera, sampling and sky
func New(name string) *Scene {
	return &Scene{
		Name:           name,
		CameraConfig:   geometry.DefaultCameraConfig(),
		SamplingConfig: DefaultSamplingConfig(),
		World:          geometry.NewHittableList(),
		Sky:            integrator.DefaultSky(),
	}
}

// AddSphere adds a sphere to the world and returns it
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, mat)
	s.World.Add(sphere)
	return sphere
}

// Spheres returns the spheres of the world in insertion order
func (s *Scene) Spheres() []*geometry.Sphere {
	var spheres []*geometry.Sphere
	for _, obj := range s.World.Objects() {
		if sphere, ok := obj.(*geometry.Sphere); ok {
			spheres = append(spheres, sphere)
		}
	}
	return spheres
}

// ApplyOverrides merges camera overrides and non-zero sampling overrides into the scene
func (s *Scene) ApplyOverrides(camera geometry.CameraConfig, sampling SamplingConfig) {
	s.CameraConfig = geometry.MergeCameraConfig(s.CameraConfig, camera)
	if sampling.SamplesPerPixel > 0 {
		s.SamplingConfig.SamplesPerPixel = sampling.SamplesPerPixel
	}
	if sampling.MaxDepth > 0 {
		s.SamplingConfig.MaxDepth = sampling.MaxDepth
	}
	if sampling.Seed != 0 {
		s.SamplingConfig.Seed = sampling.Seed
	}
}

// NewEmptyScene creates a scene with no objects, lit only by the sky
func NewEmptyScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	s := New("empty")
	s.Description = "Nothing but sky"
	if len(cameraOverrides) > 0 {
		s.CameraConfig = geometry.MergeCameraConfig(s.CameraConfig, cameraOverrides[0])
	}
	return s
}
