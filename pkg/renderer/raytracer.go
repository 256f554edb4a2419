package renderer

import (
	"image"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
)

// Raytracer samples pixels of one image. It holds no mutable state, so workers may share
// the camera and world it references.
type Raytracer struct {
	camera     *geometry.Camera
	world      geometry.Hittable
	integrator integrator.Integrator
}

// NewRaytracer creates a new raytracer
func NewRaytracer(camera *geometry.Camera, world geometry.Hittable, integratorInst integrator.Integrator) *Raytracer {
	return &Raytracer{
		camera:     camera,
		world:      world,
		integrator: integratorInst,
	}
}

// SamplePixel traces one jittered primary ray through pixel (i, j)
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	ray := rt.camera.GetRay(i, j, sampler)
	return rt.integrator.RayColor(ray, rt.world, sampler)
}

// RenderBounds raises every pixel within bounds to targetSamples total samples.
// pixelStats is indexed [y][x] in global image coordinates.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			initialSampleCount := ps.SampleCount
			for ps.SampleCount < targetSamples {
				ps.AddSample(rt.SamplePixel(i, j, sampler))
			}
			stats.update(ps.SampleCount - initialSampleCount)
		}
	}

	stats.finalize()
	return stats
}
