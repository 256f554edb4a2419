package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func TestFrame_RowMajor(t *testing.T) {
	frame := NewFrame(3, 2)
	frame.Set(2, 1, core.NewVec3(1, 1, 1))

	if frame.Pixels[5] != core.NewVec3(1, 1, 1) {
		t.Errorf("Pixel (2,1) should be stored at index 5")
	}
	if frame.At(2, 1) != core.NewVec3(1, 1, 1) || frame.At(0, 0) != (core.Vec3{}) {
		t.Errorf("At() does not match Set()")
	}
}

func TestFrame_Image(t *testing.T) {
	frame := NewFrame(2, 1)
	frame.Set(0, 0, core.NewVec3(0.25, 0, 1))

	img := frame.Image()
	if img.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != ToRGBA(core.NewVec3(0.25, 0, 1)) {
		t.Errorf("Pixel (0,0) = %v", got)
	}
	if got := img.RGBAAt(1, 0); got.R != 0 || got.A != 255 {
		t.Errorf("Black pixel should be opaque black, got %v", got)
	}
}

func TestFrameFromStats(t *testing.T) {
	stats := newPixelStatsGrid(4, 4)
	stats[2][3].AddSample(core.NewVec3(0.2, 0.4, 0.6))

	frame := frameFromStats(stats, image.Rect(2, 1, 4, 3))
	if frame.Width != 2 || frame.Height != 2 {
		t.Fatalf("Unexpected frame size %dx%d", frame.Width, frame.Height)
	}
	if frame.At(1, 1) != core.NewVec3(0.2, 0.4, 0.6) {
		t.Errorf("Expected tile-relative pixel (1,1) to carry the sample, got %v", frame.At(1, 1))
	}
}
