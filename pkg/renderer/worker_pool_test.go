package renderer

import (
	"image"
	"testing"
)

func TestWorkerPool_OneResultPerTask(t *testing.T) {
	rt := createTestRaytracer(8)
	tiles := NewTileGrid(8, 8, 4, 3)

	tests := []struct {
		name    string
		workers int
	}{
		{"single worker", 1},
		{"more workers than tiles", 6},
		{"auto-detect", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pixelStats := newPixelStatsGrid(8, 8)
			pool := NewWorkerPool(rt, len(tiles), tt.workers)
			if tt.workers > 0 && pool.GetNumWorkers() != tt.workers {
				t.Errorf("Expected %d workers, got %d", tt.workers, pool.GetNumWorkers())
			}
			if pool.GetNumWorkers() <= 0 {
				t.Fatalf("Pool must have at least one worker, got %d", pool.GetNumWorkers())
			}

			pool.Start()
			for i, tile := range tiles {
				pool.SubmitTask(TileTask{Tile: tile, PassNumber: 1, TargetSamples: 2, TaskID: i, PixelStats: pixelStats})
			}

			seen := make(map[int]bool)
			for range tiles {
				result, ok := pool.GetResult()
				if !ok {
					t.Fatal("Result queue closed early")
				}
				if seen[result.TaskID] {
					t.Errorf("Duplicate result for task %d", result.TaskID)
				}
				seen[result.TaskID] = true

				bounds := tiles[result.TaskID].Bounds
				if result.Stats.TotalPixels != bounds.Dx()*bounds.Dy() || result.Stats.TotalSamples != 2*bounds.Dx()*bounds.Dy() {
					t.Errorf("Task %d: unexpected stats %+v", result.TaskID, result.Stats)
				}
			}
			pool.Stop()
			pool.Stop() // second Stop is a no-op

			if _, ok := pool.GetResult(); ok {
				t.Error("Result queue should be closed after Stop")
			}
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					if pixelStats[y][x].SampleCount != 2 {
						t.Fatalf("Pixel %v has %d samples", image.Pt(x, y), pixelStats[y][x].SampleCount)
					}
				}
			}
		})
	}
}
