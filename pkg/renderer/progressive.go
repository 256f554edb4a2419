package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// ErrRenderFinished is returned when a pass is requested after rendering completed
var ErrRenderFinished = errors.New("render already finished")

// RenderState is the lifecycle stage of a ProgressiveRaytracer
type RenderState int

const (
	StateInitialized RenderState = iota // Camera and tiles built, nothing sampled
	StateRendering                      // At least one pass started
	StateDone                           // Final pass complete or renderer closed
)

func (s RenderState) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("RenderState(%d)", int(s))
	}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize       int // Size of each tile
	InitialSamples int // Samples for first pass (1 recommended)
	MaxPasses      int // Maximum number of passes
	NumWorkers     int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:       32,
		InitialSamples: 1,
		MaxPasses:      1,
		NumWorkers:     0, // Auto-detect CPU count
	}
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	camera        *geometry.Camera
	width, height int
	maxSamples    int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	state         atomic.Int32   // RenderState; State may be called from any goroutine
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	raytracer     *Raytracer     // Shared by every worker
	workerPool    *WorkerPool    // Worker pool for parallel processing
	logger        core.Logger    // Logger for rendering output
}

// NewProgressiveRaytracer creates a new progressive raytracer for a scene
func NewProgressiveRaytracer(sc *scene.Scene, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if config.MaxPasses < 1 {
		config.MaxPasses = 1
	}
	if config.InitialSamples < 1 {
		config.InitialSamples = 1
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	camera := geometry.NewCamera(sc.CameraConfig)
	width, height := camera.ImageWidth(), camera.ImageHeight()

	pathTracer := integrator.NewPathTracingIntegrator(sc.SamplingConfig.MaxDepth, sc.Sky)
	raytracer := NewRaytracer(camera, sc.World, pathTracer)

	tiles := NewTileGrid(width, height, config.TileSize, sc.SamplingConfig.Seed)

	pr := &ProgressiveRaytracer{
		scene:       sc,
		camera:      camera,
		width:       width,
		height:      height,
		maxSamples:  max(sc.SamplingConfig.SamplesPerPixel, 1),
		config:      config,
		tiles:       tiles,
		currentPass: 0,
		pixelStats:  newPixelStatsGrid(width, height),
		raytracer:   raytracer,
		workerPool:  NewWorkerPool(raytracer, len(tiles), config.NumWorkers),
		logger:      logger,
	}
	pr.setState(StateInitialized)
	return pr
}

// Width returns the image width in pixels
func (pr *ProgressiveRaytracer) Width() int {
	return pr.width
}

// Height returns the image height in pixels
func (pr *ProgressiveRaytracer) Height() int {
	return pr.height
}

// Camera returns the camera rays are generated from
func (pr *ProgressiveRaytracer) Camera() *geometry.Camera {
	return pr.camera
}

// State returns the current lifecycle stage
func (pr *ProgressiveRaytracer) State() RenderState {
	return RenderState(pr.state.Load())
}

func (pr *ProgressiveRaytracer) setState(state RenderState) {
	pr.state.Store(int32(state))
}

// MaxPasses returns the number of passes a full render runs
func (pr *ProgressiveRaytracer) MaxPasses() int {
	return pr.config.MaxPasses
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 || passNumber >= pr.config.MaxPasses {
		return pr.maxSamples
	}

	initialSamples := min(pr.config.InitialSamples, pr.maxSamples)

	// First pass is a quick preview
	if passNumber == 1 {
		return initialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.maxSamples - initialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return initialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*Frame, RenderStats, error) {
	if pr.State() == StateDone {
		return nil, RenderStats{}, ErrRenderFinished
	}
	pr.setState(StateRendering)
	pr.currentPass = passNumber

	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	pr.workerPool.Start()

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
	}

	// Wait for all tiles and dispatch callbacks from this goroutine only
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileSize := max(pr.config.TileSize, 1)
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / tileSize,
				TileY:      tile.Bounds.Min.Y / tileSize,
				Bounds:     tile.Bounds,
				TileImage:  frameFromStats(pr.pixelStats, tile.Bounds).Image(),
				PassNumber: passNumber,

				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	frame, stats := pr.assembleCurrentFrame(targetSamples)

	if passNumber >= pr.config.MaxPasses {
		pr.Close()
	}

	return frame, stats, nil
}

// Close stops the workers. Further passes return ErrRenderFinished.
func (pr *ProgressiveRaytracer) Close() {
	pr.setState(StateDone)
	pr.workerPool.Stop()
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *Frame
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	Bounds     image.Rectangle // Pixel bounds of the tile
	TileImage  *image.RGBA     // Image data for just this tile
	PassNumber int             // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders with channel-based communication.
// The caller should drain the returned channels until they close.
// If options.TileUpdates is false, the tile channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.Close()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full; tile previews are best effort
					}
				}
			}

			frame, stats, err := pr.RenderPass(pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (%d samples/pixel)\n",
				pass, time.Since(startTime), stats.MaxSamples)

			result := PassResult{
				PassNumber: pass,
				Frame:      frame,
				Image:      frame.Image(),
				Stats:      stats,
				IsLast:     pass == pr.config.MaxPasses,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// Render runs every pass and returns the final frame
func (pr *ProgressiveRaytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	defer pr.Close()

	startTime := time.Now()
	var frame *Frame
	var stats RenderStats
	for pass := 1; pass <= pr.config.MaxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
			return nil, RenderStats{}, err
		}

		var err error
		frame, stats, err = pr.RenderPass(pass, nil)
		if err != nil {
			return nil, RenderStats{}, err
		}
	}

	pr.logger.Printf("Rendered %dx%d with %d samples/pixel in %v\n",
		pr.width, pr.height, stats.MaxSamples, time.Since(startTime))

	return frame, stats, nil
}

// assembleCurrentFrame averages the shared pixel stats and calculates render statistics
func (pr *ProgressiveRaytracer) assembleCurrentFrame(targetSamples int) (*Frame, RenderStats) {
	stats := newRenderStats(pr.width*pr.height, targetSamples)
	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			stats.update(pr.pixelStats[y][x].SampleCount)
		}
	}
	stats.finalize()

	return frameFromStats(pr.pixelStats, image.Rect(0, 0, pr.width, pr.height)), stats
}
