package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	sceneName := fs.String("scene", "", "Scene: "+strings.Join(scene.Names(), ", ")+", or a path to a .json scene file (default \"default\")")
	configPath := fs.String("config", "", "Path to a JSON config file")
	width := fs.Int("width", 0, "Image width in pixels (0 = scene default)")
	samples := fs.Int("samples", 0, "Samples per pixel (0 = scene default)")
	depth := fs.Int("depth", 0, "Maximum bounce depth (0 = scene default)")
	seed := fs.Int64("seed", 0, "Random seed (0 = scene default)")
	passes := fs.Int("passes", 0, "Number of progressive passes (default 1)")
	workers := fs.Int("workers", 0, "Number of parallel workers (0 = CPU count)")
	out := fs.String("out", "", "Output file; '-' writes PPM to stdout")
	outDir := fs.String("outdir", "", "Directory for timestamped renders when -out is not given (default \"output\")")
	format := fs.String("format", "", "Output format: ppm, png, webp or tga (default png)")
	resize := fs.Int("resize", 0, "Scale the saved image to this width (0 = rendered size)")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *help {
		printHelp(stdout, fs)
		return 0
	}

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	cfg.Resolve(config.Flags{
		Scene:     *sceneName,
		Width:     *width,
		Samples:   *samples,
		Depth:     *depth,
		Seed:      *seed,
		Passes:    *passes,
		Workers:   *workers,
		OutputDir: *outDir,
		Format:    *format,
		Resize:    *resize,
	})

	toStdout := *out == "-"
	logOut := stdout
	if toStdout {
		logOut = stderr
	}
	logger := core.NewDefaultLogger(logOut)

	outFormat, err := resolveFormat(cfg.Format, *out)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	sc, err := createScene(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.Printf("Rendering scene %q...\n", sc.Name)

	pr := renderer.NewProgressiveRaytracer(sc, renderer.ProgressiveConfig{
		TileSize:       cfg.TileSize,
		InitialSamples: 1,
		MaxPasses:      cfg.Passes,
		NumWorkers:     cfg.Workers,
	}, logger)

	frame, stats, err := pr.Render(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: render: %v\n", err)
		return 1
	}

	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	if toStdout {
		if err := output.WritePPM(stdout, frame); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	filename := *out
	if filename == "" {
		filename = createOutputPath(cfg.OutputDir, cfg.Scene, outFormat, time.Now())
	}
	if err := output.Save(filename, frame, outFormat, cfg.Resize); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.Printf("Render saved as %s\n", filename)
	return 0
}

// createScene builds the configured scene with the width, sampling and seed overrides applied
func createScene(cfg config.Config) (*scene.Scene, error) {
	sc, err := scene.Create(cfg.Scene, geometry.CameraConfig{Width: cfg.Width})
	if err != nil {
		return nil, err
	}
	sc.ApplyOverrides(geometry.CameraConfig{}, scene.SamplingConfig{
		SamplesPerPixel: cfg.Samples,
		MaxDepth:        cfg.Depth,
		Seed:            cfg.Seed,
	})
	return sc, nil
}

// resolveFormat picks the output format. Writing to stdout is always PPM;
// an explicit output file with a known extension wins over the configured format.
func resolveFormat(configured, out string) (output.Format, error) {
	if out == "-" {
		return output.FormatPPM, nil
	}

	format, err := output.ParseFormat(configured)
	if err != nil {
		return "", err
	}
	if out != "" {
		if fromPath, err := output.FormatFromPath(out); err == nil {
			return fromPath, nil
		}
	}
	return format, nil
}

// createOutputPath returns <dir>/<scene>/render_<timestamp>.<ext>.
// Scene files contribute their base name without extension.
func createOutputPath(dir, sceneName string, format output.Format, now time.Time) string {
	base := sceneName
	if strings.HasSuffix(strings.ToLower(base), ".json") {
		base = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join(dir, base, "render_"+timestamp+format.Extension())
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Sphere Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, name := range scene.Names() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output is saved to <outdir>/<scene>/render_<timestamp>.<format> unless -out is given.")
	fmt.Fprintln(w, "Use -out - to write a PPM image to stdout.")
}
