package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

const (
	DefaultTileSize = 32
	DefaultWidth    = 400
	MaxWidth        = 2000
	MaxResize       = 4000
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	staticDir string
	mux       *http.ServeMux
}

// NewServer creates a new web server serving static files from staticDir
func NewServer(port int, staticDir string) *Server {
	s := &Server{port: port, staticDir: staticDir}
	s.mux = s.routes()
	return s
}

// RenderRequest represents the scene and sampling parameters of a request
type RenderRequest struct {
	Scene      string // Built-in scene ID or discovered scene file
	Width      int    // Image width; height follows the scene's aspect ratio
	MaxSamples int    // Samples per pixel after the last pass
	MaxPasses  int    // Number of progressive passes
	MaxDepth   int    // Bounce limit, 0 keeps the scene's value
	Seed       int64  // Sampler seed, 0 keeps the scene's value
	Resize     int    // Width of streamed or returned images, 0 = rendered size
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Handler returns the HTTP handler with every route registered
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	scenes, err := scene.ListAllScenes()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// parseCommonSceneParams parses the parameters shared by every scene endpoint
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", DefaultWidth, 1, MaxWidth); err != nil {
		return err
	}
	return nil
}

// parseSamplingParams parses sampling and output size parameters
func (s *Server) parseSamplingParams(r *http.Request, req *RenderRequest, defaultPasses int) error {
	query := r.URL.Query()

	var err error
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 50, 1, 10000); err != nil {
		return err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", defaultPasses, 1, 10000); err != nil {
		return err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, 0, 1000); err != nil {
		return err
	}
	if req.Seed, err = parseInt64Param(query, "seed", 0); err != nil {
		return err
	}
	if req.Resize, err = parseIntParam(query, "resize", 0, 0, MaxResize); err != nil {
		return err
	}

	if req.Width > 800 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses an unbounded 64-bit integer parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene with the request's overrides applied.
// Only built-in scenes and files found by scene discovery are accepted.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	if !isKnownScene(req.Scene) {
		return nil, fmt.Errorf("unknown scene: %s", req.Scene)
	}

	sc, err := scene.Create(req.Scene, geometry.CameraConfig{Width: req.Width})
	if err != nil {
		return nil, err
	}
	sc.ApplyOverrides(geometry.CameraConfig{}, scene.SamplingConfig{
		SamplesPerPixel: req.MaxSamples,
		MaxDepth:        req.MaxDepth,
		Seed:            req.Seed,
	})
	return sc, nil
}

func isKnownScene(name string) bool {
	if slices.Contains(scene.Names(), name) {
		return true
	}

	files, err := scene.ListJSONScenes()
	if err != nil {
		return false
	}
	for _, info := range files {
		if info.ID == name {
			return true
		}
	}
	return false
}

// imageToBase64PNG converts an image to base64-encoded PNG, scaled to width when width > 0
func (s *Server) imageToBase64PNG(img image.Image, width int) (string, error) {
	if width > 0 && width != img.Bounds().Dx() {
		img = output.Resize(img, width)
	}

	var buf bytes.Buffer
	if err := output.EncodeImage(&buf, img, output.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
