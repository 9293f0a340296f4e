package server

import (
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
	"github.com/rmellor/go-whitted-raytracer/pkg/renderer"
	"github.com/rmellor/go-whitted-raytracer/pkg/scene"
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a new web server serving static assets from staticDir
func NewServer(port int, staticDir string) *Server {
	return &Server{port: port, staticDir: staticDir}
}

// RenderRequest represents a render request from the client. Zero values
// defer to the scene's own configuration.
type RenderRequest struct {
	Scene       string `json:"scene"`       // Scene ID (e.g., "default")
	Width       int    `json:"width"`       // Image width in pixels
	Height      int    `json:"height"`      // Image height in pixels
	MaxDepth    int    `json:"maxDepth"`    // Recursion cap
	Supersample int    `json:"supersample"` // Samples per pixel side
	Workers     int    `json:"workers"`     // Parallel column workers
}

// Handler builds the route table served by Start
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/probe", s.handleProbe)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists every scene the server can render, grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleRender renders the requested scene and responds with the PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	world, err := s.buildWorld(req)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The request context cancels the render when the client disconnects
	frameRenderer := renderer.NewRenderer(world, renderer.Config{Workers: req.Workers}, nil)
	img, stats, err := frameRenderer.Render(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return // Client is gone, nothing left to answer
		}
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.RenderTime.Milliseconds(), 10))
	w.Header().Set("X-Render-Rays", strconv.FormatInt(stats.TotalRays(), 10))
	w.WriteHeader(http.StatusOK)
	if err := png.Encode(w, img); err != nil {
		log.Printf("Error encoding render for %q: %v", req.Scene, err)
	}
}

// parseRenderRequest parses request parameters. Absent parameters stay
// zero and defer to the scene's defaults.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}

	if sceneID := r.URL.Query().Get("scene"); sceneID != "" {
		req.Scene = sceneID
	} else {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(r.URL.Query(), "width", 0, 100, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(r.URL.Query(), "height", 0, 100, 2000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(r.URL.Query(), "maxDepth", 0, 1, 64); err != nil {
		return nil, err
	}
	if req.Supersample, err = parseIntParam(r.URL.Query(), "supersample", 0, 1, 8); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(r.URL.Query(), "workers", 0, 1, 128); err != nil {
		return nil, err
	}

	return req, nil
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

// buildWorld creates the requested scene and applies the request overrides
func (s *Server) buildWorld(req *RenderRequest) (*scene.World, error) {
	world, err := scene.CreateScene(req.Scene)
	if err != nil {
		return nil, err
	}

	override := geometry.CameraConfig{Width: req.Width}
	if req.Height > 0 {
		width := req.Width
		if width == 0 {
			width = world.Width()
		}
		override.AspectRatio = float64(width) / float64(req.Height)
	}
	world.ApplyCameraOverrides(override)

	if req.MaxDepth > 0 {
		world.RenderConfig.MaxDepth = req.MaxDepth
	}
	if req.Supersample > 0 {
		world.RenderConfig.Supersample = req.Supersample
	}

	return world, nil
}

// writeJSONError responds with a JSON error body and the given status
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
