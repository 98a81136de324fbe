package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-direct-raytracer/pkg/config"
	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/loaders"
	"github.com/df07/go-direct-raytracer/pkg/output"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"github.com/df07/go-direct-raytracer/pkg/scene"
)

// Request limits
const (
	minImageSize = 16
	maxImageSize = 4000
)

// Uploader stores encoded renders
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte) error
}

// Server handles web requests for the raytracer
type Server struct {
	config   config.Config
	uploader Uploader // nil when no bucket is configured
}

// NewServer creates a new web server. uploader may be nil.
func NewServer(cfg config.Config, uploader Uploader) *Server {
	return &Server{config: cfg, uploader: uploader}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string              `json:"scene"`      // Scene ID or file:<name>
	Width      int                 `json:"width"`      // Image width
	Height     int                 `json:"height"`     // Image height
	FOV        float64             `json:"fov"`        // Field of view in degrees; 0 keeps the scene's
	Workers    int                 `json:"workers"`    // Parallel workers; 0 uses all CPUs
	Ambient    float64             `json:"ambient"`    // Ambient factor per light
	LightMatch renderer.LightMatch `json:"lightMatch"` // Shadow ray light identification
	Sky        bool                `json:"sky"`        // Sky color for escaped rays
	Thumbnail  int                 `json:"thumbnail"`  // Scale the result to this width; 0 keeps full size
	Upload     bool                `json:"upload"`     // Also store the PNG in the bucket
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	HitPixels        int     `json:"hitPixels"`
	ShadowRays       int     `json:"shadowRays"`
	LitSamples       int     `json:"litSamples"`
	OccludedSamples  int     `json:"occludedSamples"`
	EscapedSamples   int     `json:"escapedSamples"`
	HitRatio         float64 `json:"hitRatio"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// RenderResult is a finished render ready to send to the client
type RenderResult struct {
	PNG       []byte
	Stats     Stats
	Elapsed   time.Duration
	UploadKey string
}

// errBadRequest marks failures caused by the request rather than the server
var errBadRequest = errors.New("bad request")

// Handler returns the HTTP handler serving every API endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"upload": s.uploader != nil,
	})
}

// handleScenes lists the built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.config.SceneDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleRender renders a scene and responds with the PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	result, err := s.render(r.Context(), req, nil)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(result.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Hit-Pixels", strconv.Itoa(result.Stats.HitPixels))
	w.Header().Set("X-Shadow-Rays", strconv.Itoa(result.Stats.ShadowRays))
	if result.UploadKey != "" {
		w.Header().Set("X-Upload-Key", result.UploadKey)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(result.PNG)
}

// render builds the requested scene, renders it, and optionally uploads the PNG
func (s *Server) render(ctx context.Context, req *RenderRequest, logger core.Logger) (*RenderResult, error) {
	if req.Upload && s.uploader == nil {
		return nil, fmt.Errorf("%w: upload requested but no bucket is configured", errBadRequest)
	}

	sc, err := s.createScene(req.Scene, scene.Settings{Width: req.Width, Height: req.Height, FOV: req.FOV})
	if err != nil {
		return nil, err
	}

	renderConfig := s.config.RenderConfig()
	renderConfig.NumWorkers = req.Workers
	renderConfig.Shading.Ambient = req.Ambient
	renderConfig.Shading.LightMatch = req.LightMatch
	if req.Sky {
		renderConfig.Shading.Background = core.SkyColor()
	}

	raytracer, err := renderer.NewRaytracer(sc, renderConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	startTime := time.Now()
	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	var encoded image.Image = img
	if req.Thumbnail > 0 {
		encoded = output.Thumbnail(img, uint(req.Thumbnail))
	}
	data, err := output.EncodePNG(encoded)
	if err != nil {
		return nil, err
	}

	result := &RenderResult{
		PNG: data,
		Stats: Stats{
			TotalPixels:      stats.TotalPixels,
			HitPixels:        stats.HitPixels,
			ShadowRays:       stats.ShadowRays,
			LitSamples:       stats.LitSamples,
			OccludedSamples:  stats.OccludedSamples,
			EscapedSamples:   stats.EscapedSamples,
			HitRatio:         stats.HitRatio(),
			AverageLuminance: renderer.CalculateAverageLuminance(img),
		},
		Elapsed: time.Since(startTime),
	}

	if req.Upload {
		key := output.RenderKey(req.Scene, startTime)
		if err := s.uploader.Upload(ctx, key, data); err != nil {
			return nil, err
		}
		log.Printf("Uploaded %s (%d bytes)", key, len(data))
		result.UploadKey = key
	}

	return result, nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = s.config.Scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 300, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.FOV, err = parseFloatParam(query, "fov", 0, 0, 179); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", s.config.Workers, 0, 256); err != nil {
		return nil, err
	}
	if req.Ambient, err = parseFloatParam(query, "ambient", s.config.Ambient, 0, 1); err != nil {
		return nil, err
	}
	if req.Thumbnail, err = parseIntParam(query, "thumbnail", 0, 0, maxImageSize); err != nil {
		return nil, err
	}

	req.LightMatch = s.config.LightMatch
	if value := query.Get("lightMatch"); value != "" {
		if req.LightMatch, err = renderer.ParseLightMatch(value); err != nil {
			return nil, err
		}
	}
	if req.Sky, err = parseBoolParam(query, "sky", s.config.Sky); err != nil {
		return nil, err
	}
	if req.Upload, err = parseBoolParam(query, "upload", false); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 1920*1080 {
		log.Printf("Render warning: %dx%d image may render slowly", req.Width, req.Height)
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

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a scene name against the built-in scenes and the scene directory
func (s *Server) createScene(sceneName string, overrides scene.Settings) (*scene.Scene, error) {
	sc, err := loaders.LoadNamedScene(sceneName, s.config.SceneDir, overrides)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return sc, nil
}

// handleSceneConfig returns the settings and contents of a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = s.config.Scene
	}

	sc, err := s.createScene(sceneName, scene.Settings{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings := sc.Settings()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":        settings.Width,
			"height":       settings.Height,
			"fov":          settings.FOV,
			"surfaceNudge": settings.SurfaceNudge,
			"ambient":      s.config.Ambient,
			"lightMatch":   s.config.LightMatch.String(),
		},
		"objects": len(sc.Objects()),
		"lights":  len(sc.Lights()),
		"limits": map[string]interface{}{
			"width":  map[string]int{"min": minImageSize, "max": maxImageSize},
			"height": map[string]int{"min": minImageSize, "max": maxImageSize},
			"fov":    map[string]float64{"min": 0, "max": 179},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// statusFor maps a render error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
