package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/rmellor/go-whitted-raytracer/pkg/renderer"
)

// ProgressUpdate reports column completion during a streamed render
type ProgressUpdate struct {
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// RenderStatsUpdate mirrors renderer.RenderStats for the client
type RenderStatsUpdate struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Workers       int     `json:"workers"`
	RenderTimeMs  int64   `json:"renderTimeMs"`
	PrimaryRays   int64   `json:"primaryRays"`
	SecondaryRays int64   `json:"secondaryRays"`
	ShadowRays    int64   `json:"shadowRays"`
	TotalRays     int64   `json:"totalRays"`
	MeanLuminance float64 `json:"meanLuminance"`
}

// CompleteUpdate carries the finished frame and its statistics
type CompleteUpdate struct {
	ImageData string            `json:"imageData"` // Base64 encoded PNG
	Stats     RenderStatsUpdate `json:"stats"`
	ElapsedMs int64             `json:"elapsedMs"`
}

// handleRenderStream renders with progress streamed via SSE. It emits
// "console" events for log lines, "progress" events as columns finish,
// one "complete" event with the base64 PNG, and "error" on failure.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	world, err := s.buildWorld(req)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewWebLogger(consoleChan)

	ctx := r.Context()
	startTime := time.Now()

	frameRenderer := renderer.NewRenderer(world, renderer.Config{Workers: req.Workers}, logger)
	frames, progress, errs := frameRenderer.RenderProgressive(ctx)

	// All SSE writes happen on this goroutine; the channels are only
	// multiplexed here, never written concurrently.
	for frames != nil || progress != nil || errs != nil {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)

		case p, ok := <-progress:
			if !ok {
				progress = nil
				continue
			}
			s.sendSSEJSON(w, "progress", ProgressUpdate{
				Done:    p.Done,
				Total:   p.Total,
				Percent: 100 * float64(p.Done) / float64(p.Total),
			})

		case result, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			imageData, err := imageToBase64PNG(result.Image)
			if err != nil {
				s.sendSSEError(w, fmt.Sprintf("Failed to encode image: %v", err))
				return
			}
			s.sendSSEJSON(w, "complete", CompleteUpdate{
				ImageData: imageData,
				Stats:     statsUpdate(result.Stats),
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
				return
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}

	// Flush log lines that raced with the completion event
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		default:
			return
		}
	}
}

// statsUpdate converts render statistics to their client representation
func statsUpdate(stats renderer.RenderStats) RenderStatsUpdate {
	return RenderStatsUpdate{
		Width:         stats.Width,
		Height:        stats.Height,
		Workers:       stats.Workers,
		RenderTimeMs:  stats.RenderTime.Milliseconds(),
		PrimaryRays:   stats.PrimaryRays,
		SecondaryRays: stats.SecondaryRays,
		ShadowRays:    stats.ShadowRays,
		TotalRays:     stats.TotalRays(),
		MeanLuminance: stats.MeanLuminance,
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEJSON marshals the payload and sends it as an SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", event, err)
		return
	}
	s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) {
	s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
