package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stafftrack/attendance-backend-go/internal/domain/tracking"
	"github.com/stafftrack/attendance-backend-go/internal/handler/http/response"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/sse"
	trackingService "github.com/stafftrack/attendance-backend-go/internal/service/tracking"
)

type TrackingHandler interface {
	RecordPing(w http.ResponseWriter, r *http.Request)
	GetLiveLocations(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type trackingHandlerImpl struct {
	trackingSvc tracking.TrackingService
	hub         *sse.Hub
}

func NewTrackingHandler(trackingSvc tracking.TrackingService, hub *sse.Hub) TrackingHandler {
	return &trackingHandlerImpl{
		trackingSvc: trackingSvc,
		hub:         hub,
	}
}

// RecordPing implements TrackingHandler.
func (h *trackingHandlerImpl) RecordPing(w http.ResponseWriter, r *http.Request) {
	var req tracking.RecordPingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.trackingSvc.RecordPing(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Location recorded", result)
}

// GetLiveLocations implements TrackingHandler.
func (h *trackingHandlerImpl) GetLiveLocations(w http.ResponseWriter, r *http.Request) {
	result, err := h.trackingSvc.GetLiveLocations(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stream implements TrackingHandler. It serves the live tracking view
// over SSE: an initial snapshot, then an event per location update.
func (h *trackingHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cleanup := h.hub.Subscribe(trackingService.LiveTrackingTopic)
	defer cleanup()

	// Initial snapshot so the dashboard renders before the first ping.
	if view, err := h.trackingSvc.GetLiveLocations(r.Context()); err == nil {
		writeSSEEvent(w, "snapshot", view)
		flusher.Flush()
	}

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			writeSSEEvent(w, event.Event, event.Data)
			flusher.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, name string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
}
