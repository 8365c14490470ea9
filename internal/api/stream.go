package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/metrics"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

var heartbeatInterval = 15 * time.Second

// CorralStreamHandler handles GET /v1/corrals/stream as server-sent events.
func (s *Server) CorralStreamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.Broker.Subscribe(corralTopic)
	defer s.Broker.Unsubscribe(corralTopic, ch)
	metrics.StreamSubscribers.WithLabelValues("sse").Inc()
	defer metrics.StreamSubscribers.WithLabelValues("sse").Dec()

	heartbeat := func() {
		fmt.Fprintf(w, "event: heartbeat\ndata: {\"ts\":%q}\n\n", s.now().UTC().Format(time.RFC3339))
		flusher.Flush()
	}
	heartbeat()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, evt)
			flusher.Flush()
		case <-ticker.C:
			heartbeat()
		}
	}
}

func writeSSE(w http.ResponseWriter, evt model.Event) {
	b, _ := json.Marshal(evt.Data)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, b)
}
