package api

import (
	"net/http"
	"time"
)

// handleHealth responds with 200 OK to indicate the service is running
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
	}

	if s.cacheAdmin != nil {
		stats := s.cacheAdmin.CacheStats()
		status["queue"] = map[string]interface{}{
			"processing":   stats.Queue.Processing,
			"queue_length": stats.Queue.QueueLength,
			"in_flight":    stats.Queue.InFlight,
		}
	}

	if s.refresher != nil {
		lastRun, runs := s.refresher.LastRun()
		refresh := map[string]interface{}{"runs": runs}
		if !lastRun.IsZero() {
			refresh["last_run"] = lastRun.UTC().Format(time.RFC3339)
		}
		status["refresh"] = refresh
	}

	s.sendJSONResponse(w, r, status)
}
