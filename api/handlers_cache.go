package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// handleCacheStats serves GET /api/v1/cache/stats
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, r, s.cacheAdmin.CacheStats())
}

// handleClearCache serves DELETE /api/v1/cache and DELETE /api/v1/cache/{key}
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if key, ok := mux.Vars(r)["key"]; ok {
		s.cacheAdmin.ClearCache(key)
	} else {
		s.cacheAdmin.ClearCache()
	}
	w.WriteHeader(http.StatusNoContent)
}
