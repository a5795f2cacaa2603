package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

func programFromRequest(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["program"])
}

// handlePhases serves GET /api/v1/programs/{program}/phases
func (s *Server) handlePhases(w http.ResponseWriter, r *http.Request) {
	phases, cacheStatus, err := s.dataService.GetPhases(r.Context(), programFromRequest(r))
	if err != nil {
		s.sendError(w, r, err)
		return
	}

	s.setCacheStatusHeader(w, cacheStatus)
	s.sendJSONResponse(w, r, phases)
}

// handleParts serves GET /api/v1/programs/{program}/parts
func (s *Server) handleParts(w http.ResponseWriter, r *http.Request) {
	parts, cacheStatus, err := s.dataService.GetParts(r.Context(), programFromRequest(r))
	if err != nil {
		s.sendError(w, r, err)
		return
	}

	s.setCacheStatusHeader(w, cacheStatus)
	s.sendJSONResponse(w, r, parts)
}

// handleChangeRequests serves GET /api/v1/programs/{program}/change_requests
func (s *Server) handleChangeRequests(w http.ResponseWriter, r *http.Request) {
	crs, cacheStatus, err := s.dataService.GetChangeRequests(r.Context(), programFromRequest(r))
	if err != nil {
		s.sendError(w, r, err)
		return
	}

	s.setCacheStatusHeader(w, cacheStatus)
	s.sendJSONResponse(w, r, crs)
}

// handleChangeActions serves GET /api/v1/parts/change_actions?ids=P-1,P-2
func (s *Server) handleChangeActions(w http.ResponseWriter, r *http.Request) {
	ids := splitParam(r.URL.Query().Get("ids"))
	if len(ids) == 0 {
		s.sendBadRequest(w, r, "missing required parameter: ids")
		return
	}

	actions, cacheStatus, err := s.dataService.GetChangeActionsForParts(r.Context(), ids)
	if err != nil {
		s.sendError(w, r, err)
		return
	}

	s.setCacheStatusHeader(w, cacheStatus)
	s.sendJSONResponse(w, r, actions)
}

// handleRefreshProgram serves POST /api/v1/programs/{program}/refresh
func (s *Server) handleRefreshProgram(w http.ResponseWriter, r *http.Request) {
	program := programFromRequest(r)
	if err := s.dataService.RefreshProgram(r.Context(), program); err != nil {
		s.sendError(w, r, err)
		return
	}

	s.sendJSONResponse(w, r, map[string]string{
		"status":  "refreshed",
		"program": program,
	})
}

// handleRefreshAll serves POST /api/v1/refresh, scheduling a refresh of every configured program
func (s *Server) handleRefreshAll(w http.ResponseWriter, r *http.Request) {
	if s.refresher == nil {
		s.sendJSONWithStatus(w, r, http.StatusServiceUnavailable, errorResponse{Error: "periodic refresh is disabled"})
		return
	}

	s.refresher.Trigger()
	s.sendJSONWithStatus(w, r, http.StatusAccepted, map[string]string{"status": "scheduled"})
}
