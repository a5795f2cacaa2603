package api

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/relplan/plm-proxy/interfaces"
	"github.com/relplan/plm-proxy/request_queue"
)

type errorResponse struct {
	Error string `json:"error"`
}

// setCacheStatusHeader sets the Cache-Status header based on cache status
func (s *Server) setCacheStatusHeader(w http.ResponseWriter, cacheStatus interfaces.CacheStatus) {
	if cacheStatus != "" {
		w.Header().Set("Cache-Status", cacheStatus.String())
	}
}

// sendJSONResponse is a common wrapper for JSON responses that sets Content-Type,
// Content-Length and ETag headers. A matching If-None-Match yields 304.
func (s *Server) sendJSONResponse(w http.ResponseWriter, r *http.Request, data interface{}) {
	s.sendJSONWithStatus(w, r, http.StatusOK, data)
}

func (s *Server) sendJSONWithStatus(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	responseBytes, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}

	hash := md5.Sum(responseBytes)
	etag := "\"" + hex.EncodeToString(hash[:]) + "\""

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)

	if statusCode == http.StatusOK && r != nil && r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(responseBytes)))
	w.WriteHeader(statusCode)

	if _, err := w.Write(responseBytes); err != nil {
		log.Warnf("Server: Error writing response: %v", err)
	}
}

// sendError maps err to an HTTP status. Backend 404s pass through, other
// backend statuses become 502 and missing responses 504.
func (s *Server) sendError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusCodeForError(err)
	if statusCode >= http.StatusInternalServerError {
		log.Warnf("Server: %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	s.sendJSONWithStatus(w, r, statusCode, errorResponse{Error: err.Error()})
}

func (s *Server) sendBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	s.sendJSONWithStatus(w, r, http.StatusBadRequest, errorResponse{Error: message})
}

func statusCodeForError(err error) int {
	var statusErr *request_queue.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}

	var netErr *request_queue.NetworkError
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	if errors.Is(err, request_queue.ErrStopped) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Errorf("Server: Error shutting down: %v", err)
		}
	}
}

// splitParam splits a comma separated list, dropping blanks. Part numbers are case sensitive.
func splitParam(param string) []string {
	if param == "" {
		return []string{}
	}

	parts := strings.Split(param, ",")
	result := []string{}
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
