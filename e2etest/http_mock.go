package e2etest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

var eqFilter = regexp.MustCompile(`(\w+) eq '((?:[^']|'')*)'`)

// MockServer is a PLM backend serving OData collections from memory
type MockServer struct {
	server *httptest.Server

	mu            sync.RWMutex
	phases        map[string][]map[string]any
	parts         map[string][]map[string]any
	changeReqs    map[string][]map[string]any
	changeActions map[string][]map[string]any
	failures      map[string]int
	requests      map[string]int
}

// NewMockServer creates and starts a mock PLM server with default data
func NewMockServer() *MockServer {
	ms := &MockServer{
		phases: map[string][]map[string]any{
			"ALPHA": {
				{"ID": "PH-1", "Name": "Concept", "Program": "ALPHA", "Sequence": 1},
				{"ID": "PH-2", "Name": "Design", "Program": "ALPHA", "Sequence": 2},
			},
		},
		parts: map[string][]map[string]any{
			"ALPHA": {
				{"ID": "OR:1", "Number": "P-100", "Name": "Bracket", "Program": "ALPHA"},
				{"ID": "OR:2", "Number": "P-200", "Name": "Housing", "Program": "ALPHA"},
			},
		},
		changeReqs: map[string][]map[string]any{
			"ALPHA": {
				{"ID": "CR:1", "Number": "CR-1", "Name": "Material change", "Program": "ALPHA"},
			},
		},
		changeActions: map[string][]map[string]any{
			"P-100": {
				{"ID": "CA:1", "Number": "CA-1", "Name": "Update drawing", "PartNumber": "P-100"},
			},
			"P-200": {},
		},
		failures: make(map[string]int),
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ProjMgmt/Phases", ms.collection(func() map[string][]map[string]any { return ms.phases }, "Program"))
	mux.HandleFunc("/ProdMgmt/Parts", ms.collection(func() map[string][]map[string]any { return ms.parts }, "Program"))
	mux.HandleFunc("/ChangeMgmt/ChangeRequests", ms.collection(func() map[string][]map[string]any { return ms.changeReqs }, "Program"))
	mux.HandleFunc("/ChangeMgmt/ChangeTasks", ms.collection(func() map[string][]map[string]any { return ms.changeActions }, "PartNumber"))

	ms.server = httptest.NewServer(mux)
	return ms
}

// GetURL returns the base URL of the mock server
func (ms *MockServer) GetURL() string {
	return ms.server.URL
}

// Close shuts the mock server down
func (ms *MockServer) Close() {
	ms.server.Close()
}

// FailNext makes the next n requests to path answer 503
func (ms *MockServer) FailNext(path string, n int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.failures[path] = n
}

// SetPhases replaces the phases of a program
func (ms *MockServer) SetPhases(program string, phases []map[string]any) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.phases[program] = phases
}

// Requests returns how many requests reached path
func (ms *MockServer) Requests(path string) int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.requests[path]
}

func (ms *MockServer) collection(data func() map[string][]map[string]any, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		log.Debugf("MockServer: %s %s?%s", r.Method, path, r.URL.RawQuery)

		ms.mu.Lock()
		ms.requests[path]++
		if ms.failures[path] > 0 {
			ms.failures[path]--
			ms.mu.Unlock()
			http.Error(w, `{"error":"unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		ms.mu.Unlock()

		value, ok := filterValue(r.URL.Query().Get("$filter"), field)
		if !ok {
			http.Error(w, `{"error":"missing filter"}`, http.StatusBadRequest)
			return
		}

		ms.mu.RLock()
		items, found := data()[value]
		ms.mu.RUnlock()
		if !found {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"value": items})
	}
}

func filterValue(filter, field string) (string, bool) {
	for _, match := range eqFilter.FindAllStringSubmatch(filter, -1) {
		if match[1] == field {
			return strings.ReplaceAll(match[2], "''", "'"), true
		}
	}
	return "", false
}
