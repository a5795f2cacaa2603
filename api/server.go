package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/relplan/plm-proxy/interfaces"
)

// IRefresher triggers and reports the periodic refresh of all programs
type IRefresher interface {
	Trigger()
	LastRun() (time.Time, int)
}

type Server struct {
	port        string
	dataService interfaces.ReleaseDataService
	cacheAdmin  interfaces.CacheAdmin
	refresher   IRefresher
	upgrader    websocket.Upgrader
	server      *http.Server
}

func New(port string, dataService interfaces.ReleaseDataService, cacheAdmin interfaces.CacheAdmin, refresher IRefresher) *Server {
	return &Server{
		port:        port,
		dataService: dataService,
		cacheAdmin:  cacheAdmin,
		refresher:   refresher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// widgets are served from the PLM host, not from this service
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router returns the HTTP routes of the service
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/programs/{program}/phases", s.handlePhases).Methods(http.MethodGet)
	api.HandleFunc("/programs/{program}/parts", s.handleParts).Methods(http.MethodGet)
	api.HandleFunc("/programs/{program}/change_requests", s.handleChangeRequests).Methods(http.MethodGet)
	api.HandleFunc("/programs/{program}/refresh", s.handleRefreshProgram).Methods(http.MethodPost)
	api.HandleFunc("/parts/change_actions", s.handleChangeActions).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.handleRefreshAll).Methods(http.MethodPost)

	api.HandleFunc("/cache/stats", s.handleCacheStats).Methods(http.MethodGet)
	api.HandleFunc("/cache", s.handleClearCache).Methods(http.MethodDelete)
	api.HandleFunc("/cache/{key}", s.handleClearCache).Methods(http.MethodDelete)

	api.HandleFunc("/updates", s.handleUpdates).Methods(http.MethodGet)

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

// Start implements core.Interface
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("Server: Starting at http://localhost:%s", s.port)
	log.Info("Server: Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Server: %v", err)
		}
	}()

	return nil
}
