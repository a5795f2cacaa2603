package core

import (
	"context"

	"github.com/relplan/plm-proxy/api"
	"github.com/relplan/plm-proxy/cache"
	"github.com/relplan/plm-proxy/config"
	"github.com/relplan/plm-proxy/data_service"
	"github.com/relplan/plm-proxy/metrics"
	"github.com/relplan/plm-proxy/plm_client"
	"github.com/relplan/plm-proxy/request_queue"
)

// Setup creates and registers all services
func Setup(ctx context.Context, cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()

	// TTL cache for decoded collections
	cacheService := cache.NewService(cfg.Cache)
	registry.Register(cacheService)

	// PLM transport, rate limited per host
	limiters := plm_client.NewRateLimiterManager(cfg.PLM.RateLimit)
	plmClient := plm_client.NewClient(cfg.PLM, metrics.NewMetricsWriter(metrics.ServicePLMClient), limiters)
	registry.Register(plmClient)

	// Request queue in front of the transport
	queue := request_queue.NewService(cfg.RequestQueue, plmClient,
		request_queue.WithObserver(metrics.NewMetricsWriter(metrics.ServiceRequestQueue)))
	registry.Register(queue)

	universal := data_service.NewUniversalService(queue, plmClient, cacheService, cfg.DataService)
	dataService := data_service.NewService(universal, queue, cfg)
	registry.Register(dataService)

	updater := data_service.NewPeriodicUpdater(dataService, cfg.DataService.Programs, cfg.DataService.RefreshInterval)
	registry.Register(updater)

	server := api.New(cfg.Server.Port, dataService, dataService, updater)
	registry.Register(server)

	return registry, nil
}
