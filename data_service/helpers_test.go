package data_service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relplan/plm-proxy/cache"
	"github.com/relplan/plm-proxy/config"
	"github.com/relplan/plm-proxy/request_queue"
)

// fakePLM answers transport calls from per-path handlers and counts them
type fakePLM struct {
	mu       sync.Mutex
	calls    map[string]int
	handlers map[string]func(params map[string]string) ([]byte, error)
}

func newFakePLM() *fakePLM {
	return &fakePLM{
		calls:    make(map[string]int),
		handlers: make(map[string]func(params map[string]string) ([]byte, error)),
	}
}

func (f *fakePLM) handle(path string, handler func(params map[string]string) ([]byte, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = handler
}

func (f *fakePLM) Do(ctx context.Context, method, path string, params map[string]string, body any) ([]byte, error) {
	f.mu.Lock()
	f.calls[path]++
	handler, ok := f.handlers[path]
	f.mu.Unlock()

	if method != http.MethodGet {
		return nil, fmt.Errorf("unexpected method %s", method)
	}
	if !ok {
		return nil, &request_queue.StatusError{Method: method, URL: path, StatusCode: http.StatusNotFound}
	}
	return handler(params)
}

func (f *fakePLM) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func collectionOf(t *testing.T, items any) []byte {
	data, err := json.Marshal(map[string]any{"value": items})
	require.NoError(t, err)
	return data
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.PLM.BaseURL = "https://plm.example.com/odata"
	cfg.DataService.TTL = time.Minute
	cfg.DataService.MaxParallelRows = 4
	return cfg
}

func fastQueueOptions() request_queue.Options {
	return request_queue.Options{
		MaxConcurrentRequests: 4,
		MaxRetries:            -1,
		RetryDelay:            time.Millisecond,
		BatchDelay:            time.Millisecond,
		RowIndexDelay:         time.Millisecond,
		Timeout:               time.Second,
		MaxJitter:             -1,
	}
}

type testEnv struct {
	plm       *fakePLM
	queue     *request_queue.Service
	cache     *cache.Service
	universal *UniversalService
	service   *Service
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	plm := newFakePLM()
	queue := request_queue.NewService(fastQueueOptions(), plm)
	require.NoError(t, queue.Start(context.Background()))
	t.Cleanup(queue.Stop)

	cacheService := cache.NewService(cfg.Cache)
	require.NoError(t, cacheService.Start(context.Background()))
	t.Cleanup(cacheService.Stop)

	universal := NewUniversalService(queue, plm, cacheService, cfg.DataService)

	return &testEnv{
		plm:       plm,
		queue:     queue,
		cache:     cacheService,
		universal: universal,
		service:   NewService(universal, queue, cfg),
	}
}
