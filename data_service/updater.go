package data_service

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/relplan/plm-proxy/interfaces"
	"github.com/relplan/plm-proxy/metrics"
	"github.com/relplan/plm-proxy/scheduler"
)

// PeriodicUpdater refreshes the configured programs on an interval
type PeriodicUpdater struct {
	service   interfaces.ReleaseDataService
	programs  []string
	interval  time.Duration
	scheduler *scheduler.Scheduler
	metrics   *metrics.MetricsWriter

	// state of refreshes run without a scheduler
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	lastRun time.Time
	runs    int
}

// NewPeriodicUpdater creates an updater. With a non-positive interval the
// programs are warmed once on start and then only refreshed on Trigger.
func NewPeriodicUpdater(service interfaces.ReleaseDataService, programs []string, interval time.Duration) *PeriodicUpdater {
	u := &PeriodicUpdater{
		service:  service,
		programs: programs,
		interval: interval,
		metrics:  metrics.NewMetricsWriter(metrics.ServiceUpdater),
	}
	if interval > 0 {
		u.scheduler = scheduler.New("PeriodicUpdater", interval, u.refreshAll)
	}
	return u
}

// Start implements core.Interface
func (u *PeriodicUpdater) Start(ctx context.Context) error {
	if len(u.programs) == 0 {
		log.Info("PeriodicUpdater: No programs configured")
		return nil
	}

	u.mu.Lock()
	u.ctx, u.cancel = context.WithCancel(ctx)
	u.mu.Unlock()

	if u.scheduler == nil {
		u.refreshInBackground()
		log.Infof("PeriodicUpdater: Warming %d programs, further refreshes on demand", len(u.programs))
		return nil
	}

	u.scheduler.Start(u.ctx, true)
	log.Infof("PeriodicUpdater: Started for %d programs every %s", len(u.programs), u.interval)
	return nil
}

// Stop implements core.Interface
func (u *PeriodicUpdater) Stop() {
	u.mu.Lock()
	if u.cancel != nil {
		u.cancel()
	}
	u.mu.Unlock()

	if u.scheduler != nil {
		u.scheduler.Stop()
	}
	u.wg.Wait()
}

// Trigger requests an immediate refresh of every program. Without a
// scheduler the refresh is skipped while another one is still running.
func (u *PeriodicUpdater) Trigger() {
	if u.scheduler != nil {
		u.scheduler.Trigger()
		return
	}
	u.refreshInBackground()
}

// LastRun returns the completion time of the last refresh cycle
func (u *PeriodicUpdater) LastRun() (time.Time, int) {
	if u.scheduler != nil {
		return u.scheduler.LastRun()
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastRun, u.runs
}

func (u *PeriodicUpdater) refreshInBackground() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.ctx == nil || u.ctx.Err() != nil {
		log.Debug("PeriodicUpdater: Not running, refresh skipped")
		return
	}
	if u.running {
		log.Debug("PeriodicUpdater: Refresh already running")
		return
	}

	u.running = true
	u.wg.Add(1)
	go func(ctx context.Context) {
		defer u.wg.Done()
		u.refreshAll(ctx)

		u.mu.Lock()
		u.running = false
		u.lastRun = time.Now()
		u.runs++
		u.mu.Unlock()
	}(u.ctx)
}

func (u *PeriodicUpdater) refreshAll(ctx context.Context) {
	startTime := time.Now()
	failed := 0
	for _, program := range u.programs {
		if ctx.Err() != nil {
			return
		}
		if err := u.service.RefreshProgram(ctx, program); err != nil {
			failed++
			log.Errorf("PeriodicUpdater: Failed to refresh %s: %v", program, err)
		}
	}

	u.metrics.RecordDataRefresh(time.Since(startTime))
	log.Infof("PeriodicUpdater: Refreshed %d/%d programs in %s", len(u.programs)-failed, len(u.programs), time.Since(startTime))
}
