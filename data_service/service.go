package data_service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/relplan/plm-proxy/config"
	"github.com/relplan/plm-proxy/events"
	"github.com/relplan/plm-proxy/interfaces"
	"github.com/relplan/plm-proxy/metrics"
	"github.com/relplan/plm-proxy/plm_client"
	"github.com/relplan/plm-proxy/request_queue"
)

// OData property names used in filters
const (
	fieldProgram    = "Program"
	fieldPartNumber = "PartNumber"
)

// Service serves typed release-planning data on top of UniversalService
type Service struct {
	universal *UniversalService
	queue     *request_queue.Service
	config    config.DataServiceConfig
	endpoints config.EndpointsConfig
	updates   *events.SubscriptionManager[interfaces.ProgramUpdate]
	metrics   *metrics.MetricsWriter
}

var (
	_ interfaces.ReleaseDataService = (*Service)(nil)
	_ interfaces.CacheAdmin         = (*Service)(nil)
)

func NewService(universal *UniversalService, queue *request_queue.Service, cfg *config.Config) *Service {
	return &Service{
		universal: universal,
		queue:     queue,
		config:    cfg.DataService,
		endpoints: cfg.PLM.Endpoints,
		updates:   events.NewSubscriptionManager[interfaces.ProgramUpdate](),
		metrics:   metrics.NewMetricsWriter(metrics.ServiceDataService),
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	log.Infof("DataService: Started (ttl %s, max parallel rows %d)", s.config.GetTTL(), s.config.MaxParallelRows)
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {}

func (s *Service) phasesQuery(program string) Query {
	return Query{
		Kind:  KindPhases,
		Scope: program,
		Request: plm_client.NewRequestBuilder(s.endpoints.Phases).
			WhereEq(fieldProgram, program).
			OrderBy("Sequence").
			Top(s.config.PageSize),
	}
}

func (s *Service) partsQuery(program string) Query {
	return Query{
		Kind:  KindParts,
		Scope: program,
		Request: plm_client.NewRequestBuilder(s.endpoints.Parts).
			WhereEq(fieldProgram, program).
			Top(s.config.PageSize),
	}
}

func (s *Service) changeRequestsQuery(program string) Query {
	return Query{
		Kind:  KindChangeRequests,
		Scope: program,
		Request: plm_client.NewRequestBuilder(s.endpoints.ChangeRequests).
			WhereEq(fieldProgram, program).
			Top(s.config.PageSize),
	}
}

func (s *Service) changeActionsQuery(partNumber string) Query {
	return Query{
		Kind:  KindChangeActions,
		Scope: partNumber,
		Request: plm_client.NewRequestBuilder(s.endpoints.ChangeActions).
			WhereEq(fieldPartNumber, partNumber).
			Top(s.config.PageSize),
		NotFoundAsEmpty: true,
	}
}

// GetPhases returns the phases of a program
func (s *Service) GetPhases(ctx context.Context, program string) ([]interfaces.Phase, interfaces.CacheStatus, error) {
	return fetchTyped[interfaces.Phase](ctx, s.universal, s.phasesQuery(program))
}

// GetParts returns the parts planned for a program
func (s *Service) GetParts(ctx context.Context, program string) ([]interfaces.Part, interfaces.CacheStatus, error) {
	return fetchTyped[interfaces.Part](ctx, s.universal, s.partsQuery(program))
}

// GetChangeRequests returns the change requests of a program
func (s *Service) GetChangeRequests(ctx context.Context, program string) ([]interfaces.ChangeRequest, interfaces.CacheStatus, error) {
	return fetchTyped[interfaces.ChangeRequest](ctx, s.universal, s.changeRequestsQuery(program))
}

// GetChangeActionsForParts loads the change actions of every part, one
// request per part. Unknown parts get an empty list.
func (s *Service) GetChangeActionsForParts(ctx context.Context, partNumbers []string) (map[string][]interfaces.ChangeAction, interfaces.CacheStatus, error) {
	queries := make([]Query, 0, len(partNumbers))
	for _, number := range partNumbers {
		number = strings.TrimSpace(number)
		if number == "" {
			continue
		}
		queries = append(queries, s.changeActionsQuery(number))
	}

	raw, status, err := s.universal.FetchMany(ctx, queries)
	if err != nil {
		return nil, status, err
	}

	result := make(map[string][]interfaces.ChangeAction, len(queries))
	for _, q := range queries {
		actions, err := decodeCollection[interfaces.ChangeAction](raw[q.CacheKey()])
		if err != nil {
			return nil, status, errors.Wrapf(err, "part %s", q.Scope)
		}
		result[q.Scope] = actions
	}
	return result, status, nil
}

// RefreshProgram drops the cached data of a program, loads it again and
// notifies subscribers
func (s *Service) RefreshProgram(ctx context.Context, program string) error {
	startTime := time.Now()

	s.universal.Invalidate(
		s.phasesQuery(program).CacheKey(),
		s.partsQuery(program).CacheKey(),
		s.changeRequestsQuery(program).CacheKey(),
	)

	var parts []interfaces.Part
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, _, err := s.GetPhases(gctx, program)
		return err
	})
	g.Go(func() error {
		var err error
		parts, _, err = s.GetParts(gctx, program)
		return err
	})
	g.Go(func() error {
		_, _, err := s.GetChangeRequests(gctx, program)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.Wrapf(err, "failed to refresh program %s", program)
	}

	partNumbers := make([]string, 0, len(parts))
	actionKeys := make([]string, 0, len(parts))
	for _, part := range parts {
		partNumbers = append(partNumbers, part.Number)
		actionKeys = append(actionKeys, s.changeActionsQuery(part.Number).CacheKey())
	}
	s.universal.Invalidate(actionKeys...)

	if _, _, err := s.GetChangeActionsForParts(ctx, partNumbers); err != nil {
		return errors.Wrapf(err, "failed to refresh change actions of program %s", program)
	}

	s.metrics.RecordDataRefresh(time.Since(startTime))
	log.Infof("DataService: Refreshed program %s (%d parts) in %.2fs", program, len(parts), time.Since(startTime).Seconds())

	s.updates.Emit(ctx, interfaces.ProgramUpdate{
		Program:     program,
		RefreshedAt: time.Now(),
	})
	return nil
}

// SubscribeProgramUpdates subscribes to refresh notifications
func (s *Service) SubscribeProgramUpdates() events.ISubscription[interfaces.ProgramUpdate] {
	return s.updates.Subscribe()
}

// CacheStats returns queue and TTL cache diagnostics
func (s *Service) CacheStats() interfaces.CacheStats {
	return interfaces.CacheStats{
		Queue: s.queue.Stats(),
		Cache: s.universal.cache.Stats(),
	}
}

// ClearCache removes the given keys, or everything when called without keys
func (s *Service) ClearCache(keys ...string) {
	if len(keys) == 0 {
		s.universal.InvalidateAll()
		log.Info("DataService: Cache cleared")
		return
	}
	s.universal.Invalidate(keys...)
	log.Infof("DataService: Cache keys cleared: %s", strings.Join(keys, ", "))
}

func fetchTyped[T any](ctx context.Context, universal *UniversalService, q Query) ([]T, interfaces.CacheStatus, error) {
	raw, status, err := universal.FetchEntities(ctx, q, 0)
	if err != nil {
		return nil, status, err
	}

	items, err := decodeCollection[T](raw)
	if err != nil {
		return nil, status, errors.Wrapf(err, "failed to decode %s", q.CacheKey())
	}
	return items, status, nil
}
