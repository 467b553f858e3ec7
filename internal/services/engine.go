package services

import (
	"context"
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/metrics"
	"delivery-status-service/internal/platform/obs"
	"delivery-status-service/internal/ports"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Engine owns the served snapshot. Readers load it through an atomic pointer
// and never block; reloads are serialized and swap the snapshot only on success.
type Engine struct {
	source ports.DatasetSource
	fleet  domain.Fleet
	now    func() time.Time
	log    zerolog.Logger

	mu         sync.Mutex
	generation uint64
	current    atomic.Pointer[domain.Snapshot]
}

var _ ports.Tracker = (*Engine)(nil)

type Option func(*Engine)

// WithClock overrides the wall clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func NewEngine(source ports.DatasetSource, fleet domain.Fleet, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		fleet:  fleet,
		now:    time.Now,
		log:    log.Logger.With().Str("component", "engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reload loads a fresh dataset and replaces the snapshot. On failure the
// previous snapshot stays in service and the error is returned.
func (e *Engine) Reload(ctx context.Context) (_ *domain.Snapshot, err error) {
	defer obs.Time(ctx, "engine.Reload")(&err)

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	ds, err := e.source.LoadDataset(ctx)
	if err != nil {
		metrics.RecordPlanRun(metrics.OutcomeSource, time.Since(start))
		return nil, fmt.Errorf("reload: load dataset: %w", err)
	}

	snap, err := PlanDeliveries(ctx, ds, e.fleet)
	if err != nil {
		metrics.RecordPlanRun(outcomeOf(err), time.Since(start))
		e.log.Warn().
			Str("req_id", obs.RequestID(ctx)).
			Uint64("generation", e.generation).
			Err(err).
			Msg("planning failed, keeping previous snapshot")
		return nil, fmt.Errorf("reload: %w", err)
	}

	e.generation++
	snap = snap.Stamp(e.generation, e.now())
	e.current.Store(snap)

	report := AggregateMileage(snap)
	perTruck := make(map[int]float64, len(report.Trucks))
	for _, t := range report.Trucks {
		perTruck[t.TruckID] = t.Miles
	}
	metrics.RecordPlanRun(metrics.OutcomeSuccess, time.Since(start))
	metrics.RecordSnapshot(e.generation, report.Total, perTruck)

	e.log.Info().
		Str("req_id", obs.RequestID(ctx)).
		Uint64("generation", e.generation).
		Int("packages", snap.Catalog().Len()).
		Float64("total_miles", report.Total).
		Bool("under_ceiling", report.UnderCeiling).
		Msg("snapshot swapped")

	return snap, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, domain.ErrConstraint):
		return metrics.OutcomeConstraint
	case errors.Is(err, domain.ErrRoutingInfeasible):
		return metrics.OutcomeInfeasible
	}
	return metrics.OutcomeOther
}

// Snapshot returns the snapshot currently in service.
func (e *Engine) Snapshot() (*domain.Snapshot, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, domain.ErrNotReady
	}
	return snap, nil
}

func (e *Engine) GetPackage(id int) (*domain.Package, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	p, ok := snap.Catalog().Package(id)
	if !ok {
		return nil, fmt.Errorf("get package %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (e *Engine) GetPackageStatus(id int, at domain.TimeOfDay) (domain.PackageStatus, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return domain.PackageStatus{}, err
	}
	return ResolveStatus(snap, id, at)
}

func (e *Engine) GetAllPackagesStatus(at domain.TimeOfDay) (domain.StatusReport, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return domain.StatusReport{}, err
	}
	return ResolveAll(snap, at)
}

func (e *Engine) GetTotalMileage() (domain.MileageReport, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return domain.MileageReport{}, err
	}
	return AggregateMileage(snap), nil
}

// GetTrucks returns a copy of every simulated route in ascending truck id order.
func (e *Engine) GetTrucks() ([]*domain.Route, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Routes(), nil
}
