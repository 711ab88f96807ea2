// Package simulation runs impact and mitigation scenarios and keeps a history
// of the results.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var (
	// ErrNotFound is returned when no simulation exists for an ID.
	ErrNotFound = errors.New("simulation not found")

	// ErrSourceUnavailable is returned by SimulateNEO when no asteroid feed is configured.
	ErrSourceUnavailable = errors.New("asteroid source unavailable")
)

// Store persists simulation records. Records are immutable once saved.
type Store interface {
	Save(ctx context.Context, rec domain.SimulationRecord) error
	// Get returns ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (domain.SimulationRecord, error)
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.SimulationRecord, error)
}

// Service coordinates the calculators, the history store and the optional
// asteroid feed.
type Service struct {
	calc    *domain.Calculator
	store   Store
	source  domain.AsteroidSource
	logger  *slog.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// NewService creates a Service. store and source may be nil; operations that
// need them then fail.
func NewService(calc *domain.Calculator, store Store, source domain.AsteroidSource, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		calc:    calc,
		store:   store,
		source:  source,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("github.com/couchcryptid/asteroid-impact-service/internal/simulation"),
	}
}

// Constants returns the calculator calibration.
func (s *Service) Constants() domain.Constants {
	return s.calc.Constants()
}

// CalculateImpact runs the impact calculator without persisting anything.
func (s *Service) CalculateImpact(ctx context.Context, p domain.AsteroidParameters) (domain.ImpactResult, error) {
	_, span := s.tracer.Start(ctx, "simulation.CalculateImpact", trace.WithAttributes(paramAttributes(p)...))
	defer span.End()

	result, err := s.calc.CalculateImpact(p)
	if err != nil {
		s.recordError(span, "impact", err)
		return domain.ImpactResult{}, err
	}
	s.metrics.Simulations.WithLabelValues(strconv.FormatBool(result.IsOceanImpact)).Inc()
	span.SetAttributes(attribute.Bool("impact.ocean", result.IsOceanImpact))
	return result, nil
}

// CalculateMitigation runs the mitigation calculator. A nil outcome with a nil
// error means no strategy was requested.
func (s *Service) CalculateMitigation(ctx context.Context, in domain.MitigationInput) (*domain.MitigationOutcome, error) {
	_, span := s.tracer.Start(ctx, "simulation.CalculateMitigation",
		trace.WithAttributes(attribute.String("mitigation.strategy", string(in.Strategy))))
	defer span.End()

	out, err := s.calc.CalculateMitigation(in)
	if err != nil {
		s.recordError(span, "mitigation", err)
		return nil, err
	}
	if out != nil {
		s.metrics.Mitigations.WithLabelValues(string(out.Strategy)).Inc()
	}
	return out, nil
}

// Assess computes a scenario without persisting it.
func (s *Service) Assess(ctx context.Context, sc domain.Scenario) (domain.Assessment, error) {
	_, span := s.tracer.Start(ctx, "simulation.Assess", trace.WithAttributes(paramAttributes(sc.AsteroidParameters)...))
	defer span.End()

	a, err := s.calc.Assess(sc)
	if err != nil {
		s.recordError(span, operationFor(err), err)
		return domain.Assessment{}, err
	}
	s.metrics.Simulations.WithLabelValues(strconv.FormatBool(a.Impact.IsOceanImpact)).Inc()
	if a.Mitigation != nil {
		s.metrics.Mitigations.WithLabelValues(string(a.Mitigation.Strategy)).Inc()
	}
	return a, nil
}

// Simulate computes a scenario and stores the flattened record under a new
// time-ordered ID.
func (s *Service) Simulate(ctx context.Context, sc domain.Scenario) (domain.SimulationRecord, error) {
	if s.store == nil {
		return domain.SimulationRecord{}, errors.New("simulation store not configured")
	}

	a, err := s.Assess(ctx, sc)
	if err != nil {
		return domain.SimulationRecord{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.SimulationRecord{}, fmt.Errorf("generate simulation id: %w", err)
	}

	rec := domain.FlattenAssessment(a, sc.NEOReference, sc.WarningTimeYears)
	rec.ID = id.String()
	rec.CreatedAt = a.ProcessedAt

	if err := s.store.Save(ctx, rec); err != nil {
		s.metrics.StoreOperations.WithLabelValues("save", "error").Inc()
		return domain.SimulationRecord{}, fmt.Errorf("save simulation: %w", err)
	}
	s.metrics.StoreOperations.WithLabelValues("save", "success").Inc()

	s.logger.Info("simulation stored",
		"id", rec.ID,
		"region", rec.Region,
		"ocean", rec.IsOceanImpact,
		"energy_mt", rec.Energy,
	)
	return rec, nil
}

// SimulateNEO fills the scenario's diameter and velocity from the asteroid
// feed before simulating it.
func (s *Service) SimulateNEO(ctx context.Context, neoID string, sc domain.Scenario) (domain.SimulationRecord, error) {
	if s.source == nil {
		return domain.SimulationRecord{}, ErrSourceUnavailable
	}
	neo, err := s.source.Lookup(ctx, neoID)
	if err != nil {
		return domain.SimulationRecord{}, fmt.Errorf("lookup neo %s: %w", neoID, err)
	}
	return s.Simulate(ctx, domain.ApplyNEO(sc, neo))
}

// Get returns a stored simulation.
func (s *Service) Get(ctx context.Context, id string) (domain.SimulationRecord, error) {
	if s.store == nil {
		return domain.SimulationRecord{}, ErrNotFound
	}
	rec, err := s.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		s.metrics.StoreOperations.WithLabelValues("get", "not_found").Inc()
		return domain.SimulationRecord{}, err
	case err != nil:
		s.metrics.StoreOperations.WithLabelValues("get", "error").Inc()
		return domain.SimulationRecord{}, fmt.Errorf("get simulation: %w", err)
	}
	s.metrics.StoreOperations.WithLabelValues("get", "success").Inc()
	return rec, nil
}

// ListRecent returns stored simulations newest first. A non-positive limit
// uses DefaultListLimit; limits above MaxListLimit are clamped.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]domain.SimulationRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	recs, err := s.store.ListRecent(ctx, ClampLimit(limit))
	if err != nil {
		s.metrics.StoreOperations.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	s.metrics.StoreOperations.WithLabelValues("list", "success").Inc()
	return recs, nil
}

// ClampLimit normalises a requested page size.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

func (s *Service) recordError(span trace.Span, operation string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if errors.Is(err, domain.ErrInvalidParameter) || errors.Is(err, domain.ErrUnknownStrategy) {
		s.metrics.ValidationErrors.WithLabelValues(operation).Inc()
	}
}

// operationFor attributes an Assess failure to the calculator that raised it.
func operationFor(err error) string {
	var ipe *domain.InvalidParameterError
	if errors.As(err, &ipe) {
		switch ipe.Field {
		case "mass", "warning_time_years":
			return "mitigation"
		}
	}
	if errors.Is(err, domain.ErrUnknownStrategy) {
		return "mitigation"
	}
	return "impact"
}

func paramAttributes(p domain.AsteroidParameters) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64("asteroid.diameter_m", p.Diameter),
		attribute.Float64("asteroid.velocity_kms", p.Velocity),
		attribute.Float64("asteroid.angle_deg", p.Angle),
		attribute.Float64("impact.latitude", p.Latitude),
		attribute.Float64("impact.longitude", p.Longitude),
	}
}
