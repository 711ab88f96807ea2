package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
)

// ErrRetryable marks a Transform failure caused by a dependency rather than
// the message. The message must not be committed.
var ErrRetryable = errors.New("retryable assessment failure")

// Assessor computes a scenario. simulation.Service satisfies it.
type Assessor interface {
	Assess(ctx context.Context, sc domain.Scenario) (domain.Assessment, error)
}

// AssessmentTransformer implements Transformer: it parses a scenario message,
// optionally completes it from the asteroid feed, assesses it, and serializes
// the result keyed by the source message key.
type AssessmentTransformer struct {
	assessor Assessor
	source   domain.AsteroidSource
	logger   *slog.Logger
}

// NewTransformer creates an AssessmentTransformer. Pass a nil source to
// disable NEO lookups; scenarios then must carry their own diameter and
// velocity.
func NewTransformer(assessor Assessor, source domain.AsteroidSource, logger *slog.Logger) *AssessmentTransformer {
	return &AssessmentTransformer{
		assessor: assessor,
		source:   source,
		logger:   logger,
	}
}

func (t *AssessmentTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	sc, err := domain.ParseScenario(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	if sc.NEOReference != "" && t.source != nil {
		neo, err := t.source.Lookup(ctx, sc.NEOReference)
		switch {
		case errors.Is(err, domain.ErrNEONotFound), errors.Is(err, domain.ErrNEOIncomplete):
			return domain.OutputEvent{}, fmt.Errorf("lookup neo %s: %w", sc.NEOReference, err)
		case err != nil:
			return domain.OutputEvent{}, fmt.Errorf("%w: lookup neo %s: %w", ErrRetryable, sc.NEOReference, err)
		}
		sc = domain.ApplyNEO(sc, neo)
	}

	a, err := t.assessor.Assess(ctx, sc)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	a.Key = string(raw.Key)
	if a.Key == "" {
		a.Key = sc.Name
	}
	t.logger.Debug("scenario assessed",
		"key", a.Key,
		"region", a.Impact.Region,
		"ocean", a.Impact.IsOceanImpact,
	)
	return domain.SerializeAssessment(a)
}
