package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Scenario is a request to assess one impact, optionally with a deflection
// attempt. It is the payload of API requests and source-topic messages.
type Scenario struct {
	Name         string `json:"name,omitempty"`
	NEOReference string `json:"neo_reference,omitempty"`
	AsteroidParameters
	Strategy         Strategy `json:"strategy,omitempty"`
	WarningTimeYears float64  `json:"warning_time_years,omitempty"`
}

// Assessment is a computed scenario as published on the sink topic.
type Assessment struct {
	Key         string             `json:"key,omitempty"`
	Name        string             `json:"name,omitempty"`
	Parameters  AsteroidParameters `json:"parameters"`
	Impact      ImpactResult       `json:"impact"`
	Mitigation  *MitigationOutcome `json:"mitigation,omitempty"`
	ProcessedAt time.Time          `json:"processed_at"`
}

// ParseScenario deserializes a RawEvent's value into a Scenario.
func ParseScenario(raw RawEvent) (Scenario, error) {
	var s Scenario
	if err := json.Unmarshal(raw.Value, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	if _, err := ParseStrategy(string(s.Strategy)); err != nil {
		return Scenario{}, err
	}
	if s.Strategy == "" {
		s.Strategy = StrategyNone
	}
	return s, nil
}

// SerializeAssessment marshals an Assessment into an OutputEvent keyed by the
// assessment key.
func SerializeAssessment(a Assessment) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return OutputEvent{
		Key:   []byte(a.Key),
		Value: data,
		Headers: map[string]string{
			"ocean_impact": fmt.Sprintf("%t", a.Impact.IsOceanImpact),
			"processed_at": a.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
