package api

import "github.com/couchcryptid/asteroid-impact-service/internal/domain"

// MitigationRequest is the body of POST /mitigation. Mass is optional and is
// derived from the diameter when omitted.
type MitigationRequest struct {
	Strategy         string  `json:"strategy"`
	Mass             float64 `json:"mass,omitempty"`
	Diameter         float64 `json:"diameter"`
	Velocity         float64 `json:"velocity"`
	WarningTimeYears float64 `json:"warning_time_years"`
}

// SimulationRequest is the body of POST /simulations and
// POST /neo/:id/simulations. For NEO simulations diameter and velocity come
// from the feed and may be omitted.
type SimulationRequest = domain.Scenario

// ListResponse wraps a page of simulation records.
type ListResponse struct {
	Simulations []domain.SimulationRecord `json:"simulations"`
	Count       int                       `json:"count"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code,omitempty"`
}

const (
	CodeInvalidParameter  = "INVALID_PARAMETER"
	CodeUnknownStrategy   = "UNKNOWN_STRATEGY"
	CodeNotFound          = "NOT_FOUND"
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeInternal          = "INTERNAL"
)
