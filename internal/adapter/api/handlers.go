// Package api exposes the simulation service over HTTP using gin.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/simulation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service is the subset of simulation.Service the handlers use.
type Service interface {
	Constants() domain.Constants
	CalculateImpact(ctx context.Context, p domain.AsteroidParameters) (domain.ImpactResult, error)
	CalculateMitigation(ctx context.Context, in domain.MitigationInput) (*domain.MitigationOutcome, error)
	Simulate(ctx context.Context, sc domain.Scenario) (domain.SimulationRecord, error)
	SimulateNEO(ctx context.Context, neoID string, sc domain.Scenario) (domain.SimulationRecord, error)
	Get(ctx context.Context, id string) (domain.SimulationRecord, error)
	ListRecent(ctx context.Context, limit int) ([]domain.SimulationRecord, error)
}

// Handlers holds the HTTP handlers for the simulation API.
type Handlers struct {
	svc    Service
	logger *slog.Logger
}

// NewHandlers creates Handlers backed by svc.
func NewHandlers(svc Service, logger *slog.Logger) *Handlers {
	return &Handlers{svc: svc, logger: logger}
}

// HandleImpact handles POST /impact. Nothing is persisted.
func (h *Handlers) HandleImpact(c *gin.Context) {
	logger := h.requestLogger(c, "HandleImpact")

	var p domain.AsteroidParameters
	if err := c.ShouldBindJSON(&p); err != nil {
		h.badRequest(c, logger, err)
		return
	}

	result, err := h.svc.CalculateImpact(c.Request.Context(), p)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleMitigation handles POST /mitigation. The "none" strategy yields 204.
func (h *Handlers) HandleMitigation(c *gin.Context) {
	logger := h.requestLogger(c, "HandleMitigation")

	var req MitigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, logger, err)
		return
	}

	strategy, err := domain.ParseStrategy(req.Strategy)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}

	mass := req.Mass
	if mass == 0 && req.Diameter > 0 {
		mass = domain.Mass(req.Diameter, h.svc.Constants().AsteroidDensity)
	}

	out, err := h.svc.CalculateMitigation(c.Request.Context(), domain.MitigationInput{
		Strategy:         strategy,
		Mass:             mass,
		Diameter:         req.Diameter,
		Velocity:         req.Velocity,
		WarningTimeYears: req.WarningTimeYears,
	})
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	if out == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, out)
}

// HandleCreateSimulation handles POST /simulations.
func (h *Handlers) HandleCreateSimulation(c *gin.Context) {
	logger := h.requestLogger(c, "HandleCreateSimulation")

	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, logger, err)
		return
	}
	if err := normaliseStrategy(&req); err != nil {
		h.writeError(c, logger, err)
		return
	}

	rec, err := h.svc.Simulate(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	logger.Info("simulation created", "id", rec.ID)
	c.JSON(http.StatusCreated, rec)
}

// HandleCreateNEOSimulation handles POST /neo/:id/simulations.
func (h *Handlers) HandleCreateNEOSimulation(c *gin.Context) {
	logger := h.requestLogger(c, "HandleCreateNEOSimulation")
	neoID := c.Param("id")

	// An empty body simulates a 45° impact at 0,0.
	req := SimulationRequest{AsteroidParameters: domain.AsteroidParameters{Angle: 45}}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, logger, err)
		return
	}
	if err := normaliseStrategy(&req); err != nil {
		h.writeError(c, logger, err)
		return
	}

	rec, err := h.svc.SimulateNEO(c.Request.Context(), neoID, req)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	logger.Info("neo simulation created", "id", rec.ID, "neo_id", neoID)
	c.JSON(http.StatusCreated, rec)
}

// HandleListSimulations handles GET /simulations?limit=n.
func (h *Handlers) HandleListSimulations(c *gin.Context) {
	logger := h.requestLogger(c, "HandleListSimulations")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be an integer",
				Code:  CodeInvalidParameter,
			})
			return
		}
		limit = n
	}

	recs, err := h.svc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	if recs == nil {
		recs = []domain.SimulationRecord{}
	}
	c.JSON(http.StatusOK, ListResponse{Simulations: recs, Count: len(recs)})
}

// HandleGetSimulation handles GET /simulations/:id.
func (h *Handlers) HandleGetSimulation(c *gin.Context) {
	logger := h.requestLogger(c, "HandleGetSimulation")

	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func normaliseStrategy(sc *domain.Scenario) error {
	st, err := domain.ParseStrategy(string(sc.Strategy))
	if err != nil {
		return err
	}
	sc.Strategy = st
	return nil
}

func (h *Handlers) badRequest(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("invalid request body", "error", err)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: "invalid request body: " + err.Error(),
		Code:  CodeInvalidParameter,
	})
}

// writeError maps service errors onto HTTP statuses.
func (h *Handlers) writeError(c *gin.Context, logger *slog.Logger, err error) {
	status, code := http.StatusInternalServerError, CodeInternal
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		status, code = http.StatusBadRequest, CodeInvalidParameter
	case errors.Is(err, domain.ErrUnknownStrategy):
		status, code = http.StatusBadRequest, CodeUnknownStrategy
	case errors.Is(err, simulation.ErrNotFound), errors.Is(err, domain.ErrNEONotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrNEOIncomplete):
		status, code = http.StatusUnprocessableEntity, CodeInvalidParameter
	case errors.Is(err, simulation.ErrSourceUnavailable):
		status, code = http.StatusServiceUnavailable, CodeSourceUnavailable
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Warn("request rejected", "error", err, "code", code)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func (h *Handlers) requestLogger(c *gin.Context, handler string) *slog.Logger {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return h.logger.With("request_id", requestID, "handler", handler)
}
