package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// BasePath is where the API is mounted.
const BasePath = "/api/v1"

// RegisterRoutes attaches the simulation API to rg.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/impact", h.HandleImpact)
	rg.POST("/mitigation", h.HandleMitigation)

	sims := rg.Group("/simulations")
	{
		sims.POST("", h.HandleCreateSimulation)
		sims.GET("", h.HandleListSimulations)
		sims.GET("/:id", h.HandleGetSimulation)
	}

	rg.POST("/neo/:id/simulations", h.HandleCreateNEOSimulation)
}

// NewRouter builds a gin engine serving the API under BasePath.
func NewRouter(h *Handlers, serviceName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	RegisterRoutes(router.Group(BasePath), h)
	return router
}
