package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/athlete-performance-service/internal/service"
	syncmgr "github.com/maxviazov/athlete-performance-service/internal/sync"
)

// Register mounts all public routes on the given engine.
// Accepts the service layer and sync manager for API and live endpoints.
func Register(r *gin.Engine, st Pinger, matches service.MatchService, mgr *syncmgr.Manager, logger zerolog.Logger) {
	h := NewHealthHandler(st)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		NewMatchHandler(matches).Register(api)
		NewLiveHandler(mgr, logger).Register(api)
	}
}
