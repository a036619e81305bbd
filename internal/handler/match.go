package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/athlete-performance-service/internal/model"
	"github.com/maxviazov/athlete-performance-service/internal/service"
	"github.com/maxviazov/athlete-performance-service/pkg/response"
)

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	matches := r.Group("/matches")
	{
		matches.POST("", h.submit)
		matches.GET("/:id", h.get)
		matches.DELETE("/:id", h.remove)
	}
	players := r.Group("/players")
	{
		players.GET("/:id/matches", h.listByPlayer)
		players.GET("/:id/aggregate", h.aggregate)
		players.POST("/:id/aggregate/recompute", h.recompute)
	}
	r.Group("/coaches").GET("/:id/overview", h.overview)
}

type submitMatchRequest struct {
	PlayerID    string             `json:"player_id"`
	PlayerEmail string             `json:"player_email"`
	PlayerName  string             `json:"player_name"`
	CoachID     string             `json:"coach_id"`
	Sport       string             `json:"sport"`
	Parameters  map[string]float64 `json:"parameters"`
	Date        time.Time          `json:"date"`
}

func (h *MatchHandler) submit(c *gin.Context) {
	var req submitMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	record, err := h.svc.SubmitMatch(c.Request.Context(), model.MatchInput{
		PlayerID:    req.PlayerID,
		PlayerEmail: req.PlayerEmail,
		PlayerName:  req.PlayerName,
		CoachID:     req.CoachID,
		Sport:       model.Sport(req.Sport),
		Parameters:  model.Params(req.Parameters),
		Date:        req.Date,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, record)
}

func (h *MatchHandler) get(c *gin.Context) {
	record, err := h.svc.GetMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, record)
}

func (h *MatchHandler) remove(c *gin.Context) {
	if err := h.svc.DeleteMatch(c.Request.Context(), c.Param("id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MatchHandler) listByPlayer(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "limit", Message: "must be a non-negative integer"}}))
			return
		}
		limit = n
	}
	records, err := h.svc.ListRecentMatches(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, records)
}

func (h *MatchHandler) aggregate(c *gin.Context) {
	agg, err := h.svc.GetPlayerAggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, agg)
}

func (h *MatchHandler) recompute(c *gin.Context) {
	agg, err := h.svc.RecomputeAggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, agg)
}

func (h *MatchHandler) overview(c *gin.Context) {
	ov, err := h.svc.TeamOverview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, ov)
}
