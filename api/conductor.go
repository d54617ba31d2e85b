package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/dirabasi/internal/service/conductor"
	"github.com/gin-gonic/gin"
)

type ConductorHandler struct {
	service conductor.ConductorUseCase
}

func NewConductorHandler(service conductor.ConductorUseCase) *ConductorHandler {
	return &ConductorHandler{service: service}
}

type indexRequest struct {
	Index *int `json:"index" binding:"required"`
}

type passengersRequest struct {
	Count *int `json:"count"`
	Delta *int `json:"delta"`
}

func (h *ConductorHandler) Register(router *gin.RouterGroup) {
	router.GET("/routes", h.routes)
	router.POST("/routes/:id/attach", h.attach)
	router.GET("/routes/:id/status", h.status)
	router.POST("/routes/:id/advance", h.advance)
	router.PUT("/routes/:id/location", h.moveTo)
	router.PUT("/routes/:id/passengers", h.passengers)
	router.POST("/routes/:id/start", h.start)
	router.POST("/routes/:id/stop", h.stop)
}

func (h *ConductorHandler) routes(c *gin.Context) {
	routes, err := h.service.Routes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (h *ConductorHandler) attach(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	respondStatus(c)(h.service.Attach(c.Request.Context(), id))
}

func (h *ConductorHandler) status(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	respondStatus(c)(h.service.Status(c.Request.Context(), id))
}

func (h *ConductorHandler) advance(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	respondStatus(c)(h.service.Advance(c.Request.Context(), id))
}

func (h *ConductorHandler) moveTo(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "index is required")
		return
	}
	respondStatus(c)(h.service.MoveTo(c.Request.Context(), id, *req.Index))
}

// passengers sets an absolute count, or adjusts by delta when count is absent.
func (h *ConductorHandler) passengers(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	var req passengersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	switch {
	case req.Count != nil:
		respondStatus(c)(h.service.SetPassengers(c.Request.Context(), id, *req.Count))
	case req.Delta != nil:
		respondStatus(c)(h.service.AdjustPassengers(c.Request.Context(), id, *req.Delta))
	default:
		badRequest(c, "count or delta is required")
	}
}

func (h *ConductorHandler) start(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	respondStatus(c)(h.service.StartMoving(c.Request.Context(), id))
}

func (h *ConductorHandler) stop(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	respondStatus(c)(h.service.StopMoving(c.Request.Context(), id))
}

func respondStatus(c *gin.Context) func(conductor.Status, error) {
	return func(st conductor.Status, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

func routeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid route id")
		return 0, false
	}
	return id, true
}
