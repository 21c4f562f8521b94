package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"water-route-service/internal/api/dto"
	"water-route-service/internal/ports"
)

// RouteHandler exposes route sequencing and lifecycle endpoints.
type RouteHandler struct {
	Service ports.RouteService
}

func (h *RouteHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "body must be {\"orderIds\": [...]}")
		return
	}

	route, err := h.Service.Optimize(c.Request.Context(), req.OrderIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromOptimizedRoute(route))
}

func (h *RouteHandler) Plan(c *gin.Context) {
	var req dto.PlanRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "name, driverId, truckId and orderIds are required")
		return
	}

	var date time.Time
	if s := strings.TrimSpace(req.Date); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			writeBadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	res, err := h.Service.PlanRoute(c.Request.Context(), ports.PlanRouteRequest{
		Name:        req.Name,
		DriverID:    req.DriverID,
		AssistantID: req.AssistantID,
		TruckID:     req.TruckID,
		Date:        date,
		OrderIDs:    req.OrderIDs,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PlanRouteResponse{
		Route:        dto.FromRoute(res.Route),
		Optimization: dto.FromOptimizedRoute(res.Optimized),
	})
}

func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.Service.ListRoutes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoutes(routes))
}

func (h *RouteHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	route, err := h.Service.GetRoute(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoute(route))
}

func (h *RouteHandler) Start(c *gin.Context) {
	id, loc, ok := locationRequest(c)
	if !ok {
		return
	}

	res, err := h.Service.StartRoute(c.Request.Context(), id, loc)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StartRouteResponse{
		Route:  dto.FromRoute(res.Route),
		Orders: dto.FromOrders(res.Orders),
	})
}

func (h *RouteHandler) ReportLocation(c *gin.Context) {
	id, loc, ok := locationRequest(c)
	if !ok {
		return
	}

	route, err := h.Service.ReportLocation(c.Request.Context(), id, loc)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoute(route))
}

func (h *RouteHandler) Complete(c *gin.Context) {
	id, loc, ok := locationRequest(c)
	if !ok {
		return
	}

	route, err := h.Service.CompleteRoute(c.Request.Context(), id, loc)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoute(route))
}

func locationRequest(c *gin.Context) (int64, string, bool) {
	id, ok := pathID(c)
	if !ok {
		return 0, "", false
	}

	var req dto.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "body must be {\"currentLocation\": \"<lat>,<lng>\"}")
		return 0, "", false
	}
	return id, req.CurrentLocation, true
}
