package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"water-route-service/internal/api/dto"
	"water-route-service/internal/domain"
	"water-route-service/internal/ports"
)

// OrderHandler exposes the delivery status transitions of a single order.
type OrderHandler struct {
	Service ports.RouteService
}

// List returns orders waiting to be routed. Only status=pending is supported.
func (h *OrderHandler) List(c *gin.Context) {
	if status := c.DefaultQuery("status", string(domain.OrderStatusPending)); status != string(domain.OrderStatusPending) {
		writeBadRequest(c, "status must be pending")
		return
	}

	orders, err := h.Service.ListPendingOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromOrders(orders))
}

func (h *OrderHandler) MarkInTransit(c *gin.Context) {
	h.transition(c, h.Service.MarkOrderInTransit)
}

func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.Service.MarkOrderDelivered)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.Service.CancelOrder)
}

func (h *OrderHandler) transition(c *gin.Context, apply func(context.Context, int64) (*domain.Order, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := apply(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromOrder(order))
}
