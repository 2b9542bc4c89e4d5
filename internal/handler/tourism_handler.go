package handler

import (
	"errors"
	"net/http"

	"lokapasar-be/internal/order"
	"lokapasar-be/internal/ticket"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// TourismHandler serves tourism managers: ticket sales of their store and
// the QR codes issued for them.
type TourismHandler struct {
	orderSvc  order.Service
	ticketSvc ticket.Service
}

func NewTourismHandler(orderSvc order.Service, ticketSvc ticket.Service) *TourismHandler {
	return &TourismHandler{orderSvc: orderSvc, ticketSvc: ticketSvc}
}

func (h *TourismHandler) ListTickets(c *gin.Context) {
	storeID, ok := utils.GetStoreIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusNotFound, "store not found")
		return
	}

	tickets, err := h.ticketSvc.ListForStore(c.Request.Context(), storeID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

type orderItemWithQrs struct {
	*order.OrderItem
	Qrs []*ticket.TicketQr `json:"qrs"`
}

// GetOrder returns the order with QR codes attached to the caller's own
// store's items. Items sold by other stores in the same order stay opaque.
func (h *TourismHandler) GetOrder(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	storeID, ok := utils.GetStoreIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusNotFound, "store not found")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.orderSvc.GetDetail(c.Request.Context(), id, userID, &storeID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "order not found")
			return
		}
		respondInternal(c, err)
		return
	}

	items := make([]orderItemWithQrs, 0, len(o.Items))
	for _, item := range o.Items {
		if item.StoreID != storeID {
			continue
		}
		qrs, err := h.ticketSvc.ListForOrderItem(c.Request.Context(), item.ID)
		if err != nil {
			respondInternal(c, err)
			return
		}
		if qrs == nil {
			qrs = []*ticket.TicketQr{}
		}
		items = append(items, orderItemWithQrs{OrderItem: item, Qrs: qrs})
	}

	c.JSON(http.StatusOK, gin.H{
		"order": o,
		"items": items,
	})
}

func (h *TourismHandler) UpdateOrderStatus(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orderSvc.UpdateStatus(c.Request.Context(), id, order.Status(req.Status), userID, callerStoreID(c))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, "order not found")
		case errors.Is(err, order.ErrInvalidStatus), errors.Is(err, order.ErrInvalidTransition):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, o)
}
