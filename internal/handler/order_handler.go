package handler

import (
	"errors"
	"net/http"

	"lokapasar-be/internal/address"
	"lokapasar-be/internal/order"
	"lokapasar-be/internal/product"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderSvc order.Service
}

func NewOrderHandler(orderSvc order.Service) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

func callerStoreID(c *gin.Context) *uint {
	if storeID, ok := utils.GetStoreIDFromContext(c.Request.Context()); ok {
		return &storeID
	}
	return nil
}

type createOrderRequest struct {
	AddressID uint `json:"addressId" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orderSvc.Create(c.Request.Context(), order.CreateParams{
		BuyerID:   userID,
		AddressID: req.AddressID,
	})
	if err != nil {
		switch {
		case errors.Is(err, address.ErrAddressNotFound):
			respondError(c, http.StatusNotFound, "address not found")
		case errors.Is(err, product.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "product not found")
		case errors.Is(err, order.ErrEmptyCart):
			respondError(c, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, order.ErrProductUnavailable):
			respondError(c, http.StatusBadRequest, "a product in the cart is not available")
		case errors.Is(err, order.ErrInsufficientStock):
			respondError(c, http.StatusBadRequest, "insufficient stock")
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) ListOwn(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	orders, err := h.orderSvc.ListForBuyer(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListForStore is the seller view: orders holding the store's items, with a
// total over those items only.
func (h *OrderHandler) ListForStore(c *gin.Context) {
	storeID, ok := utils.GetStoreIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusNotFound, "store not found")
		return
	}

	orders, err := h.orderSvc.ListForStore(c.Request.Context(), storeID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.orderSvc.GetDetail(c.Request.Context(), id, userID, callerStoreID(c))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "order not found")
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
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
