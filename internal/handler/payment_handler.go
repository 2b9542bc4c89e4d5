package handler

import (
	"errors"
	"net/http"

	"lokapasar-be/internal/order"
	"lokapasar-be/internal/payment"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentSvc payment.Service
}

func NewPaymentHandler(paymentSvc payment.Service) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

type initiatePaymentRequest struct {
	OrderID uint `json:"orderId" binding:"required"`
}

func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	var req initiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.paymentSvc.Initiate(c.Request.Context(), req.OrderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, "order not found")
		case errors.Is(err, payment.ErrOrderNotPending):
			respondError(c, http.StatusBadRequest, "order is not payable")
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) List(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	payments, err := h.paymentSvc.ListForBuyer(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// Notification is the gateway's server-to-server callback. It carries no
// session; authenticity comes from the signature check.
func (h *PaymentHandler) Notification(c *gin.Context) {
	var n payment.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		respondError(c, http.StatusBadRequest, "invalid notification body")
		return
	}

	if err := h.paymentSvc.HandleNotification(c.Request.Context(), n); err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			respondError(c, http.StatusUnauthorized, "invalid signature")
		case errors.Is(err, payment.ErrPaymentNotFound):
			respondError(c, http.StatusNotFound, "payment not found")
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
