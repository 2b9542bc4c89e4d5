package handler

import (
	"errors"
	"net/http"

	"lokapasar-be/internal/address"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	addressSvc address.Service
}

func NewAddressHandler(addressSvc address.Service) *AddressHandler {
	return &AddressHandler{addressSvc: addressSvc}
}

func (h *AddressHandler) List(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	addresses, err := h.addressSvc.List(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

type addressRequest struct {
	ReceiverName string `json:"receiverName" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine  string `json:"addressLine" binding:"required"`
	City         string `json:"city" binding:"required"`
	Province     string `json:"province" binding:"required"`
	PostalCode   string `json:"postalCode" binding:"required"`
	IsDefault    bool   `json:"isDefault"`
}

func (r addressRequest) params() address.Params {
	return address.Params{
		ReceiverName: r.ReceiverName,
		Phone:        r.Phone,
		AddressLine:  r.AddressLine,
		City:         r.City,
		Province:     r.Province,
		PostalCode:   r.PostalCode,
		IsDefault:    r.IsDefault,
	}
}

func (h *AddressHandler) Create(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.addressSvc.Create(c.Request.Context(), userID, req.params())
	if err != nil {
		if errors.Is(err, address.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AddressHandler) Update(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.addressSvc.Update(c.Request.Context(), id, userID, req.params())
	if err != nil {
		switch {
		case errors.Is(err, address.ErrAddressNotFound):
			respondError(c, http.StatusNotFound, "address not found")
		case errors.Is(err, address.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AddressHandler) Delete(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.addressSvc.Delete(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, address.ErrAddressNotFound):
			respondError(c, http.StatusNotFound, "address not found")
		case errors.Is(err, address.ErrAddressInUse):
			respondError(c, http.StatusConflict, "address is used by an order")
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
}

func (h *AddressHandler) SetDefault(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.addressSvc.SetDefault(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, address.ErrAddressNotFound) {
			respondError(c, http.StatusNotFound, "address not found")
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "default address updated"})
}
