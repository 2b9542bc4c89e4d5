package handler

import (
	"errors"
	"net/http"

	"lokapasar-be/internal/cart"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartSvc cart.Service
}

func NewCartHandler(cartSvc cart.Service) *CartHandler {
	return &CartHandler{cartSvc: cartSvc}
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	view, err := h.cartSvc.Get(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type addCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

func (h *CartHandler) Add(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	var req addCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.cartSvc.Add(c.Request.Context(), cart.AddParams{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "product not found")
		case errors.Is(err, cart.ErrInvalidQuantity):
			respondError(c, http.StatusBadRequest, "quantity must be at least 1")
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, item)
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.cartSvc.UpdateQuantity(c.Request.Context(), cart.UpdateParams{
		UserID:    userID,
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		if errors.Is(err, cart.ErrCartItemNotFound) {
			respondError(c, http.StatusNotFound, "cart item not found")
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	if err := h.cartSvc.Remove(c.Request.Context(), userID, productID); err != nil {
		if errors.Is(err, cart.ErrCartItemNotFound) {
			respondError(c, http.StatusNotFound, "cart item not found")
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	if err := h.cartSvc.Clear(c.Request.Context(), userID); err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
