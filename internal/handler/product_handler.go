package handler

import (
	"errors"
	"net/http"

	"lokapasar-be/internal/product"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productSvc product.Service
}

func NewProductHandler(productSvc product.Service) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

// List is the public catalog: active products only.
func (h *ProductHandler) List(c *gin.Context) {
	opts := product.ListOptions{OnlyActive: true}

	if search := c.Query("search"); search != "" {
		opts.Search = &search
	}
	if storeStr := c.Query("storeId"); storeStr != "" {
		storeID, err := utils.ToUint(storeStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid storeId")
			return
		}
		opts.StoreID = &storeID
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := utils.ToUint(limit)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = int(n)
	}
	if page := c.Query("page"); page != "" {
		n, err := utils.ToUint(page)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid page")
			return
		}
		opts.Page = int(n)
	}

	products, err := h.productSvc.List(c.Request.Context(), opts)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.productSvc.GetPublicByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListOwn lists the seller's own products, inactive ones included.
func (h *ProductHandler) ListOwn(c *gin.Context) {
	storeID, ok := utils.GetStoreIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusNotFound, "store not found")
		return
	}

	products, err := h.productSvc.List(c.Request.Context(), product.ListOptions{StoreID: &storeID})
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type createProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Price       string  `json:"price" binding:"required"`
	Stock       int     `json:"stock"`
	Type        *string `json:"type"`
	ImageURL    *string `json:"imageUrl"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	storeID, ok := utils.GetStoreIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusNotFound, "store not found")
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid price")
		return
	}

	p, err := h.productSvc.Create(c.Request.Context(), storeID, product.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		Type:        req.Type,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, product.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Stock       *int    `json:"stock"`
	Status      *string `json:"status"`
	Type        *string `json:"type"`
	ImageURL    *string `json:"imageUrl"`
}

func (h *ProductHandler) Update(c *gin.Context) {
	storeID, ok := utils.GetStoreIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusNotFound, "store not found")
		return
	}

	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	params := product.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		Status:      req.Status,
		Type:        req.Type,
		ImageURL:    req.ImageURL,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid price")
			return
		}
		params.Price = &price
	}

	p, err := h.productSvc.Update(c.Request.Context(), storeID, productID, params)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound), errors.Is(err, product.ErrNotOwner):
			respondError(c, http.StatusNotFound, "product not found")
		case errors.Is(err, product.ErrInvalidInput), errors.Is(err, product.ErrInvalidStatus):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, p)
}
