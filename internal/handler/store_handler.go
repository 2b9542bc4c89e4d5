package handler

import (
	"errors"
	"net/http"

	"lokapasar-be/internal/auth"
	"lokapasar-be/internal/logger"
	"lokapasar-be/internal/store"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StoreHandler struct {
	storeSvc  store.Service
	jwtSecret string
	secureEnv bool
}

func NewStoreHandler(storeSvc store.Service, jwtSecret, appEnv string) *StoreHandler {
	return &StoreHandler{
		storeSvc:  storeSvc,
		jwtSecret: jwtSecret,
		secureEnv: appEnv == "production",
	}
}

func (h *StoreHandler) List(c *gin.Context) {
	limit, page := 20, 1
	if l := c.Query("limit"); l != "" {
		if n, err := utils.ToUint(l); err == nil {
			limit = int(n)
		}
	}
	if p := c.Query("page"); p != "" {
		if n, err := utils.ToUint(p); err == nil {
			page = int(n)
		}
	}

	stores, err := h.storeSvc.List(c.Request.Context(), limit, page)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

func (h *StoreHandler) GetBySlug(c *gin.Context) {
	s, err := h.storeSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, store.ErrStoreNotFound) {
			respondError(c, http.StatusNotFound, "store not found")
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *StoreHandler) GetOwn(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	s, err := h.storeSvc.GetOwn(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrStoreNotFound) {
			respondError(c, http.StatusNotFound, "store not found")
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

type storeRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

func (h *StoreHandler) Create(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	var req storeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.storeSvc.Create(c.Request.Context(), userID, store.CreateParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrStoreExists):
			respondError(c, http.StatusConflict, "user already has a store")
		case errors.Is(err, store.ErrSlugTaken):
			respondError(c, http.StatusConflict, "store name is taken")
		case errors.Is(err, store.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}

	// The session token was minted before the store existed, so seller
	// routes would reject the caller until the next login. Reissue it
	// with the new store id and refresh the cookie.
	email := utils.GetUserEmailFromContext(c.Request.Context())
	role := utils.GetUserRoleFromContext(c.Request.Context())
	token, err := auth.GenerateJWT(h.jwtSecret, userID, role, email, &s.ID)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("token reissue failed",
			zap.Uint("store_id", s.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusCreated, gin.H{"store": s})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", token, accessTokenMaxAge, "/", "", h.secureEnv, true)

	c.JSON(http.StatusCreated, gin.H{
		"store": s,
		"token": token,
	})
}

func (h *StoreHandler) Update(c *gin.Context) {
	storeID, ok := utils.GetStoreIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusNotFound, "store not found")
		return
	}

	var req storeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.storeSvc.Update(c.Request.Context(), storeID, store.CreateParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrStoreNotFound):
			respondError(c, http.StatusNotFound, "store not found")
		case errors.Is(err, store.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, s)
}
