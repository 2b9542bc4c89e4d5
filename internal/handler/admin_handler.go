package handler

import (
	"errors"
	"net/http"

	"lokapasar-be/internal/settings"
	"lokapasar-be/internal/user"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userSvc     user.Service
	settingsSvc settings.Service
}

func NewAdminHandler(userSvc user.Service, settingsSvc settings.Service) *AdminHandler {
	return &AdminHandler{userSvc: userSvc, settingsSvc: settingsSvc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
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

	users, err := h.userSvc.List(c.Request.Context(), limit, page)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userSvc.UpdateRole(c.Request.Context(), id, req.Role); err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, user.ErrInvalidRole):
			respondError(c, http.StatusBadRequest, "invalid role")
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (h *AdminHandler) ListSettings(c *gin.Context) {
	list, err := h.settingsSvc.List(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settingsSvc.Update(c.Request.Context(), req.Key, req.Value); err != nil {
		switch {
		case errors.Is(err, settings.ErrSettingNotFound):
			respondError(c, http.StatusBadRequest, "unknown setting key")
		case errors.Is(err, settings.ErrInvalidSetting):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "setting updated"})
}
