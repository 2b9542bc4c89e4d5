package handler

import (
	"errors"
	"net/http"

	"lokapasar-be/internal/user"

	"github.com/gin-gonic/gin"
)

// cookie lifetime matches the JWT expiry.
const accessTokenMaxAge = 24 * 60 * 60

type AuthHandler struct {
	userSvc   user.Service
	secureEnv bool
}

func NewAuthHandler(userSvc user.Service, appEnv string) *AuthHandler {
	return &AuthHandler{
		userSvc:   userSvc,
		secureEnv: appEnv == "production",
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.userSvc.Register(c.Request.Context(), user.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailExists):
			respondError(c, http.StatusConflict, "email is already registered")
		case errors.Is(err, user.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := h.userSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondInternal(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", token, accessTokenMaxAge, "/", "", h.secureEnv, true)

	c.JSON(http.StatusOK, gin.H{
		"user":  u,
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", h.secureEnv, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
