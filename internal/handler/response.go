package handler

import (
	"net/http"

	"lokapasar-be/internal/logger"
	"lokapasar-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// respondInternal hides the underlying error from the client but logs it.
func respondInternal(c *gin.Context, err error) {
	logger.FromCtx(c.Request.Context()).Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ToUint(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
