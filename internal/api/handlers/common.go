package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Misakavorst/drl-quant-trading/internal/api/models"
)

var (
	errInlineAndPath = errors.New("provide either an inline dataset or a dataset path, not both")
	errNoDataset     = errors.New("a dataset or dataset path is required")
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
