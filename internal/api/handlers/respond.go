package handlers

import (
	"github.com/gin-gonic/gin"

	"ticket-ledger/internal/api/models"
)

// Error codes of the API's error envelope.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidTicket  = "INVALID_TICKET"
	CodeNotFound       = "NOT_FOUND"
	CodeStoreError     = "STORE_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
